package server

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pedidohub/pedidohub/internal/config"
	webhookdomain "github.com/pedidohub/pedidohub/internal/webhook/domain"
	"github.com/pedidohub/pedidohub/internal/webhook/signature"
	"go.uber.org/zap"
)

type fakeWebhookService struct {
	result webhookdomain.Result
	err    error
	calls  int
	event  *webhookdomain.WebhookEvent
}

func (f *fakeWebhookService) Process(ctx context.Context, delivery webhookdomain.Delivery) (webhookdomain.Result, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeWebhookService) GetEvent(ctx context.Context, gateway, eventID string) (*webhookdomain.WebhookEvent, error) {
	return f.event, nil
}

func newTestServer(t *testing.T, svc *fakeWebhookService, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := NewEngine()
	NewServer(ServerParams{
		Gin:        engine,
		Cfg:        config.Config{},
		WebhookSvc: svc,
		Verifier:   signature.NewVerifier(secret),
		Log:        zap.NewNop(),
	})
	return engine
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestHandleCaktoWebhookOK(t *testing.T) {
	svc := &fakeWebhookService{result: webhookdomain.Result{Outcome: webhookdomain.OutcomeActivated}}
	engine := newTestServer(t, svc, "")

	body := []byte(`{"event":"purchase_approved"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/cakto", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.calls != 1 {
		t.Fatalf("service calls = %d", svc.calls)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["ok"] != true || resp["activated"] != true {
		t.Fatalf("unexpected response: %v", resp)
	}
}

func TestHandleCaktoWebhookSignature(t *testing.T) {
	svc := &fakeWebhookService{result: webhookdomain.Result{Outcome: webhookdomain.OutcomeIgnored}}
	engine := newTestServer(t, svc, "whsec_test")

	body := []byte(`{"event":"purchase_approved"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/cakto", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unsigned request: status = %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("service called despite rejected signature")
	}

	req = httptest.NewRequest(http.MethodPost, "/webhooks/cakto", bytes.NewReader(body))
	req.Header.Set("X-Cakto-Signature", sign("whsec_test", body))
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("signed request: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// The alternate header spelling is accepted too.
	req = httptest.NewRequest(http.MethodPost, "/webhooks/cakto", bytes.NewReader(body))
	req.Header.Set("X-Signature", "sha256="+sign("whsec_test", body))
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("alternate header: status = %d", rec.Code)
	}
}

func TestHandleCaktoWebhookInvalidPayload(t *testing.T) {
	svc := &fakeWebhookService{err: webhookdomain.ErrInvalidPayload}
	engine := newTestServer(t, svc, "")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/cakto", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetCaktoWebhookEvent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := &fakeWebhookService{event: &webhookdomain.WebhookEvent{
		EventID:    "evt-1",
		Gateway:    webhookdomain.GatewayCakto,
		EventType:  "purchase_approved",
		ReceivedAt: now,
	}}
	engine := newTestServer(t, svc, "")

	req := httptest.NewRequest(http.MethodGet, "/webhooks/cakto/events/evt-1", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	svc.event = nil
	req = httptest.NewRequest(http.MethodGet, "/webhooks/cakto/events/missing", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	engine := newTestServer(t, &fakeWebhookService{}, "")

	req := httptest.NewRequest(http.MethodGet, "/webhooks/cakto", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	webhookdomain "github.com/pedidohub/pedidohub/internal/webhook/domain"
	"go.uber.org/zap"
)

// Signature headers checked in order. The gateway has shipped both
// spellings over time.
var signatureHeaders = []string{"X-Cakto-Signature", "X-Signature"}

// HandleCaktoWebhook ingests one gateway delivery. Business no-ops
// (duplicates, ignored events, unresolvable payloads) still answer 200
// so the gateway stops retrying; only signature failures, malformed
// JSON and dependency errors are surfaced as non-2xx.
func (s *Server) HandleCaktoWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if !s.verifier.Verify(payload, signatureHeader(c)) {
		s.log.Warn("webhook signature rejected", zap.String("remote_addr", c.ClientIP()))
		AbortWithError(c, webhookdomain.ErrInvalidSignature)
		return
	}

	result, err := s.webhooksvc.Process(c.Request.Context(), webhookdomain.Delivery{
		Gateway: webhookdomain.GatewayCakto,
		Payload: payload,
		Headers: c.Request.Header,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"ok": true}
	if result.Outcome != "" {
		resp[result.Outcome] = true
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetCaktoWebhookEvent(c *gin.Context) {
	eventID := strings.TrimSpace(c.Param("id"))
	if eventID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	event, err := s.webhooksvc.GetEvent(c.Request.Context(), webhookdomain.GatewayCakto, eventID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if event == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, event)
}

func signatureHeader(c *gin.Context) string {
	for _, name := range signatureHeaders {
		if v := strings.TrimSpace(c.GetHeader(name)); v != "" {
			return v
		}
	}
	return ""
}

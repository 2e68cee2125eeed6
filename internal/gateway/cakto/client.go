// Package cakto is the outbound client for the Cakto gateway API. The
// webhook processor uses it to enrich lazily created plans when the
// payload itself lacks offer metadata.
package cakto

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pedidohub/pedidohub/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Offer is the gateway's description of a billable offer.
type Offer struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	IntervalType string  `json:"intervalType"`
	Interval     int     `json:"interval"`
}

// OfferClient looks up offers by external id.
type OfferClient interface {
	Offer(ctx context.Context, offerID string) (*Offer, error)
}

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpc        *http.Client
	tokens       *TokenCache
	log          *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) OfferClient {
	if cfg.Cakto.ClientID == "" || cfg.Cakto.ClientSecret == "" {
		return nil
	}
	return &Client{
		baseURL:      cfg.Cakto.APIBaseURL,
		clientID:     cfg.Cakto.ClientID,
		clientSecret: cfg.Cakto.ClientSecret,
		httpc:        &http.Client{Timeout: 10 * time.Second},
		tokens:       NewTokenCache(),
		log:          log.Named("gateway.cakto"),
	}
}

func (c *Client) Offer(ctx context.Context, offerID string) (*Offer, error) {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return nil, fmt.Errorf("offer id is required")
	}

	token, err := c.tokens.Get(ctx, c.fetchToken)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/offers/%s", c.baseURL, url.PathEscape(offerID)), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cakto offer lookup: unexpected status %d", resp.StatusCode)
	}

	var offer Offer
	if err := json.NewDecoder(resp.Body).Decode(&offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

func (c *Client) fetchToken(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, fmt.Errorf("cakto token: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", time.Time{}, err
	}
	if body.AccessToken == "" {
		return "", time.Time{}, fmt.Errorf("cakto token: empty access_token")
	}

	expiresAt := time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	c.log.Debug("gateway token refreshed", zap.Time("expires_at", expiresAt))
	return body.AccessToken, expiresAt, nil
}

// Module provides the Cakto offer client; nil when credentials are not
// configured, in which case plan creation relies on payload metadata only.
var Module = fx.Module("gateway.cakto",
	fx.Provide(NewClient),
)

// Package signature validates that a delivery was sent by the trusted
// gateway.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// Verifier checks webhook deliveries against a shared secret.
// An empty secret disables verification entirely.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: strings.TrimSpace(secret)}
}

// Enabled reports whether a secret is configured.
func (v *Verifier) Enabled() bool { return v.secret != "" }

// Verify checks the HMAC-SHA256 of the raw body against the signature
// header. When the header check fails, a payload-embedded shared
// secret equal to the configured secret is accepted as a fallback;
// some gateways embed a static secret in the body instead of signing.
func (v *Verifier) Verify(rawBody []byte, signatureHeader string) bool {
	if v.secret == "" {
		return true
	}

	if v.verifyHeader(rawBody, signatureHeader) {
		return true
	}

	return v.verifyEmbeddedSecret(rawBody)
}

func (v *Verifier) verifyHeader(rawBody []byte, signatureHeader string) bool {
	signatureHeader = strings.TrimSpace(signatureHeader)
	signatureHeader = strings.TrimPrefix(signatureHeader, "sha256=")
	if signatureHeader == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	_, _ = mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(strings.ToLower(signatureHeader)), []byte(expected))
}

func (v *Verifier) verifyEmbeddedSecret(rawBody []byte) bool {
	var payload struct {
		Secret string `json:"secret"`
		Data   struct {
			Secret string `json:"secret"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		return false
	}

	for _, candidate := range []string{payload.Secret, payload.Data.Secret} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if hmac.Equal([]byte(candidate), []byte(v.secret)) {
			return true
		}
	}
	return false
}

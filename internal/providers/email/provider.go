package email

import "context"

// Provider sends transactional mail. Failures are surfaced to the
// caller, which decides whether they abort the surrounding operation.
type Provider interface {
	Send(ctx context.Context, to []string, subject, htmlBody, textBody string) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject, htmlBody, textBody string) error {
	return nil
}

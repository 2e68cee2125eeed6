// Package notifier composes and sends the access email after a
// company's first paid activation.
package notifier

import (
	"context"
	"fmt"

	"github.com/pedidohub/pedidohub/internal/config"
	"github.com/pedidohub/pedidohub/internal/providers/email"
	"go.uber.org/zap"
)

// AccessEmail is the payload for the welcome/access notification.
type AccessEmail struct {
	To           string
	FullName     string
	CompanyName  string
	PlanName     string
	TempPassword string
	NewAccount   bool
}

type Notifier struct {
	provider email.Provider
	baseURL  string
	log      *zap.Logger
}

func New(provider email.Provider, cfg config.Config, log *zap.Logger) *Notifier {
	return &Notifier{
		provider: provider,
		baseURL:  cfg.AppBaseURL,
		log:      log.Named("notifier"),
	}
}

// SendAccess delivers the access email. Email is best-effort: failures
// are logged and reported as false, never returned as an error, so a
// failed send does not roll back provisioning.
func (n *Notifier) SendAccess(ctx context.Context, msg AccessEmail) bool {
	subject := "Seu acesso ao Pedido Hub está liberado"
	loginURL := n.baseURL + "/login"

	greetName := msg.FullName
	if greetName == "" {
		greetName = msg.To
	}

	var credentials string
	var credentialsText string
	if msg.NewAccount && msg.TempPassword != "" {
		credentials = fmt.Sprintf(
			"<p>Sua senha temporária: <strong>%s</strong><br>Você deverá trocá-la no primeiro acesso.</p>",
			msg.TempPassword,
		)
		credentialsText = fmt.Sprintf("Sua senha temporária: %s (troque no primeiro acesso)\n", msg.TempPassword)
	}

	htmlBody := fmt.Sprintf(`<p>Olá, %s!</p>
<p>O pagamento do plano <strong>%s</strong> para <strong>%s</strong> foi confirmado.</p>
%s
<p><a href="%s">Acessar o Pedido Hub</a></p>`,
		greetName, msg.PlanName, msg.CompanyName, credentials, loginURL)

	textBody := fmt.Sprintf("Olá, %s!\n\nO pagamento do plano %s para %s foi confirmado.\n%sAcesse: %s\n",
		greetName, msg.PlanName, msg.CompanyName, credentialsText, loginURL)

	if err := n.provider.Send(ctx, []string{msg.To}, subject, htmlBody, textBody); err != nil {
		n.log.Warn("access email failed",
			zap.String("to", msg.To),
			zap.Error(err),
		)
		return false
	}
	return true
}

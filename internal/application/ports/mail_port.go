package ports

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// MailMessage correo con un adjunto enviado desde la cuenta delegada de la empresa.
type MailMessage struct {
	AccessToken    string
	RefreshToken   string
	From           string
	To             string
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// MailDispatcher envía el correo. Nunca devuelve error: cualquier fallo se reporta como entity.DeliveryFailed.
type MailDispatcher interface {
	Send(ctx context.Context, msg MailMessage) entity.DeliveryStatus
}

// MailToken par de tokens devuelto por el flujo de autorización delegada.
type MailToken struct {
	AccessToken  string
	RefreshToken string
}

// MailAuthorizer colaborador del handshake OAuth con el proveedor de correo.
type MailAuthorizer interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*MailToken, error)
}

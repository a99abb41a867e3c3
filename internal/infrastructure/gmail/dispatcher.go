package gmail

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

// sendTimeout tope de una llamada de envío completa (refresh + send).
const sendTimeout = 30 * time.Second

var _ ports.MailDispatcher = (*Dispatcher)(nil)

// Dispatcher implementa ports.MailDispatcher sobre la API de Gmail.
type Dispatcher struct {
	oauth      *oauth2.Config
	endpoint   string
	httpClient *http.Client // base para token y API; nil = http.DefaultClient
	log        *logger.Logger
}

// NewDispatcher construye el dispatcher con la identidad del cliente OAuth2.
func NewDispatcher(cfg Config, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		oauth:    cfg.OAuthConfig(),
		endpoint: cfg.APIEndpoint,
		log:      log.Component("gmail"),
	}
}

// WithHTTPClient usa c como transporte base (tests, proxies).
func (d *Dispatcher) WithHTTPClient(c *http.Client) *Dispatcher {
	d.httpClient = c
	return d
}

// Send envía el mensaje como el usuario "me" de la cuenta delegada. Nunca propaga errores.
//
// Con refresh token el access token guardado se trata como vencido: la librería OAuth2
// obtiene uno nuevo antes de llamar a la API. Sin refresh token se usa tal cual.
func (d *Dispatcher) Send(ctx context.Context, msg ports.MailMessage) (status entity.DeliveryStatus) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().Interface("panic", r).Msg("envío de correo abortado")
			status = entity.DeliveryFailed
		}
	}()

	if msg.AccessToken == "" && msg.RefreshToken == "" {
		d.log.Warn().Str("from", msg.From).Msg("sin credenciales delegadas")
		return entity.DeliveryFailed
	}
	if err := d.send(ctx, msg); err != nil {
		d.log.Warn().Err(err).Str("from", msg.From).Msg("envío de correo fallido")
		return entity.DeliveryFailed
	}
	d.log.Info().Str("from", msg.From).Msg("correo enviado")
	return entity.DeliverySent
}

func (d *Dispatcher) send(ctx context.Context, msg ports.MailMessage) error {
	raw, err := buildRaw(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if d.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, d.httpClient)
	}

	tok := &oauth2.Token{AccessToken: msg.AccessToken, RefreshToken: msg.RefreshToken, TokenType: "Bearer"}
	if msg.RefreshToken != "" {
		tok.Expiry = time.Now().Add(-time.Minute)
	}

	opts := []option.ClientOption{option.WithHTTPClient(d.oauth.Client(ctx, tok))}
	if d.endpoint != "" {
		opts = append(opts, option.WithEndpoint(d.endpoint))
	}
	svc, err := gmailapi.NewService(ctx, opts...)
	if err != nil {
		return fmt.Errorf("gmail: crear servicio: %w", err)
	}
	if _, err := svc.Users.Messages.Send("me", &gmailapi.Message{Raw: raw}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail: users.messages.send: %w", err)
	}
	return nil
}

package gmail

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/jhoicas/Cotizador-api/internal/application/ports"
)

var _ ports.MailAuthorizer = (*Authorizer)(nil)

// Authorizer handshake OAuth2 con Google para obtener el par de tokens de una empresa.
type Authorizer struct {
	oauth      *oauth2.Config
	httpClient *http.Client
}

// NewAuthorizer construye el autorizador.
func NewAuthorizer(cfg Config) *Authorizer {
	return &Authorizer{oauth: cfg.OAuthConfig()}
}

// WithHTTPClient usa c para el intercambio del código (tests).
func (a *Authorizer) WithHTTPClient(c *http.Client) *Authorizer {
	a.httpClient = c
	return a
}

// AuthCodeURL pide acceso offline y fuerza el consentimiento para que Google devuelva refresh token.
func (a *Authorizer) AuthCodeURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange canjea el código de autorización.
func (a *Authorizer) Exchange(ctx context.Context, code string) (*ports.MailToken, error) {
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}
	tok, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("gmail: intercambiar código: %w", err)
	}
	return &ports.MailToken{AccessToken: tok.AccessToken, RefreshToken: tok.RefreshToken}, nil
}

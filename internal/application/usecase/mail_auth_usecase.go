package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

// callbackPath destino en el frontend tras autorizar Gmail.
const callbackPath = "/dashboard/configuracion?oauth=ok"

// SessionAuthenticator valida un token de sesión (el mismo que usa el middleware).
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// MailAuthUseCase flujo de autorización delegada de Gmail para una empresa.
// El token de sesión viaja como state y se vuelve a validar en el callback.
type MailAuthUseCase struct {
	companies   repository.CompanyRepository
	authorizer  ports.MailAuthorizer
	sessions    SessionAuthenticator
	frontendURL string
	log         *logger.Logger
}

// NewMailAuthUseCase construye el caso de uso.
func NewMailAuthUseCase(
	companies repository.CompanyRepository,
	authorizer ports.MailAuthorizer,
	sessions SessionAuthenticator,
	frontendURL string,
	log *logger.Logger,
) *MailAuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MailAuthUseCase{
		companies:   companies,
		authorizer:  authorizer,
		sessions:    sessions,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		log:         log.Component("mail_auth"),
	}
}

// AuthorizeURL URL de consentimiento del proveedor para la empresa dueña del token.
func (uc *MailAuthUseCase) AuthorizeURL(ctx context.Context, token string) (string, error) {
	p, err := uc.sessions.Authenticate(ctx, token)
	if err != nil {
		return "", err
	}
	if p.CompanyID == "" {
		return "", domain.ErrForbidden
	}
	return uc.authorizer.AuthCodeURL(token), nil
}

// Callback canjea el código y guarda el par de tokens. Si el proveedor no devuelve refresh token
// se conserva el anterior. Devuelve la URL del frontend a la que redirigir (vacía si no hay frontend).
func (uc *MailAuthUseCase) Callback(ctx context.Context, state, code string) (string, error) {
	if state == "" {
		return "", domain.ErrUnauthorized
	}
	p, err := uc.sessions.Authenticate(ctx, state)
	if err != nil {
		return "", err
	}
	if p.CompanyID == "" {
		return "", domain.ErrForbidden
	}
	if code == "" {
		return "", fmt.Errorf("%w: falta el código de autorización", domain.ErrInvalidInput)
	}
	tok, err := uc.authorizer.Exchange(ctx, code)
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", p.CompanyID).Msg("intercambio de código OAuth rechazado")
		return "", fmt.Errorf("%w: el proveedor rechazó el código", domain.ErrInvalidInput)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("%w: el proveedor no devolvió access token", domain.ErrInvalidInput)
	}
	if err := uc.companies.SetMailTokens(ctx, p.CompanyID, tok.AccessToken, tok.RefreshToken); err != nil {
		return "", err
	}
	uc.log.Info().Str("company_id", p.CompanyID).Bool("refresh", tok.RefreshToken != "").Msg("gmail autorizado")
	if uc.frontendURL == "" {
		return "", nil
	}
	return uc.frontendURL + callbackPath, nil
}

package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/dto"
)

// Locals keys que deja el middleware de auth en Fiber.
const (
	LocalPrincipal = "principal"
	LocalCompanyID = "company_id"
	LocalToken     = "token"
)

// Authenticator valida el token contra la sesión activa. Lo implementa *auth.AuthUseCase.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// AuthMiddleware valida el Bearer Token y carga el principal en c.Locals.
// Cualquier rechazo responde 401 con el mismo mensaje.
func AuthMiddleware(authn Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c)
		}
		p, err := authn.Authenticate(c.UserContext(), token)
		if err != nil || p == nil {
			return unauthorized(c)
		}
		c.Locals(LocalPrincipal, p)
		c.Locals(LocalCompanyID, p.CompanyID)
		c.Locals(LocalToken, token)
		return c.Next()
	}
}

// RequireAdmin deja pasar solo tokens de administrador. Va después de AuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return unauthorized(c)
		}
		if !p.Admin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere rol de administrador"})
		}
		return c.Next()
	}
}

// RequireTenant deja pasar solo tokens de empresa. Va después de AuthMiddleware.
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p == nil {
			return unauthorized(c)
		}
		if p.CompanyID == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere un token de empresa"})
		}
		return c.Next()
	}
}

// GetPrincipal devuelve el principal autenticado (después del middleware de auth).
func GetPrincipal(c *fiber.Ctx) *auth.Principal {
	p, _ := c.Locals(LocalPrincipal).(*auth.Principal)
	return p
}

// GetCompanyID devuelve el CompanyID del contexto (después del middleware de auth).
func GetCompanyID(c *fiber.Ctx) string {
	v := c.Locals(LocalCompanyID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetToken devuelve el token presentado en la petición.
func GetToken(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalToken).(string)
	return s
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
}

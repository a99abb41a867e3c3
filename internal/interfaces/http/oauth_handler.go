package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
)

// OAuthHandler autorización delegada de Gmail.
type OAuthHandler struct {
	uc *usecase.MailAuthUseCase
}

// NewOAuthHandler construye el handler.
func NewOAuthHandler(uc *usecase.MailAuthUseCase) *OAuthHandler {
	return &OAuthHandler{uc: uc}
}

// Authorize godoc
// @Summary      Redirigir al consentimiento de Google
// @Description  Se abre desde el navegador, por eso acepta el token también como query param.
// @Tags         oauth
// @Param        token  query  string  false  "token de sesión de la empresa"
// @Success      302
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/oauth2/authorize [get]
func (h *OAuthHandler) Authorize(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		token, _ = bearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if token == "" {
		return unauthorized(c)
	}
	url, err := h.uc.AuthorizeURL(c.UserContext(), token)
	if err != nil {
		return writeError(c, err)
	}
	return c.Redirect(url, fiber.StatusFound)
}

// Callback godoc
// @Summary      Callback OAuth2 de Google
// @Tags         oauth
// @Param        code   query  string  true  "código de autorización"
// @Param        state  query  string  true  "token de sesión enviado en authorize"
// @Success      302
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/oauth2/callback [get]
func (h *OAuthHandler) Callback(c *fiber.Ctx) error {
	if e := c.Query("error"); e != "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "OAUTH_DENIED", Message: "autorización cancelada", Detail: e})
	}
	redirect, err := h.uc.Callback(c.UserContext(), c.Query("state"), c.Query("code"))
	if err != nil {
		return writeError(c, err)
	}
	if redirect == "" {
		return c.JSON(dto.MessageResponse{Message: "Gmail autorizado"})
	}
	return c.Redirect(redirect, fiber.StatusFound)
}

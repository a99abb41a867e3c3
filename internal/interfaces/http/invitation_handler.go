package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/invitation"
)

// InvitationTTL vigencias en minutos de los códigos emitidos.
type InvitationTTL struct {
	Admin     int
	Bootstrap int
}

// InvitationHandler emisión y administración de códigos de invitación.
type InvitationHandler struct {
	ledger *invitation.Ledger
	authUC *auth.AuthUseCase
	ttl    InvitationTTL
}

// NewInvitationHandler construye el handler.
func NewInvitationHandler(ledger *invitation.Ledger, authUC *auth.AuthUseCase, ttl InvitationTTL) *InvitationHandler {
	return &InvitationHandler{ledger: ledger, authUC: authUC, ttl: ttl}
}

// Bootstrap godoc
// @Summary      Emitir código con credenciales de administrador
// @Tags         invitaciones
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BootstrapCodeRequest  true  "email y password del administrador"
// @Success      201   {object}  dto.IssuedCodeResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/codigo/seguridad [post]
func (h *InvitationHandler) Bootstrap(c *fiber.Ctx) error {
	var in dto.BootstrapCodeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if !h.authUC.IsAdmin(in.Email, in.Password) {
		return unauthorized(c)
	}
	return h.issue(c, h.ttl.Bootstrap)
}

// Issue godoc
// @Summary      Emitir código de invitación
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      201   {object}  dto.IssuedCodeResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/codigos [post]
func (h *InvitationHandler) Issue(c *fiber.Ctx) error {
	return h.issue(c, h.ttl.Admin)
}

func (h *InvitationHandler) issue(c *fiber.Ctx, minutes int) error {
	code, err := h.ledger.Issue(c.UserContext(), minutes)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.IssuedCodeResponse{Code: code.Code, ExpiresAt: code.ExpiresAt})
}

// List godoc
// @Summary      Listar códigos de invitación
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "límite"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200   {object}  dto.InvitationCodeListResponse
// @Router       /api/admin/codigos [get]
func (h *InvitationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	page.DefaultPage()
	list, err := h.ledger.List(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.InvitationCodeResponse, 0, len(list))
	for _, code := range list {
		items = append(items, dto.InvitationCodeResponse{
			ID: code.ID, Code: code.Code, CreatedAt: code.CreatedAt, ExpiresAt: code.ExpiresAt, Used: code.Used,
		})
	}
	return c.JSON(dto.InvitationCodeListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// Revoke godoc
// @Summary      Revocar código de invitación
// @Tags         admin
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del código"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/codigos/{id} [delete]
func (h *InvitationHandler) Revoke(c *fiber.Ctx) error {
	if err := h.ledger.Revoke(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// genericMessages códigos que responden un mensaje fijo sin detalle, sin revelar qué verificación falló.
var genericMessages = map[string]string{
	"INVITATION_REJECTED": "código de invitación inválido o vencido",
}

// errorTable orden de evaluación: los más específicos primero.
var errorTable = []errorMapping{
	{domain.ErrMalformedInput, fiber.StatusBadRequest, "MALFORMED_INPUT"},
	{domain.ErrUnknownProduct, fiber.StatusBadRequest, "UNKNOWN_PRODUCT"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvitationNotFound, fiber.StatusForbidden, "INVITATION_REJECTED"},
	{domain.ErrInvitationExpired, fiber.StatusForbidden, "INVITATION_REJECTED"},
	{domain.ErrInvitationUsed, fiber.StatusForbidden, "INVITATION_REJECTED"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrMailNotAuthorized, fiber.StatusForbidden, "MAIL_NOT_AUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{domain.ErrNameAlreadyExists, fiber.StatusConflict, "NAME_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrRenderFailed, fiber.StatusInternalServerError, "RENDER_FAILED"},
	{domain.ErrPersistFailed, fiber.StatusInternalServerError, "PERSIST_FAILED"},
}

// writeError traduce errores de dominio a {code, error, detail?} con el status correspondiente.
// Los errores no mapeados responden 500 sin exponer el detalle interno.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			if msg, ok := genericMessages[m.code]; ok {
				return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
			}
			body := dto.ErrorResponse{Code: m.code, Message: m.target.Error()}
			// 401 y 5xx nunca llevan detalle.
			if m.status < fiber.StatusInternalServerError && m.status != fiber.StatusUnauthorized && err.Error() != m.target.Error() {
				body.Detail = err.Error()
			}
			return c.Status(m.status).JSON(body)
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
)

// SupportHandler solicitudes de soporte de las empresas y respuestas del administrador.
type SupportHandler struct {
	uc *usecase.SupportUseCase
}

// NewSupportHandler construye el handler de soporte.
func NewSupportHandler(uc *usecase.SupportUseCase) *SupportHandler {
	return &SupportHandler{uc: uc}
}

// Submit godoc
// @Summary      Enviar solicitud de soporte
// @Tags         soporte
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSupportRequest  true  "asunto y mensaje"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/soporte [post]
func (h *SupportHandler) Submit(c *fiber.Ctx) error {
	var in dto.CreateSupportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if _, err := h.uc.Submit(c.UserContext(), GetCompanyID(c), in); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Solicitud de soporte enviada"})
}

// List godoc
// @Summary      Listar solicitudes de soporte
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "límite"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200   {object}  dto.SupportTicketListResponse
// @Router       /api/admin/soporte [get]
func (h *SupportHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Answer godoc
// @Summary      Responder solicitud de soporte
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la solicitud"
// @Param        body  body  dto.AnswerSupportRequest  true  "respuesta"
// @Success      200   {object}  dto.SupportTicketResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/soporte/{id}/responder [post]
func (h *SupportHandler) Answer(c *fiber.Ctx) error {
	var in dto.AnswerSupportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Answer(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

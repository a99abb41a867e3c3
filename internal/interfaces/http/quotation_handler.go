package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
)

// QuotationHandler pipeline y consulta de cotizaciones de la empresa autenticada.
type QuotationHandler struct {
	uc *quotation.UseCase
}

// NewQuotationHandler construye el handler de cotizaciones.
func NewQuotationHandler(uc *quotation.UseCase) *QuotationHandler {
	return &QuotationHandler{uc: uc}
}

// Create godoc
// @Summary      Procesar cotización
// @Description  Calcula, genera el PDF, lo envía al cliente por Gmail y guarda el registro.
// @Description  Un envío fallido no es error: la respuesta trae estado "Fallido".
// @Tags         cotizaciones
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateQuotationRequest  true  "cliente, correo, productos[{id,cantidad}], descuento, iva"
// @Success      201   {object}  dto.QuotationProcessedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/cotizaciones [post]
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p := GetPrincipal(c)
	if p == nil {
		return unauthorized(c)
	}
	out, err := h.uc.Create(c.UserContext(), p.Company, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar cotizaciones
// @Tags         cotizaciones
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "límite"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200   {object}  dto.QuotationListResponse
// @Router       /api/cotizaciones [get]
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cotización
// @Tags         cotizaciones
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {object}  dto.QuotationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id} [get]
func (h *QuotationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Document godoc
// @Summary      Descargar PDF de la cotización
// @Tags         cotizaciones
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la cotización"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id}/pdf [get]
func (h *QuotationHandler) Document(c *fiber.Ctx) error {
	doc, code, err := h.uc.Document(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="cotizacion_%s.pdf"`, code))
	return c.Send(doc)
}

// Update godoc
// @Summary      Actualizar cotización
// @Description  Si cambian productos, descuento o iva se recalculan los totales. El PDF guardado se regenera; no se reenvía.
// @Tags         cotizaciones
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la cotización"
// @Param        body  body  dto.UpdateQuotationRequest  true  "campos a modificar"
// @Success      200   {object}  dto.QuotationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id} [put]
func (h *QuotationHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateQuotationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p := GetPrincipal(c)
	if p == nil {
		return unauthorized(c)
	}
	out, err := h.uc.Update(c.UserContext(), p.Company, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cotización
// @Tags         cotizaciones
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la cotización"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cotizaciones/{id} [delete]
func (h *QuotationHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
)

// CompanyHandler perfil de la empresa autenticada y listado de administrador.
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler de empresas.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Me godoc
// @Summary      Perfil de la empresa autenticada
// @Tags         empresa
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/empresa/me [get]
func (h *CompanyHandler) Me(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p != nil && p.Company != nil {
		return c.JSON(auth.ToCompanyResponse(p.Company))
	}
	out, err := h.uc.GetByID(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar empresas registradas
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        limit   query  int  false  "límite"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {object}  dto.CompanyListResponse
// @Router       /api/admin/empresas [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
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

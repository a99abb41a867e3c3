package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// QuotationRepository define el puerto de persistencia para cotizaciones.
// Toda operación está acotada a la empresa dueña del registro.
type QuotationRepository interface {
	Create(ctx context.Context, q *entity.Quotation) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Quotation, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.Quotation, error)
	CodeExists(ctx context.Context, companyID, code string) (bool, error)
	// ListByCompany no carga el PDF; solo indica si existe.
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Quotation, error)
	Update(ctx context.Context, q *entity.Quotation) error
	Delete(ctx context.Context, companyID, id string) error
}

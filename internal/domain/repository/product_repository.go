package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Todas las lecturas y escrituras están acotadas a companyID.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, companyID, id string) error
	// ResolveMany devuelve solo los productos de companyID cuyos ids estén en la lista.
	ResolveMany(ctx context.Context, companyID string, ids []string) (map[string]*entity.Product, error)
}

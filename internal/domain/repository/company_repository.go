package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByEmail(ctx context.Context, email string) (*entity.Company, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	// SetActiveToken reemplaza la sesión activa (último en escribir gana). token vacío = cerrar sesión.
	SetActiveToken(ctx context.Context, companyID, token string) error
	// SetMailTokens guarda la credencial delegada. refreshToken vacío conserva el anterior.
	SetMailTokens(ctx context.Context, companyID, accessToken, refreshToken string) error
}

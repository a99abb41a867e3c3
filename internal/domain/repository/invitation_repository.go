package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// InvitationRepository define el puerto de persistencia para códigos de invitación.
type InvitationRepository interface {
	Create(ctx context.Context, code *entity.InvitationCode) error
	// GetByCodeForUpdate bloquea la fila del código (usar dentro de una transacción).
	GetByCodeForUpdate(ctx context.Context, code string) (*entity.InvitationCode, error)
	MarkUsed(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.InvitationCode, error)
	// Delete devuelve domain.ErrNotFound si el id no existe.
	Delete(ctx context.Context, id string) error
}

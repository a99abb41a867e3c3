package repository

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// SupportRepository define el puerto de persistencia para solicitudes de soporte.
type SupportRepository interface {
	Create(ctx context.Context, t *entity.SupportTicket) error
	GetByID(ctx context.Context, id string) (*entity.SupportTicket, error)
	// List devuelve todas las solicitudes, más recientes primero (administrador).
	List(ctx context.Context, limit, offset int) ([]*entity.SupportTicket, error)
	// SaveAnswer devuelve domain.ErrNotFound si el id no existe.
	SaveAnswer(ctx context.Context, t *entity.SupportTicket) error
}

package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.InvitationRepository = (*InvitationRepo)(nil)

// InvitationRepo persistencia de códigos de invitación.
type InvitationRepo struct {
	q Querier
}

// NewInvitationRepository construye el adaptador. Para canjear, pasar la tx (ver TxRunner).
func NewInvitationRepository(q Querier) *InvitationRepo {
	return &InvitationRepo{q: q}
}

// Create persiste un código nuevo sin usar.
func (r *InvitationRepo) Create(ctx context.Context, code *entity.InvitationCode) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO invitation_codes (id, code, created_at, expires_at, used) VALUES ($1, $2, $3, $4, $5)`,
		code.ID, code.Code, code.CreatedAt, code.ExpiresAt, code.Used,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invitation code: %w", err)
	}
	return nil
}

// GetByCodeForUpdate busca por coincidencia exacta y bloquea la fila hasta el fin de la transacción.
func (r *InvitationRepo) GetByCodeForUpdate(ctx context.Context, code string) (*entity.InvitationCode, error) {
	var c entity.InvitationCode
	err := r.q.QueryRow(ctx,
		`SELECT id, code, created_at, expires_at, used FROM invitation_codes WHERE code = $1 FOR UPDATE`, code,
	).Scan(&c.ID, &c.Code, &c.CreatedAt, &c.ExpiresAt, &c.Used)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invitation code: %w", err)
	}
	return &c, nil
}

// MarkUsed marca el código como usado. Solo cambia filas aún sin usar.
func (r *InvitationRepo) MarkUsed(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE invitation_codes SET used = true WHERE id = $1 AND used = false`, id)
	if err != nil {
		return fmt.Errorf("mark invitation used: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrInvitationUsed
	}
	return nil
}

// List devuelve los códigos, más recientes primero.
func (r *InvitationRepo) List(ctx context.Context, limit, offset int) ([]*entity.InvitationCode, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, code, created_at, expires_at, used FROM invitation_codes ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invitation codes: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvitationCode
	for rows.Next() {
		var c entity.InvitationCode
		if err := rows.Scan(&c.ID, &c.Code, &c.CreatedAt, &c.ExpiresAt, &c.Used); err != nil {
			return nil, fmt.Errorf("scan invitation code: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Delete borra el código. Un segundo borrado devuelve domain.ErrNotFound.
func (r *InvitationRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM invitation_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invitation code: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

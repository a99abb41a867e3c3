package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.SupportRepository = (*SupportRepo)(nil)

const supportColumns = `id, company_id, subject, message, status, response, created_at, responded_at`

// SupportRepo persistencia de solicitudes de soporte.
type SupportRepo struct {
	q Querier
}

// NewSupportRepository construye el adaptador.
func NewSupportRepository(q Querier) *SupportRepo {
	return &SupportRepo{q: q}
}

func (r *SupportRepo) Create(ctx context.Context, t *entity.SupportTicket) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO support_tickets (`+supportColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.CompanyID, t.Subject, t.Message, string(t.Status), t.Response, t.CreatedAt, t.RespondedAt,
	)
	if err != nil {
		return fmt.Errorf("insert support ticket: %w", err)
	}
	return nil
}

func (r *SupportRepo) GetByID(ctx context.Context, id string) (*entity.SupportTicket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	t, err := scanSupport(r.q.QueryRow(ctx, `SELECT `+supportColumns+` FROM support_tickets WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get support ticket: %w", err)
	}
	return t, nil
}

// List solicitudes de todas las empresas, más recientes primero.
func (r *SupportRepo) List(ctx context.Context, limit, offset int) ([]*entity.SupportTicket, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+supportColumns+` FROM support_tickets ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list support tickets: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupportTicket
	for rows.Next() {
		t, err := scanSupport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan support ticket: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// SaveAnswer persiste respuesta, estado y fecha de respuesta.
func (r *SupportRepo) SaveAnswer(ctx context.Context, t *entity.SupportTicket) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE support_tickets SET status = $2, response = $3, responded_at = $4 WHERE id = $1`,
		t.ID, string(t.Status), t.Response, t.RespondedAt,
	)
	if err != nil {
		return fmt.Errorf("answer support ticket: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanSupport(row rowScanner) (*entity.SupportTicket, error) {
	var (
		t      entity.SupportTicket
		status string
	)
	if err := row.Scan(&t.ID, &t.CompanyID, &t.Subject, &t.Message, &status, &t.Response, &t.CreatedAt, &t.RespondedAt); err != nil {
		return nil, err
	}
	t.Status = entity.SupportStatus(status)
	return &t, nil
}

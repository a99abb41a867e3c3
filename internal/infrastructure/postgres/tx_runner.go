package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/invitation"
	"github.com/jhoicas/Cotizador-api/internal/application/quotation"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var (
	_ invitation.TxRunner       = (*TxRunner)(nil)
	_ auth.RegistrationTxRunner = (*TxRunner)(nil)
	_ quotation.TxRunner        = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia la transacción, ejecuta fn y hace Commit; cualquier error deja Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunInvitation ejecuta fn con el repo de códigos atado a la tx (canje con bloqueo de fila).
func (r *TxRunner) RunInvitation(ctx context.Context, fn func(invRepo repository.InvitationRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewInvitationRepository(tx))
	})
}

// RunRegistration ejecuta canje del código y alta de la empresa en la misma transacción.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	invRepo repository.InvitationRepository,
	companyRepo repository.CompanyRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewInvitationRepository(tx), NewCompanyRepository(tx))
	})
}

// RunQuotation ejecuta fn con el repo de cotizaciones atado a la tx.
func (r *TxRunner) RunQuotation(ctx context.Context, fn func(quoteRepo repository.QuotationRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewQuotationRepository(tx))
	})
}

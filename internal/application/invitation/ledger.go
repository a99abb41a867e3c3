// Package invitation emite, canjea y revoca códigos de invitación de un solo uso.
package invitation

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// codeBytes bytes aleatorios por código; en base64 URL-safe sin padding quedan 11 caracteres.
const codeBytes = 8

// maxIssueAttempts reintentos ante la (improbable) colisión con un código existente.
const maxIssueAttempts = 3

// TxRunner ejecuta fn dentro de una transacción con el repo de códigos atado a ella.
type TxRunner interface {
	RunInvitation(ctx context.Context, fn func(invRepo repository.InvitationRepository) error) error
}

// Ledger libro de códigos de invitación.
type Ledger struct {
	repo repository.InvitationRepository
	tx   TxRunner
	now  func() time.Time
}

// NewLedger construye el libro de códigos.
func NewLedger(repo repository.InvitationRepository, tx TxRunner) *Ledger {
	return &Ledger{repo: repo, tx: tx, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Issue genera un código aleatorio que vence en validityMinutes.
func (l *Ledger) Issue(ctx context.Context, validityMinutes int) (*entity.InvitationCode, error) {
	if validityMinutes <= 0 {
		return nil, fmt.Errorf("%w: la vigencia debe ser positiva", domain.ErrInvalidInput)
	}
	for attempt := 0; ; attempt++ {
		token, err := randomToken()
		if err != nil {
			return nil, err
		}
		now := l.now().UTC()
		code := &entity.InvitationCode{
			ID:        uuid.New().String(),
			Code:      token,
			CreatedAt: now,
			ExpiresAt: now.Add(time.Duration(validityMinutes) * time.Minute),
		}
		err = l.repo.Create(ctx, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, domain.ErrDuplicate) || attempt+1 >= maxIssueAttempts {
			return nil, err
		}
	}
}

// Redeem canjea el código en su propia transacción; el consumo queda confirmado al retornar nil.
func (l *Ledger) Redeem(ctx context.Context, code string) error {
	return l.tx.RunInvitation(ctx, func(invRepo repository.InvitationRepository) error {
		return l.RedeemIn(ctx, invRepo, code)
	})
}

// RedeemIn canjea usando un repo ya atado a la transacción del llamador.
// La fila queda bloqueada hasta el commit, por lo que dos canjes simultáneos no pueden ganar ambos.
func (l *Ledger) RedeemIn(ctx context.Context, invRepo repository.InvitationRepository, code string) error {
	if code == "" {
		return domain.ErrInvitationNotFound
	}
	found, err := invRepo.GetByCodeForUpdate(ctx, code)
	if err != nil {
		return err
	}
	if err := found.CheckRedeemable(l.now()); err != nil {
		return err
	}
	return invRepo.MarkUsed(ctx, found.ID)
}

// Revoke borra el código. Un segundo llamado devuelve domain.ErrNotFound.
func (l *Ledger) Revoke(ctx context.Context, id string) error {
	return l.repo.Delete(ctx, id)
}

// List devuelve los códigos emitidos.
func (l *Ledger) List(ctx context.Context, limit, offset int) ([]*entity.InvitationCode, error) {
	return l.repo.List(ctx, limit, offset)
}

func randomToken() (string, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generar código: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

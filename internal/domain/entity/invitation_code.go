package entity

import (
	"time"

	"github.com/jhoicas/Cotizador-api/internal/domain"
)

// InvitationCode código de un solo uso con vencimiento que habilita el registro de una empresa.
type InvitationCode struct {
	ID        string
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
}

// CheckRedeemable valida si el código puede canjearse en now.
// El vencimiento se evalúa antes que el uso: un código vencido siempre es Expired.
func (c *InvitationCode) CheckRedeemable(now time.Time) error {
	if c == nil {
		return domain.ErrInvitationNotFound
	}
	if !now.Before(c.ExpiresAt) {
		return domain.ErrInvitationExpired
	}
	if c.Used {
		return domain.ErrInvitationUsed
	}
	return nil
}

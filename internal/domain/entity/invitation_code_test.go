package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

func TestCheckRedeemable(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		code *entity.InvitationCode
		want error
	}{
		{"inexistente", nil, domain.ErrInvitationNotFound},
		{"vigente", &entity.InvitationCode{ExpiresAt: now.Add(time.Minute)}, nil},
		{"usado", &entity.InvitationCode{ExpiresAt: now.Add(time.Minute), Used: true}, domain.ErrInvitationUsed},
		{"vence justo ahora", &entity.InvitationCode{ExpiresAt: now}, domain.ErrInvitationExpired},
		{"vencido y usado", &entity.InvitationCode{ExpiresAt: now.Add(-time.Minute), Used: true}, domain.ErrInvitationExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.code.CheckRedeemable(now), tc.want)
			if tc.want == nil {
				assert.NoError(t, tc.code.CheckRedeemable(now))
			}
		})
	}
}

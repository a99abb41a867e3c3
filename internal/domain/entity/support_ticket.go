package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/Cotizador-api/internal/domain"
)

// SupportStatus estado de una solicitud de soporte.
type SupportStatus string

const (
	SupportPending  SupportStatus = "pendiente"
	SupportAnswered SupportStatus = "respondido"
)

// SupportTicket solicitud de soporte que una empresa envía al administrador.
type SupportTicket struct {
	ID          string
	CompanyID   string
	Subject     string
	Message     string
	Status      SupportStatus
	Response    string
	CreatedAt   time.Time
	RespondedAt *time.Time
}

// Answer registra la respuesta del administrador. Responder de nuevo reemplaza la anterior.
func (t *SupportTicket) Answer(response string, now time.Time) error {
	if strings.TrimSpace(response) == "" {
		return domain.ErrInvalidInput
	}
	t.Response = response
	t.Status = SupportAnswered
	t.RespondedAt = &now
	return nil
}

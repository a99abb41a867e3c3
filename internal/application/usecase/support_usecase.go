package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

const maxSupportSubject = 200

// SupportUseCase solicitudes de soporte: la empresa las envía, el administrador las lista y responde.
type SupportUseCase struct {
	repo repository.SupportRepository
	now  func() time.Time
	log  *logger.Logger
}

// NewSupportUseCase construye el caso de uso.
func NewSupportUseCase(repo repository.SupportRepository, log *logger.Logger) *SupportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SupportUseCase{repo: repo, now: time.Now, log: log.Component("support")}
}

// WithClock fija el reloj (tests).
func (uc *SupportUseCase) WithClock(now func() time.Time) *SupportUseCase {
	uc.now = now
	return uc
}

// Submit registra una solicitud pendiente de la empresa autenticada.
func (uc *SupportUseCase) Submit(ctx context.Context, companyID string, in dto.CreateSupportRequest) (*dto.SupportTicketResponse, error) {
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, fmt.Errorf("%w: asunto y mensaje requeridos", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.Subject) > maxSupportSubject {
		return nil, fmt.Errorf("%w: el asunto admite hasta %d caracteres", domain.ErrInvalidInput, maxSupportSubject)
	}
	t := &entity.SupportTicket{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    entity.SupportPending,
		CreatedAt: uc.now(),
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Str("ticket_id", t.ID).Msg("solicitud de soporte recibida")
	return toSupportResponse(t), nil
}

// List solicitudes de todas las empresas (administrador).
func (uc *SupportUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SupportTicketListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupportTicketResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *toSupportResponse(t))
	}
	return &dto.SupportTicketListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Answer marca la solicitud como respondida. domain.ErrNotFound si no existe.
func (uc *SupportUseCase) Answer(ctx context.Context, id string, in dto.AnswerSupportRequest) (*dto.SupportTicketResponse, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if err := t.Answer(in.Response, uc.now()); err != nil {
		return nil, fmt.Errorf("%w: respuesta requerida", err)
	}
	if err := uc.repo.SaveAnswer(ctx, t); err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", t.CompanyID).Str("ticket_id", t.ID).Msg("solicitud de soporte respondida")
	return toSupportResponse(t), nil
}

func toSupportResponse(t *entity.SupportTicket) *dto.SupportTicketResponse {
	return &dto.SupportTicketResponse{
		ID:          t.ID,
		CompanyID:   t.CompanyID,
		Subject:     t.Subject,
		Message:     t.Message,
		CreatedAt:   t.CreatedAt,
		Status:      string(t.Status),
		Response:    t.Response,
		RespondedAt: t.RespondedAt,
	}
}

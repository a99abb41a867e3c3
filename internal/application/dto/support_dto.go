package dto

import "time"

// CreateSupportRequest entrada de POST /soporte.
type CreateSupportRequest struct {
	Subject string `json:"asunto"`
	Message string `json:"mensaje"`
}

// AnswerSupportRequest entrada de POST /admin/soporte/:id/responder.
type AnswerSupportRequest struct {
	Response string `json:"respuesta"`
}

// SupportTicketResponse solicitud en el listado del administrador.
type SupportTicketResponse struct {
	ID          string     `json:"id"`
	CompanyID   string     `json:"empresa_id"`
	Subject     string     `json:"asunto"`
	Message     string     `json:"mensaje"`
	CreatedAt   time.Time  `json:"fecha"`
	Status      string     `json:"estado"`
	Response    string     `json:"respuesta,omitempty"`
	RespondedAt *time.Time `json:"fecha_respuesta"`
}

// SupportTicketListResponse listado paginado.
type SupportTicketListResponse struct {
	Items []SupportTicketResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

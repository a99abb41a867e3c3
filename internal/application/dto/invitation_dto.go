package dto

import "time"

// BootstrapCodeRequest credenciales del administrador para /codigo/seguridad.
type BootstrapCodeRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IssuedCodeResponse código recién emitido.
type IssuedCodeResponse struct {
	Code      string    `json:"codigo"`
	ExpiresAt time.Time `json:"vence"`
}

// InvitationCodeResponse código en el listado del administrador.
type InvitationCodeResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"codigo"`
	CreatedAt time.Time `json:"creado"`
	ExpiresAt time.Time `json:"vence"`
	Used      bool      `json:"usado"`
}

// InvitationCodeListResponse listado paginado.
type InvitationCodeListResponse struct {
	Items []InvitationCodeResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

package dto

import "time"

// CompanyResponse salida de una empresa (sin password ni tokens).
type CompanyResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"nombre"`
	Email          string    `json:"email"`
	NIT            string    `json:"nit"`
	Address        string    `json:"direccion"`
	Phone          string    `json:"telefono"`
	Contact        string    `json:"contacto"`
	LogoURL        string    `json:"logo_url"`
	MailAuthorized bool      `json:"gmail_autorizado"`
	CreatedAt      time.Time `json:"fecha_registro"`
}

// CompanyListResponse lista paginada de empresas (administrador).
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

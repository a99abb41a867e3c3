package entity

import "time"

// Company representa una empresa (tenant) registrada con código de invitación.
// ActiveToken es la única sesión viva; GmailAccessToken/GmailRefreshToken la credencial delegada de correo.
type Company struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	NIT               string
	Address           string
	Phone             string
	Contact           string
	LogoURL           string // URL http(s) o ruta local; vacío = sin logo
	ActiveToken       string // vacío = sin sesión activa
	GmailAccessToken  string
	GmailRefreshToken string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MailAuthorized informa si la empresa ya conectó su cuenta de Gmail.
func (c *Company) MailAuthorized() bool {
	return c != nil && c.GmailAccessToken != ""
}

// Branding datos de marca que se imprimen en el encabezado del PDF.
func (c *Company) Branding() Branding {
	return Branding{
		Name:    c.Name,
		NIT:     c.NIT,
		Address: c.Address,
		Phone:   c.Phone,
		Email:   c.Email,
		Contact: c.Contact,
		LogoRef: c.LogoURL,
	}
}

// Branding información de la empresa para el encabezado del documento.
type Branding struct {
	Name    string
	NIT     string
	Address string
	Phone   string
	Email   string
	Contact string
	LogoRef string
}

package dto

// RegisterRequest registro de empresa con código de invitación (JSON o multipart con logo).
type RegisterRequest struct {
	Name           string `json:"nombre" form:"nombre"`
	Email          string `json:"email" form:"email"`
	Password       string `json:"password" form:"password"`
	NIT            string `json:"nit" form:"nit"`
	Address        string `json:"direccion" form:"direccion"`
	Phone          string `json:"telefono" form:"telefono"`
	Contact        string `json:"contacto" form:"contacto"`
	InvitationCode string `json:"codigo_invitacion" form:"codigo_invitacion"`
	LogoURL        string `json:"logo_url" form:"logo_url"`
}

// MissingField devuelve el primer campo obligatorio vacío (nombre JSON) o "".
func (r RegisterRequest) MissingField() string {
	fields := []struct{ name, value string }{
		{"nombre", r.Name},
		{"email", r.Email},
		{"password", r.Password},
		{"nit", r.NIT},
		{"direccion", r.Address},
		{"telefono", r.Phone},
		{"contacto", r.Contact},
		{"codigo_invitacion", r.InvitationCode},
	}
	for _, f := range fields {
		if f.value == "" {
			return f.name
		}
	}
	return ""
}

// UploadedFile archivo recibido por multipart (logo).
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// LoginRequest credenciales de empresa o administrador.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token de sesión; Company solo viene en logins de empresa.
type LoginResponse struct {
	Token   string           `json:"token"`
	Admin   bool             `json:"admin,omitempty"`
	Company *CompanyResponse `json:"empresa,omitempty"`
}

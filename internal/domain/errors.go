package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrNameAlreadyExists  = errors.New("el nombre de empresa ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrMalformedInput     = errors.New("formato de productos inválido")
	ErrUnknownProduct     = errors.New("producto no encontrado en el catálogo")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Códigos de invitación.
	ErrInvitationNotFound = errors.New("código de invitación inválido")
	ErrInvitationExpired  = errors.New("código de invitación expirado")
	ErrInvitationUsed     = errors.New("código de invitación ya utilizado")

	// Pipeline de cotización.
	ErrMailNotAuthorized = errors.New("la empresa no ha autorizado el envío de correos con Gmail")
	ErrRenderFailed      = errors.New("no se pudo generar el PDF")
	ErrPersistFailed     = errors.New("no se pudo guardar la cotización")
)

// UnknownProductError identifica el producto que no pudo resolverse en el catálogo de la empresa.
type UnknownProductError struct {
	ID string
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("producto con id %s no encontrado", e.ID)
}

// Unwrap permite errors.Is(err, ErrUnknownProduct).
func (e *UnknownProductError) Unwrap() error { return ErrUnknownProduct }

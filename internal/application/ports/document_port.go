package ports

import (
	"context"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// DocumentRenderer genera el PDF de una cotización con la marca de la empresa.
type DocumentRenderer interface {
	Render(ctx context.Context, q *entity.Quotation, branding entity.Branding) ([]byte, error)
}

// LogoFetcher resuelve una referencia de logo (URL o ruta) a bytes de imagen.
// Un fallo no es fatal: se devuelve ok=false y el documento se genera sin logo.
type LogoFetcher interface {
	Fetch(ctx context.Context, ref string) (data []byte, ok bool)
}

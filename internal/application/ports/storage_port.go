// Package ports define los puertos de salida que la capa de aplicación necesita de la infraestructura.
package ports

import "context"

// ObjectStore guarda archivos binarios (PDF de cotizaciones, logos) en almacenamiento durable.
// Save devuelve la ubicación resultante (ruta local o URL pública). Delete no falla si la clave no existe.
type ObjectStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) (location string, err error)
	Delete(ctx context.Context, key string) error
}

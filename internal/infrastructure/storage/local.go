// Package storage guarda archivos binarios (PDF de cotizaciones, logos) en disco o en S3.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/Cotizador-api/internal/application/ports"
)

var _ ports.ObjectStore = (*Local)(nil)

// Local guarda bajo root en el sistema de archivos dado.
type Local struct {
	fs   afero.Fs
	root string
}

// NewLocal construye el almacenamiento local. Con fs nil usa el disco del SO.
func NewLocal(fs afero.Fs, root string) *Local {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Local{fs: fs, root: root}
}

// Save escribe data en root/key y devuelve la ruta resultante. Sobrescribe si ya existe.
func (s *Local) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	full := path.Join(s.root, clean)
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage: crear directorio: %w", err)
	}
	if err := afero.WriteFile(s.fs, full, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", clean, err)
	}
	return full, nil
}

// Delete borra root/key. Una clave inexistente no es error.
func (s *Local) Delete(_ context.Context, key string) error {
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}
	full := path.Join(s.root, clean)
	if err := s.fs.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: borrar %s: %w", clean, err)
	}
	return nil
}

// cleanKey normaliza la clave y rechaza las que escapan de la raíz.
func cleanKey(key string) (string, error) {
	clean := strings.TrimPrefix(path.Clean("/"+key), "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("storage: clave vacía")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("storage: clave inválida %q", key)
	}
	return clean, nil
}

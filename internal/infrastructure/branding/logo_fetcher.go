// Package branding resuelve la referencia del logo de una empresa a bytes de imagen.
package branding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

// maxLogoBytes límite de tamaño aceptado para un logo.
const maxLogoBytes = 2 << 20

var _ ports.LogoFetcher = (*LogoFetcher)(nil)

var errOutsideRoot = errors.New("logo: ruta fuera del directorio de almacenamiento")

// NewPublicClient cliente HTTP que solo se conecta a direcciones públicas. La verificación se
// hace al marcar cada conexión (redirecciones incluidas), sobre la IP ya resuelta.
func NewPublicClient(timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: 5 * time.Second, Control: denyNonPublic}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: 5 * time.Second,
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

func denyNonPublic(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("logo: destino no permitido %s", host)
	}
	return nil
}

// LogoFetcher descarga logos por HTTP(S) o los lee del directorio de almacenamiento local.
// Cualquier fallo se registra en debug y se reporta como ok=false.
type LogoFetcher struct {
	client *http.Client
	root   string
	fs     afero.Fs // confinado a root
	log    *logger.Logger
}

// NewLogoFetcher construye el fetcher. Las rutas locales solo se leen si están bajo root;
// con root vacío la lectura local queda deshabilitada. fs nil usa el sistema de archivos del SO.
// client nil usa NewPublicClient.
func NewLogoFetcher(client *http.Client, fs afero.Fs, root string, log *logger.Logger) *LogoFetcher {
	if client == nil {
		client = NewPublicClient(5 * time.Second)
	}
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if log == nil {
		log = logger.Nop()
	}
	f := &LogoFetcher{client: client, log: log.Component("branding")}
	if root != "" {
		f.root = path.Clean(root)
		f.fs = afero.NewReadOnlyFs(afero.NewBasePathFs(fs, f.root))
	}
	return f
}

// Fetch obtiene los bytes del logo.
func (f *LogoFetcher) Fetch(ctx context.Context, ref string) ([]byte, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, false
	}
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		data, err = f.fetchURL(ctx, ref)
	} else {
		data, err = f.readFile(strings.TrimPrefix(ref, "file://"))
	}
	if err != nil {
		f.log.Debug().Err(err).Str("ref", ref).Msg("logo no disponible")
		return nil, false
	}
	return data, len(data) > 0
}

func (f *LogoFetcher) fetchURL(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
}

// readFile acepta la ruta tal como la devuelve el almacenamiento local (root/clave).
func (f *LogoFetcher) readFile(ref string) ([]byte, error) {
	rel, ok := f.underRoot(ref)
	if !ok {
		return nil, errOutsideRoot
	}
	file, err := f.fs.Open("/" + rel)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxLogoBytes))
}

// underRoot devuelve ref relativa a root. path.Clean resuelve los ".." antes de comparar.
func (f *LogoFetcher) underRoot(ref string) (string, bool) {
	if f.fs == nil {
		return "", false
	}
	prefix := f.root
	if prefix != "/" {
		prefix += "/"
	}
	clean := path.Clean(ref)
	if !strings.HasPrefix(clean, prefix) {
		return "", false
	}
	return strings.TrimPrefix(clean, prefix), true
}

type statusError struct{ code int }

func (e *statusError) Error() string { return "logo: respuesta HTTP " + http.StatusText(e.code) }

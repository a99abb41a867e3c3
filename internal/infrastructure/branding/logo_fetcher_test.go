package branding_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/infrastructure/branding"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestFetch_DesdeURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()
	f := branding.NewLogoFetcher(srv.Client(), afero.NewMemMapFs(), "", nil)

	data, ok := f.Fetch(context.Background(), srv.URL+"/logo.png")
	require.True(t, ok)
	assert.Equal(t, pngHeader, data)

	_, ok = f.Fetch(context.Background(), srv.URL+"/otro.png")
	assert.False(t, ok, "un 404 no es fatal pero no devuelve logo")
}

func TestFetch_DesdeArchivo(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/logos/acme.png", pngHeader, 0o644))
	f := branding.NewLogoFetcher(nil, fs, "/data", nil)

	data, ok := f.Fetch(context.Background(), "/data/logos/acme.png")
	require.True(t, ok)
	assert.Equal(t, pngHeader, data)

	data, ok = f.Fetch(context.Background(), "file:///data/logos/acme.png")
	require.True(t, ok)
	assert.Equal(t, pngHeader, data)
}

func TestFetch_RutasFueraDeLaRaizSeRechazan(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/logos/acme.png", pngHeader, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/secreto", []byte("clave"), 0o600))
	f := branding.NewLogoFetcher(nil, fs, "/data", nil)

	for _, ref := range []string{"/etc/secreto", "/data/../etc/secreto", "file:///etc/secreto", "/database/x.png"} {
		_, ok := f.Fetch(context.Background(), ref)
		assert.False(t, ok, ref)
	}

	noLocal := branding.NewLogoFetcher(nil, fs, "", nil)
	_, ok := noLocal.Fetch(context.Background(), "/data/logos/acme.png")
	assert.False(t, ok, "sin raíz no hay lectura local")
}

func TestFetch_FallosSeTraganSilenciosamente(t *testing.T) {
	f := branding.NewLogoFetcher(nil, afero.NewMemMapFs(), "/data", nil)

	for _, ref := range []string{"", "   ", "/no/existe.png", "http://127.0.0.1:1/logo.png"} {
		data, ok := f.Fetch(context.Background(), ref)
		assert.False(t, ok, ref)
		assert.Nil(t, data, ref)
	}
}

func TestFetch_ClientePublicoRechazaDireccionesInternas(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write(pngHeader)
	}))
	defer srv.Close()
	f := branding.NewLogoFetcher(branding.NewPublicClient(time.Second), afero.NewMemMapFs(), "", nil)

	for _, ref := range []string{
		srv.URL + "/logo.png", // 127.0.0.1
		"http://169.254.169.254/latest/meta-data",
		"http://10.0.0.1/logo.png",
	} {
		data, ok := f.Fetch(context.Background(), ref)
		assert.False(t, ok, ref)
		assert.Nil(t, data, ref)
	}
	assert.Zero(t, hits, "la conexión se corta antes de llegar al servidor")
}

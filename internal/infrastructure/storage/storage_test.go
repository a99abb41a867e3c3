package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/infrastructure/storage"
)

// ──────────────────────────────────────────────────────────────────────────────
// Local
// ──────────────────────────────────────────────────────────────────────────────

func TestLocal_SaveEscribeBajoLaRaiz(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := storage.NewLocal(fs, "/data")
	pdf := []byte("%PDF-1.4 contenido")

	loc, err := s.Save(context.Background(), "cotizaciones/emp-1/cotizacion_COT-1.pdf", pdf, "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "/data/cotizaciones/emp-1/cotizacion_COT-1.pdf", loc)

	got, err := afero.ReadFile(fs, loc)
	require.NoError(t, err)
	assert.Equal(t, pdf, got, "la copia en disco debe ser idéntica")
}

func TestLocal_SaveSobrescribe(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := storage.NewLocal(fs, "/data")
	ctx := context.Background()

	_, err := s.Save(ctx, "a.pdf", []byte("v1"), "")
	require.NoError(t, err)
	loc, err := s.Save(ctx, "a.pdf", []byte("v2"), "")
	require.NoError(t, err)

	got, err := afero.ReadFile(fs, loc)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}

func TestLocal_DeleteEsIdempotente(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := storage.NewLocal(fs, "/data")
	ctx := context.Background()

	loc, err := s.Save(ctx, "cotizaciones/emp-1/c.pdf", []byte("x"), "")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "cotizaciones/emp-1/c.pdf"))
	exists, err := afero.Exists(fs, loc)
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, s.Delete(ctx, "cotizaciones/emp-1/c.pdf"), "borrar dos veces no falla")
}

func TestLocal_ClavesInvalidas(t *testing.T) {
	s := storage.NewLocal(afero.NewMemMapFs(), "/data")

	for _, key := range []string{"", "/", "../fuera.pdf", "logos/../../x"} {
		_, err := s.Save(context.Background(), key, []byte("x"), "")
		assert.Error(t, err, key)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// S3 (contra un servidor compatible simulado)
// ──────────────────────────────────────────────────────────────────────────────

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodDelete {
		f.mu.Lock()
		delete(f.objects, r.URL.Path)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.objects[r.URL.Path] = body
	f.types[r.URL.Path] = r.Header.Get("Content-Type")
	f.mu.Unlock()
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func TestS3_SaveSubeElObjeto(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s, err := storage.NewS3(context.Background(), storage.S3Config{
		Region: "us-east-1", Bucket: "docs", AccessKeyID: "AKIA", SecretAccessKey: "secret", Endpoint: srv.URL,
	}, nil)
	require.NoError(t, err)

	loc, err := s.Save(context.Background(), "cotizaciones/emp-1/cotizacion_COT-1.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/docs/cotizaciones/emp-1/cotizacion_COT-1.pdf", loc)
	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, []byte("%PDF"), fake.objects["/docs/cotizaciones/emp-1/cotizacion_COT-1.pdf"])
	assert.Equal(t, "application/pdf", fake.types["/docs/cotizaciones/emp-1/cotizacion_COT-1.pdf"])
}

func TestS3_DeleteBorraElObjeto(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	s, err := storage.NewS3(context.Background(), storage.S3Config{
		Region: "us-east-1", Bucket: "docs", AccessKeyID: "AKIA", SecretAccessKey: "secret", Endpoint: srv.URL,
	}, nil)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Save(ctx, "cotizaciones/emp-1/c.pdf", []byte("%PDF"), "application/pdf")
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "cotizaciones/emp-1/c.pdf"))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.NotContains(t, fake.objects, "/docs/cotizaciones/emp-1/c.pdf")
}

func TestS3_ObjectURLDeAWS(t *testing.T) {
	s, err := storage.NewS3(context.Background(), storage.S3Config{
		Region: "sa-east-1", Bucket: "docs", AccessKeyID: "AKIA", SecretAccessKey: "secret",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://docs.s3.sa-east-1.amazonaws.com/logos/x.png", s.ObjectURL("logos/x.png"))
}

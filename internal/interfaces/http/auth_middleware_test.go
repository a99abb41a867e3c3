package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Cotizador-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	tenantToken   = "token-empresa"
	adminToken    = "token-admin"
)

// fakeAuthn acepta solo los tokens registrados; cualquier otro es sesión inválida.
type fakeAuthn map[string]*auth.Principal

func (f fakeAuthn) Authenticate(_ context.Context, token string) (*auth.Principal, error) {
	p, ok := f[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return p, nil
}

func newAuthn(company *entity.Company) fakeAuthn {
	return fakeAuthn{
		tenantToken: {CompanyID: company.ID, Company: company},
		adminToken:  {Admin: true},
	}
}

func buildGuardedApp(guard fiber.Handler) *fiber.App {
	app := fiber.New()
	authn := newAuthn(&entity.Company{ID: testCompanyID, Name: "Acme"})
	app.Get("/protected", apphttp.AuthMiddleware(authn), guard, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok":         true,
			"company_id": apphttp.GetCompanyID(c),
			"token":      apphttp.GetToken(c),
			"admin":      apphttp.GetPrincipal(c).Admin,
		})
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func readJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CargaPrincipalEnLocals(t *testing.T) {
	app := buildGuardedApp(apphttp.RequireTenant())

	resp := doGet(t, app, "/protected", "Bearer "+tenantToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	readJSON(t, resp, &body)
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, tenantToken, body["token"])
	assert.Equal(t, false, body["admin"])
}

func TestAuthMiddleware_RechazosUniformes(t *testing.T) {
	app := buildGuardedApp(apphttp.RequireTenant())

	cases := map[string]string{
		"sin header":        "",
		"sin esquema":       tenantToken,
		"esquema distinto":  "Basic " + tenantToken,
		"bearer vacío":      "Bearer   ",
		"token reemplazado": "Bearer token-anterior",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resp := doGet(t, app, "/protected", header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			raw, _ := io.ReadAll(resp.Body)
			assert.JSONEq(t, `{"code":"UNAUTHORIZED","error":"no autorizado"}`, string(raw),
				"todos los rechazos llevan el mismo cuerpo")
		})
	}
}

func TestAuthMiddleware_BearerSinDistinguirMayusculas(t *testing.T) {
	app := buildGuardedApp(apphttp.RequireTenant())
	resp := doGet(t, app, "/protected", "bearer "+tenantToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardas de rol
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireAdmin(t *testing.T) {
	app := buildGuardedApp(apphttp.RequireAdmin())

	resp := doGet(t, app, "/protected", "Bearer "+adminToken)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doGet(t, app, "/protected", "Bearer "+tenantToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "una empresa no entra a rutas de administrador")
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "FORBIDDEN")
}

func TestRequireTenant_AdminBloqueado(t *testing.T) {
	app := buildGuardedApp(apphttp.RequireTenant())

	resp := doGet(t, app, "/protected", "Bearer "+adminToken)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el administrador no opera sobre datos de empresa")
}

func TestGuardas_SinAuthMiddleware_Retornan401(t *testing.T) {
	app := fiber.New()
	app.Get("/a", apphttp.RequireAdmin(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/t", apphttp.RequireTenant(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	for _, path := range []string{"/a", "/t"} {
		resp := doGet(t, app, path, "")
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

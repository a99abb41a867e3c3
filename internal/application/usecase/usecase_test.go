package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/internal/application/usecase"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

type memProducts struct{ items map[string]*entity.Product }

func (m *memProducts) Create(_ context.Context, p *entity.Product) error {
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	p, ok := m.items[id]
	if !ok || p.CompanyID != companyID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) Update(_ context.Context, p *entity.Product) error {
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range m.items {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Delete(_ context.Context, companyID, id string) error {
	p, ok := m.items[id]
	if !ok || p.CompanyID != companyID {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) ResolveMany(context.Context, string, []string) (map[string]*entity.Product, error) {
	return nil, nil
}

type memCompanies struct{ byID map[string]*entity.Company }

func (m *memCompanies) Create(context.Context, *entity.Company) error { return nil }
func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m.byID[id], nil
}
func (m *memCompanies) GetByEmail(context.Context, string) (*entity.Company, error) { return nil, nil }
func (m *memCompanies) ExistsByName(context.Context, string) (bool, error) { return false, nil }
func (m *memCompanies) List(context.Context, int, int) ([]*entity.Company, error) {
	var out []*entity.Company
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}
func (m *memCompanies) SetActiveToken(context.Context, string, string) error { return nil }
func (m *memCompanies) SetMailTokens(_ context.Context, id, access, refresh string) error {
	c, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.GmailAccessToken = access
	if refresh != "" {
		c.GmailRefreshToken = refresh
	}
	return nil
}

type staticSessions map[string]*auth.Principal

func (s staticSessions) Authenticate(_ context.Context, token string) (*auth.Principal, error) {
	p, ok := s[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return p, nil
}

type fakeAuthorizer struct {
	token *ports.MailToken
	err   error
}

func (f *fakeAuthorizer) AuthCodeURL(state string) string {
	return "https://accounts.example/auth?state=" + state
}

func (f *fakeAuthorizer) Exchange(context.Context, string) (*ports.MailToken, error) {
	return f.token, f.err
}

const (
	tenantA = "tenant-a"
	tenantB = "tenant-b"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_CreateValidaPrecio(t *testing.T) {
	uc := usecase.NewProductUseCase(&memProducts{items: map[string]*entity.Product{}})
	ctx := context.Background()

	_, err := uc.Create(ctx, tenantA, dto.CreateProductRequest{Name: "Caja", Price: price("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, tenantA, dto.CreateProductRequest{Name: "Caja"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.Create(ctx, tenantA, dto.CreateProductRequest{Name: "Caja", Price: price("0"), Unit: "und"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.True(t, out.Price.IsZero())
}

func TestProduct_AisladoPorEmpresa(t *testing.T) {
	repo := &memProducts{items: map[string]*entity.Product{}}
	uc := usecase.NewProductUseCase(repo)
	ctx := context.Background()
	created, err := uc.Create(ctx, tenantA, dto.CreateProductRequest{Name: "Caja", Price: price("10")})
	require.NoError(t, err)

	got, err := uc.GetByID(ctx, tenantB, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	name := "Robado"
	upd, err := uc.Update(ctx, tenantB, created.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, upd)

	assert.ErrorIs(t, uc.Delete(ctx, tenantB, created.ID), domain.ErrNotFound)

	list, err := uc.List(ctx, tenantB, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	got, err = uc.GetByID(ctx, tenantA, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Caja", got.Name)
}

func TestProduct_UpdateParcial(t *testing.T) {
	repo := &memProducts{items: map[string]*entity.Product{}}
	uc := usecase.NewProductUseCase(repo)
	ctx := context.Background()
	created, err := uc.Create(ctx, tenantA, dto.CreateProductRequest{Name: "Caja", Price: price("10"), Code: "C-1"})
	require.NoError(t, err)

	out, err := uc.Update(ctx, tenantA, created.ID, dto.UpdateProductRequest{Price: price("12.5")})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(out.Price))
	assert.Equal(t, "C-1", out.Code)

	_, err = uc.Update(ctx, tenantA, created.ID, dto.UpdateProductRequest{Price: price("-3")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Empresas
// ──────────────────────────────────────────────────────────────────────────────

func TestCompany_GetByIDYListado(t *testing.T) {
	repo := &memCompanies{byID: map[string]*entity.Company{
		tenantA: {ID: tenantA, Name: "Acme", GmailAccessToken: "t", ActiveToken: "secreto"},
	}}
	uc := usecase.NewCompanyUseCase(repo)
	ctx := context.Background()

	got, err := uc.GetByID(ctx, tenantA)
	require.NoError(t, err)
	assert.True(t, got.MailAuthorized)

	_, err = uc.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, dto.PageRequest{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 100, list.Page.Limit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización de Gmail
// ──────────────────────────────────────────────────────────────────────────────

func newMailAuth(authz *fakeAuthorizer) (*usecase.MailAuthUseCase, *memCompanies) {
	companies := &memCompanies{byID: map[string]*entity.Company{
		tenantA: {ID: tenantA, GmailRefreshToken: "refresh-viejo"},
	}}
	sessions := staticSessions{
		"token-a":     {CompanyID: tenantA},
		"token-admin": {Admin: true},
	}
	return usecase.NewMailAuthUseCase(companies, authz, sessions, "https://app.example/", nil), companies
}

func TestMailAuth_AuthorizeURLLlevaElTokenComoState(t *testing.T) {
	uc, _ := newMailAuth(&fakeAuthorizer{})
	ctx := context.Background()

	url, err := uc.AuthorizeURL(ctx, "token-a")
	require.NoError(t, err)
	assert.Contains(t, url, "state=token-a")

	_, err = uc.AuthorizeURL(ctx, "token-admin")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.AuthorizeURL(ctx, "otro")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMailAuth_CallbackConservaRefreshAnterior(t *testing.T) {
	uc, companies := newMailAuth(&fakeAuthorizer{token: &ports.MailToken{AccessToken: "access-nuevo"}})

	redirect, err := uc.Callback(context.Background(), "token-a", "code-123")
	require.NoError(t, err)

	assert.Equal(t, "https://app.example/dashboard/configuracion?oauth=ok", redirect)
	assert.Equal(t, "access-nuevo", companies.byID[tenantA].GmailAccessToken)
	assert.Equal(t, "refresh-viejo", companies.byID[tenantA].GmailRefreshToken)
}

func TestMailAuth_CallbackReemplazaRefreshSiViene(t *testing.T) {
	uc, companies := newMailAuth(&fakeAuthorizer{token: &ports.MailToken{AccessToken: "a", RefreshToken: "r-nuevo"}})

	_, err := uc.Callback(context.Background(), "token-a", "code-123")
	require.NoError(t, err)

	assert.Equal(t, "r-nuevo", companies.byID[tenantA].GmailRefreshToken)
}

func TestMailAuth_CallbackErrores(t *testing.T) {
	ctx := context.Background()

	uc, companies := newMailAuth(&fakeAuthorizer{err: errors.New("invalid_grant")})
	_, err := uc.Callback(ctx, "token-a", "code-123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, companies.byID[tenantA].GmailAccessToken)

	_, err = uc.Callback(ctx, "", "code-123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Callback(ctx, "token-a", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cotizador-api/internal/application/auth"
	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/invitation"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type memCompanies struct {
	mu   sync.Mutex
	byID map[string]*entity.Company
}

func newMemCompanies() *memCompanies { return &memCompanies{byID: map[string]*entity.Company{}} }

func (m *memCompanies) Create(_ context.Context, c *entity.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.byID {
		if ex.Email == c.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *memCompanies) GetByEmail(_ context.Context, email string) (*entity.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memCompanies) ExistsByName(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.byID {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCompanies) List(context.Context, int, int) ([]*entity.Company, error) { return nil, nil }

func (m *memCompanies) SetActiveToken(_ context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.ActiveToken = token
	return nil
}

func (m *memCompanies) SetMailTokens(_ context.Context, id, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
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

type memInvitations struct {
	codes map[string]*entity.InvitationCode
}

func (m *memInvitations) Create(_ context.Context, c *entity.InvitationCode) error {
	cp := *c
	m.codes[c.ID] = &cp
	return nil
}

func (m *memInvitations) GetByCodeForUpdate(_ context.Context, code string) (*entity.InvitationCode, error) {
	for _, c := range m.codes {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memInvitations) MarkUsed(_ context.Context, id string) error {
	m.codes[id].Used = true
	return nil
}

func (m *memInvitations) List(context.Context, int, int) ([]*entity.InvitationCode, error) {
	return nil, nil
}

func (m *memInvitations) Delete(_ context.Context, id string) error {
	delete(m.codes, id)
	return nil
}

func (m *memInvitations) used(code string) bool {
	for _, c := range m.codes {
		if c.Code == code {
			return c.Used
		}
	}
	return false
}

// fakeTx ejecuta sin aislamiento real pero deshace el flag "usado" si fn falla.
type fakeTx struct {
	inv       *memInvitations
	companies *memCompanies
}

func (f fakeTx) RunInvitation(_ context.Context, fn func(repository.InvitationRepository) error) error {
	return fn(f.inv)
}

func (f fakeTx) RunRegistration(_ context.Context, fn func(repository.InvitationRepository, repository.CompanyRepository) error) error {
	snapshot := map[string]bool{}
	for id, c := range f.inv.codes {
		snapshot[id] = c.Used
	}
	err := fn(f.inv, f.companies)
	if err != nil {
		for id, used := range snapshot {
			f.inv.codes[id].Used = used
		}
	}
	return err
}

type memStore struct{ saved map[string][]byte }

func (s *memStore) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.saved[key] = data
	return "mem://" + key, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.saved, key)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret     = "test-secret-key-for-unit-tests"
	adminEmail     = "admin@cotizador.test"
	adminPassword  = "admin-pass"
	companyEmail   = "ventas@acme.test"
	companyPass    = "clave-segura"
	companyID      = "11111111-1111-1111-1111-111111111111"
	invitationCode = "codigo-valido"
)

type fixture struct {
	uc        *auth.AuthUseCase
	companies *memCompanies
	inv       *memInvitations
	store     *memStore
}

func newFixture(t *testing.T, policy auth.RegistrationPolicy) *fixture {
	t.Helper()
	companies := newMemCompanies()
	hash, err := bcrypt.GenerateFromPassword([]byte(companyPass), bcrypt.MinCost)
	require.NoError(t, err)
	companies.byID[companyID] = &entity.Company{ID: companyID, Name: "Acme", Email: companyEmail, PasswordHash: string(hash)}

	inv := &memInvitations{codes: map[string]*entity.InvitationCode{
		"inv-1": {ID: "inv-1", Code: invitationCode, ExpiresAt: time.Now().Add(10 * time.Minute)},
	}}
	tx := fakeTx{inv: inv, companies: companies}
	ledger := invitation.NewLedger(inv, tx)
	store := &memStore{saved: map[string][]byte{}}

	uc := auth.NewAuthUseCase(companies, ledger, tx, store,
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "test"},
		auth.AdminCredentials{Email: adminEmail, Password: adminPassword},
		policy, nil)
	return &fixture{uc: uc, companies: companies, inv: inv, store: store}
}

func registerRequest(email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Name: "Nueva SAS", Email: email, Password: "otra-clave", NIT: "900123456",
		Address: "Calle 1", Phone: "3000000000", Contact: "Ana", InvitationCode: invitationCode,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión única
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_SegundoLoginInvalidaElPrimero(t *testing.T) {
	f := newFixture(t, auth.RegistrationPolicy{})
	ctx := context.Background()
	in := dto.LoginRequest{Email: companyEmail, Password: companyPass}

	first, err := f.uc.Login(ctx, in)
	require.NoError(t, err)
	second, err := f.uc.Login(ctx, in)
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	_, err = f.uc.Authenticate(ctx, first.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "el token anterior debe quedar invalidado")

	p, err := f.uc.Authenticate(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, companyID, p.CompanyID)
	assert.False(t, p.Admin)
}

func TestLogout_InvalidaElToken(t *testing.T) {
	f := newFixture(t, auth.RegistrationPolicy{})
	ctx := context.Background()
	out, err := f.uc.Login(ctx, dto.LoginRequest{Email: companyEmail, Password: companyPass})
	require.NoError(t, err)
	p, err := f.uc.Authenticate(ctx, out.Token)
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(ctx, p))

	_, err = f.uc.Authenticate(ctx, out.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := newFixture(t, auth.RegistrationPolicy{})
	ctx := context.Background()

	_, err := f.uc.Login(ctx, dto.LoginRequest{Email: companyEmail, Password: "mala"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "nadie@x.test", Password: companyPass})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_Administrador(t *testing.T) {
	f := newFixture(t, auth.RegistrationPolicy{})
	ctx := context.Background()

	out, err := f.uc.Login(ctx, dto.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	assert.True(t, out.Admin)
	assert.Nil(t, out.Company)

	p, err := f.uc.Authenticate(ctx, out.Token)
	require.NoError(t, err)
	assert.True(t, p.Admin)
	assert.Empty(t, p.CompanyID)
}

func TestIsAdmin_SinConfiguracionNuncaCoincide(t *testing.T) {
	uc := auth.NewAuthUseCase(newMemCompanies(), nil, nil, nil,
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60}, auth.AdminCredentials{}, auth.RegistrationPolicy{}, nil)

	assert.False(t, uc.IsAdmin("", ""))
}

func TestAuthenticate_TokenBasura(t *testing.T) {
	f := newFixture(t, auth.RegistrationPolicy{})

	_, err := f.uc.Authenticate(context.Background(), "no.es.un.jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_ConsumeCodigoYCreaEmpresa(t *testing.T) {
	f := newFixture(t, auth.RegistrationPolicy{})
	ctx := context.Background()

	out, err := f.uc.Register(ctx, registerRequest("nueva@x.test"), &dto.UploadedFile{
		Filename: "logo.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'},
	})
	require.NoError(t, err)

	assert.True(t, f.inv.used(invitationCode))
	assert.Equal(t, "mem://logos/"+out.ID+"/logo.png", out.LogoURL)
	assert.False(t, out.MailAuthorized)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "nueva@x.test", Password: "otra-clave"})
	assert.NoError(t, err)
}

func TestRegister_CodigoSeConsumeAunqueFalleElAlta(t *testing.T) {
	f := newFixture(t, auth.RegistrationPolicy{RollbackOnFailure: false})

	_, err := f.uc.Register(context.Background(), registerRequest(companyEmail), nil)

	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.True(t, f.inv.used(invitationCode), "con la política por defecto el código queda quemado")
}

func TestRegister_ConRollbackElCodigoSigueDisponible(t *testing.T) {
	f := newFixture(t, auth.RegistrationPolicy{RollbackOnFailure: true})
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerRequest(companyEmail), nil)
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	assert.False(t, f.inv.used(invitationCode))

	_, err = f.uc.Register(ctx, registerRequest("otra@x.test"), nil)
	assert.NoError(t, err)
}

func TestRegister_CodigoYaUsado(t *testing.T) {
	f := newFixture(t, auth.RegistrationPolicy{})
	ctx := context.Background()
	_, err := f.uc.Register(ctx, registerRequest("a@x.test"), nil)
	require.NoError(t, err)

	req := registerRequest("b@x.test")
	req.Name = "Otra SAS"
	_, err = f.uc.Register(ctx, req, nil)
	assert.ErrorIs(t, err, domain.ErrInvitationUsed)
}

func TestRegister_CampoFaltante(t *testing.T) {
	f := newFixture(t, auth.RegistrationPolicy{})
	req := registerRequest("c@x.test")
	req.NIT = ""

	_, err := f.uc.Register(context.Background(), req, nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "nit")
	assert.False(t, f.inv.used(invitationCode), "la validación ocurre antes de canjear")
}

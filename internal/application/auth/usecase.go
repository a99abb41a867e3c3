package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/application/invitation"
	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
	"github.com/jhoicas/Cotizador-api/pkg/jwt"
	"github.com/jhoicas/Cotizador-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminCredentials identidad del administrador; ambos campos vacíos deshabilitan el acceso admin.
type AdminCredentials struct {
	Email    string
	Password string
}

// RegistrationPolicy decide qué pasa con el código si el alta de la empresa falla.
type RegistrationPolicy struct {
	// RollbackOnFailure: true = canje y alta en la misma transacción; false = el código queda consumido.
	RollbackOnFailure bool
}

// RegistrationTxRunner ejecuta canje + alta dentro de una transacción.
type RegistrationTxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		invRepo repository.InvitationRepository,
		companyRepo repository.CompanyRepository,
	) error) error
}

// Principal identidad autenticada de una petición.
type Principal struct {
	Admin     bool
	CompanyID string
	Company   *entity.Company
}

// AuthUseCase autoridad de sesión (una sesión activa por empresa) y registro de empresas.
type AuthUseCase struct {
	companyRepo repository.CompanyRepository
	ledger      *invitation.Ledger
	tx          RegistrationTxRunner
	assets      ports.ObjectStore
	jwtCfg      JWTConfig
	admin       AdminCredentials
	policy      RegistrationPolicy
	log         *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth. assets puede ser nil si no se admiten logos subidos.
func NewAuthUseCase(
	companyRepo repository.CompanyRepository,
	ledger *invitation.Ledger,
	tx RegistrationTxRunner,
	assets ports.ObjectStore,
	jwtCfg JWTConfig,
	admin AdminCredentials,
	policy RegistrationPolicy,
	log *logger.Logger,
) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		companyRepo: companyRepo,
		ledger:      ledger,
		tx:          tx,
		assets:      assets,
		jwtCfg:      jwtCfg,
		admin:       admin,
		policy:      policy,
		log:         log.Component("auth"),
	}
}

// IsAdmin compara en tiempo constante contra las credenciales configuradas.
func (uc *AuthUseCase) IsAdmin(email, password string) bool {
	if uc.admin.Email == "" || uc.admin.Password == "" {
		return false
	}
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(uc.admin.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(uc.admin.Password)) == 1
	return emailOK && passOK
}

// Login emite un token. Para una empresa reemplaza la sesión activa; la anterior deja de ser válida.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if uc.IsAdmin(in.Email, in.Password) {
		token, err := jwt.GenerateForAdmin(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
		if err != nil {
			return nil, err
		}
		uc.log.Info().Msg("login de administrador")
		return &dto.LoginResponse{Token: token, Admin: true}, nil
	}

	company, err := uc.companyRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.GenerateForCompany(uc.jwtCfg.Secret, company.ID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	if err := uc.companyRepo.SetActiveToken(ctx, company.ID, token); err != nil {
		return nil, fmt.Errorf("guardar sesión activa: %w", err)
	}
	company.ActiveToken = token
	uc.log.Info().Str("company_id", company.ID).Msg("login de empresa")
	return &dto.LoginResponse{Token: token, Company: ToCompanyResponse(company)}, nil
}

// Authenticate valida firma y expiración y, para empresas, que el token sea exactamente la sesión activa.
// Todo rechazo se reporta como domain.ErrUnauthorized.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if claims.Admin {
		return &Principal{Admin: true}, nil
	}
	company, err := uc.companyRepo.GetByID(ctx, claims.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil || company.ActiveToken == "" {
		return nil, domain.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(company.ActiveToken), []byte(token)) != 1 {
		return nil, domain.ErrUnauthorized
	}
	return &Principal{CompanyID: company.ID, Company: company}, nil
}

// Logout borra la sesión activa; el token deja de autenticar aunque no haya expirado.
func (uc *AuthUseCase) Logout(ctx context.Context, p *Principal) error {
	if p == nil || p.CompanyID == "" {
		return domain.ErrUnauthorized
	}
	if err := uc.companyRepo.SetActiveToken(ctx, p.CompanyID, ""); err != nil {
		return err
	}
	uc.log.Info().Str("company_id", p.CompanyID).Msg("logout")
	return nil
}

// Register canjea el código de invitación y crea la empresa.
// Con RollbackOnFailure=false el código queda consumido aunque el alta falle.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest, logo *dto.UploadedFile) (*dto.CompanyResponse, error) {
	if field := in.MissingField(); field != "" {
		return nil, fmt.Errorf("%w: campo requerido: %s", domain.ErrInvalidInput, field)
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		NIT:       in.NIT,
		Address:   in.Address,
		Phone:     in.Phone,
		Contact:   in.Contact,
		LogoURL:   in.LogoURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	if uc.policy.RollbackOnFailure {
		err = uc.tx.RunRegistration(ctx, func(invRepo repository.InvitationRepository, companyRepo repository.CompanyRepository) error {
			if err := uc.ledger.RedeemIn(ctx, invRepo, in.InvitationCode); err != nil {
				return err
			}
			return uc.createCompany(ctx, companyRepo, company, in.Password, logo)
		})
	} else {
		if err := uc.ledger.Redeem(ctx, in.InvitationCode); err != nil {
			return nil, err
		}
		uc.log.Info().Str("company_id", company.ID).Msg("código de invitación canjeado")
		err = uc.createCompany(ctx, uc.companyRepo, company, in.Password, logo)
	}
	if err != nil {
		if !isBusinessError(err) {
			uc.log.Error().Err(err).Str("company_id", company.ID).Msg("registro de empresa fallido")
		}
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Msg("empresa registrada")
	return ToCompanyResponse(company), nil
}

func (uc *AuthUseCase) createCompany(
	ctx context.Context,
	companyRepo repository.CompanyRepository,
	company *entity.Company,
	password string,
	logo *dto.UploadedFile,
) error {
	existing, err := companyRepo.GetByEmail(ctx, company.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrEmailAlreadyExists
	}
	taken, err := companyRepo.ExistsByName(ctx, company.Name)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrNameAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	company.PasswordHash = string(hash)

	if logo != nil && len(logo.Data) > 0 {
		if uc.assets == nil {
			return fmt.Errorf("%w: no se admiten logos subidos", domain.ErrInvalidInput)
		}
		key := path.Join("logos", company.ID, path.Base(logo.Filename))
		location, err := uc.assets.Save(ctx, key, logo.Data, logo.ContentType)
		if err != nil {
			return fmt.Errorf("subir logo: %w", err)
		}
		company.LogoURL = location
	}
	return companyRepo.Create(ctx, company)
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput, domain.ErrEmailAlreadyExists, domain.ErrNameAlreadyExists,
		domain.ErrInvitationNotFound, domain.ErrInvitationExpired, domain.ErrInvitationUsed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// ToCompanyResponse convierte la entidad a DTO (sin password ni tokens).
func ToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		NIT:            c.NIT,
		Address:        c.Address,
		Phone:          c.Phone,
		Contact:        c.Contact,
		LogoURL:        c.LogoURL,
		MailAuthorized: c.MailAuthorized(),
		CreatedAt:      c.CreatedAt,
	}
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL (usable con pool o tx).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, email, password_hash, nit, address, phone, contact, logo_url,
	COALESCE(active_token, ''), COALESCE(gmail_access_token, ''), COALESCE(gmail_refresh_token, ''),
	created_at, updated_at`

func scanCompany(row interface{ Scan(dest ...any) error }) (*entity.Company, error) {
	var c entity.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.NIT, &c.Address, &c.Phone, &c.Contact, &c.LogoURL,
		&c.ActiveToken, &c.GmailAccessToken, &c.GmailRefreshToken,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa. Nombre o email repetidos devuelven el error de dominio correspondiente.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, email, password_hash, nit, address, phone, contact, logo_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		company.ID, company.Name, company.Email, company.PasswordHash, company.NIT,
		company.Address, company.Phone, company.Contact, company.LogoURL,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			switch uniqueConstraint(err) {
			case "companies_email_key":
				return domain.ErrEmailAlreadyExists
			case "companies_name_key":
				return domain.ErrNameAlreadyExists
			}
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID. Devuelve nil, nil si no existe.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

// GetByEmail obtiene una empresa por email (login).
func (r *CompanyRepo) GetByEmail(ctx context.Context, email string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE email = $1`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by email: %w", err)
	}
	return c, nil
}

// ExistsByName informa si ya hay una empresa con ese nombre.
func (r *CompanyRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM companies WHERE name = $1)`, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check company name: %w", err)
	}
	return exists, nil
}

// List devuelve empresas con paginación.
func (r *CompanyRepo) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var list []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// SetActiveToken escribe la sesión activa en una sola sentencia; el último login gana.
func (r *CompanyRepo) SetActiveToken(ctx context.Context, companyID, token string) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE companies SET active_token = NULLIF($2, ''), updated_at = now() WHERE id = $1`,
		companyID, token,
	)
	if err != nil {
		return fmt.Errorf("set active token: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetMailTokens guarda el access token; el refresh token solo se reemplaza si viene uno nuevo.
func (r *CompanyRepo) SetMailTokens(ctx context.Context, companyID, accessToken, refreshToken string) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE companies
		   SET gmail_access_token  = NULLIF($2, ''),
		       gmail_refresh_token = COALESCE(NULLIF($3, ''), gmail_refresh_token),
		       updated_at          = now()
		 WHERE id = $1`,
		companyID, accessToken, refreshToken,
	)
	if err != nil {
		return fmt.Errorf("set mail tokens: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

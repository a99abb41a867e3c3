package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

var _ repository.QuotationRepository = (*QuotationRepo)(nil)

// QuotationRepo persistencia de cotizaciones. Los ítems se guardan como JSONB (snapshot congelado).
type QuotationRepo struct {
	q Querier
}

// NewQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *QuotationRepo {
	return &QuotationRepo{q: q}
}

const quotationColumns = `id, company_id, code, customer_name, customer_email, customer_phone, customer_address,
	items, subtotal, discount, tax_rate, total,
	seller, quote_date, validity, payment_terms, delivery_time, commercial_status,
	legal_notes, observations, conditions, signature, delivery_status, created_at, updated_at`

type rowScanner interface{ Scan(dest ...any) error }

// scanQuotation lee las columnas de quotationColumns más, opcionalmente, extra (document o has_document).
func scanQuotation(row rowScanner, extra ...any) (*entity.Quotation, error) {
	var (
		q      entity.Quotation
		items  []byte
		status string
	)
	dest := []any{
		&q.ID, &q.CompanyID, &q.Code, &q.Customer.Name, &q.Customer.Email, &q.Customer.Phone, &q.Customer.Address,
		&items, &q.Subtotal, &q.Discount, &q.TaxRate, &q.Total,
		&q.Terms.Seller, &q.Terms.Date, &q.Terms.Validity, &q.Terms.PaymentTerms, &q.Terms.DeliveryTime, &q.Terms.Status,
		&q.Terms.LegalNotes, &q.Terms.Observations, &q.Terms.Conditions, &q.Terms.Signature,
		&status, &q.CreatedAt, &q.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &q.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	q.DeliveryStatus = entity.DeliveryStatus(status)
	return &q, nil
}

// Create inserta el registro completo, PDF incluido, en una sola sentencia.
func (r *QuotationRepo) Create(ctx context.Context, q *entity.Quotation) error {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO quotations (`+quotationColumns+`, document)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
		        $19, $20, $21, $22, $23, $24, $25, $26)`,
		q.ID, q.CompanyID, q.Code, q.Customer.Name, q.Customer.Email, q.Customer.Phone, q.Customer.Address,
		items, q.Subtotal, q.Discount, q.TaxRate, q.Total,
		q.Terms.Seller, q.Terms.Date, q.Terms.Validity, q.Terms.PaymentTerms, q.Terms.DeliveryTime, q.Terms.Status,
		q.Terms.LegalNotes, q.Terms.Observations, q.Terms.Conditions, q.Terms.Signature,
		string(q.DeliveryStatus), q.CreatedAt, q.UpdatedAt, q.Document,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert quotation: %w", err)
	}
	return nil
}

func (r *QuotationRepo) get(ctx context.Context, companyID, id, suffix string) (*entity.Quotation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	var doc []byte
	q, err := scanQuotation(r.q.QueryRow(ctx,
		`SELECT `+quotationColumns+`, document FROM quotations WHERE id = $1 AND company_id = $2`+suffix,
		id, companyID), &doc)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	q.Document = doc
	q.DocumentSize = len(doc)
	return q, nil
}

// GetByID obtiene una cotización de la empresa con su PDF. nil, nil si no existe o es de otra empresa.
func (r *QuotationRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Quotation, error) {
	return r.get(ctx, companyID, id, "")
}

// GetForUpdate igual que GetByID pero bloquea la fila (usar dentro de una transacción).
func (r *QuotationRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.Quotation, error) {
	return r.get(ctx, companyID, id, " FOR UPDATE")
}

// CodeExists informa si la empresa ya usa ese código de cotización.
func (r *QuotationRepo) CodeExists(ctx context.Context, companyID, code string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM quotations WHERE company_id = $1 AND code = $2)`, companyID, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check quotation code: %w", err)
	}
	return exists, nil
}

// ListByCompany lista sin cargar el PDF; solo se lee su tamaño.
func (r *QuotationRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Quotation, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+quotationColumns+`, octet_length(document)
		   FROM quotations WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quotation
	for rows.Next() {
		var size int
		q, err := scanQuotation(rows, &size)
		if err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		q.DocumentSize = size
		list = append(list, q)
	}
	return list, rows.Err()
}

// Update reescribe ítems, totales, campos descriptivos y PDF. El estado de envío no cambia.
func (r *QuotationRepo) Update(ctx context.Context, q *entity.Quotation) error {
	items, err := json.Marshal(q.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE quotations SET
		       customer_name = $3, customer_email = $4, customer_phone = $5, customer_address = $6,
		       items = $7, subtotal = $8, discount = $9, tax_rate = $10, total = $11,
		       seller = $12, quote_date = $13, validity = $14, payment_terms = $15, delivery_time = $16,
		       commercial_status = $17, legal_notes = $18, observations = $19, conditions = $20, signature = $21,
		       document = $22, updated_at = $23
		 WHERE id = $1 AND company_id = $2`,
		q.ID, q.CompanyID, q.Customer.Name, q.Customer.Email, q.Customer.Phone, q.Customer.Address,
		items, q.Subtotal, q.Discount, q.TaxRate, q.Total,
		q.Terms.Seller, q.Terms.Date, q.Terms.Validity, q.Terms.PaymentTerms, q.Terms.DeliveryTime,
		q.Terms.Status, q.Terms.LegalNotes, q.Terms.Observations, q.Terms.Conditions, q.Terms.Signature,
		q.Document, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quotation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la cotización de la empresa.
func (r *QuotationRepo) Delete(ctx context.Context, companyID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM quotations WHERE id = $1 AND company_id = $2`, id, companyID)
	if err != nil {
		return fmt.Errorf("delete quotation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

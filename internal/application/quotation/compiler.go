package quotation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/application/dto"
	"github.com/jhoicas/Cotizador-api/internal/domain"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
	"github.com/jhoicas/Cotizador-api/internal/domain/repository"
)

// codePrefix prefijo de los códigos generados.
const codePrefix = "COT-"

// maxCodeAttempts sufijos probados (-2, -3, ...) antes de rendirse con un código generado.
const maxCodeAttempts = 50

// CodeChecker consulta si un código ya está tomado dentro de la empresa.
type CodeChecker interface {
	CodeExists(ctx context.Context, companyID, code string) (bool, error)
}

// Compiler valida la solicitud contra el catálogo de la empresa y calcula los totales.
// No persiste nada.
type Compiler struct {
	products repository.ProductRepository
	codes    CodeChecker
	now      func() time.Time
}

// NewCompiler construye el compilador.
func NewCompiler(products repository.ProductRepository, codes CodeChecker) *Compiler {
	return &Compiler{products: products, codes: codes, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (c *Compiler) WithClock(now func() time.Time) *Compiler {
	c.now = now
	return c
}

// Compile arma una cotización nueva con snapshot de los productos y código asignado.
func (c *Compiler) Compile(ctx context.Context, companyID string, in dto.CreateQuotationRequest) (*entity.Quotation, error) {
	if strings.TrimSpace(in.Customer) == "" {
		return nil, fmt.Errorf("%w: campo requerido: cliente", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Email) == "" {
		return nil, fmt.Errorf("%w: campo requerido: correo", domain.ErrInvalidInput)
	}
	lines, err := ParseLines(in.Products)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: la lista de productos está vacía", domain.ErrInvalidInput)
	}
	items, err := c.resolve(ctx, companyID, lines)
	if err != nil {
		return nil, err
	}

	totals := pricing.ComputeTotals(items, orZero(in.Discount), orZero(in.TaxRate))
	code, err := c.assignCode(ctx, companyID, strings.TrimSpace(in.Code))
	if err != nil {
		return nil, err
	}

	now := c.now()
	q := &entity.Quotation{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Code:      code,
		Customer: entity.Customer{
			Name:    in.Customer,
			Email:   in.Email,
			Phone:   in.Phone,
			Address: in.Address,
		},
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyTotals(q, totals)
	applyTerms(&q.Terms, in.QuotationTermsFields)
	return q, nil
}

// Recompile aplica una actualización parcial sobre q. Los productos solo se vuelven a resolver
// si vienen en la solicitud; los totales se recalculan si cambian productos, descuento o iva.
func (c *Compiler) Recompile(ctx context.Context, q *entity.Quotation, in dto.UpdateQuotationRequest) error {
	if in.Customer != nil {
		if strings.TrimSpace(*in.Customer) == "" {
			return fmt.Errorf("%w: el cliente no puede quedar vacío", domain.ErrInvalidInput)
		}
		q.Customer.Name = *in.Customer
	}
	if in.Email != nil {
		if strings.TrimSpace(*in.Email) == "" {
			return fmt.Errorf("%w: el correo no puede quedar vacío", domain.ErrInvalidInput)
		}
		q.Customer.Email = *in.Email
	}
	if in.Phone != nil {
		q.Customer.Phone = *in.Phone
	}
	if in.Address != nil {
		q.Customer.Address = *in.Address
	}
	applyTerms(&q.Terms, in.QuotationTermsFields)

	recompute := false
	if present(in.Products) {
		lines, err := ParseLines(in.Products)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return fmt.Errorf("%w: la lista de productos está vacía", domain.ErrInvalidInput)
		}
		items, err := c.resolve(ctx, q.CompanyID, lines)
		if err != nil {
			return err
		}
		q.Items = items
		recompute = true
	}
	discount, taxRate := q.Discount, q.TaxRate
	if in.Discount != nil {
		discount = *in.Discount
		recompute = true
	}
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
		recompute = true
	}
	if recompute {
		applyTotals(q, pricing.ComputeTotals(q.Items, discount, taxRate))
	}
	q.UpdatedAt = c.now()
	return nil
}

// ParseLines acepta una lista JSON o un string que contiene la lista codificada.
// Un cuerpo ausente o null devuelve una lista vacía.
func ParseLines(raw json.RawMessage) ([]dto.QuotationLineRequest, error) {
	raw = bytes.TrimSpace(raw)
	if !present(raw) {
		return nil, nil
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
		}
		raw = bytes.TrimSpace([]byte(encoded))
		if len(raw) == 0 {
			return nil, nil
		}
	}
	var lines []dto.QuotationLineRequest
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}
	return lines, nil
}

// resolve construye el snapshot; cualquier id que no pertenezca a la empresa aborta todo.
func (c *Compiler) resolve(ctx context.Context, companyID string, lines []dto.QuotationLineRequest) ([]entity.QuotationItem, error) {
	ids := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.ID)
		if id == "" {
			return nil, &domain.UnknownProductError{ID: l.ID}
		}
		if l.Quantity != nil && !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: la cantidad del producto %s debe ser positiva", domain.ErrInvalidInput, id)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	found, err := c.products.ResolveMany(ctx, companyID, ids)
	if err != nil {
		return nil, fmt.Errorf("resolver productos: %w", err)
	}

	items := make([]entity.QuotationItem, 0, len(lines))
	for _, l := range lines {
		id := strings.TrimSpace(l.ID)
		p, ok := found[id]
		if !ok || p == nil {
			return nil, &domain.UnknownProductError{ID: id}
		}
		qty := decimal.NewFromInt(1)
		if l.Quantity != nil {
			qty = *l.Quantity
		}
		items = append(items, entity.QuotationItem{
			ProductID:   p.ID,
			Name:        p.Name,
			Description: p.Description,
			Unit:        p.Unit,
			Code:        p.Code,
			Quantity:    qty,
			UnitPrice:   p.Price,
			Discount:    orZero(l.Discount),
			TaxRate:     orZero(l.TaxRate),
		})
	}
	return items, nil
}

// assignCode usa el código pedido si está libre; si no se pidió ninguno genera COT-<epoch>
// y agrega sufijos hasta encontrar uno libre.
func (c *Compiler) assignCode(ctx context.Context, companyID, requested string) (string, error) {
	if requested != "" {
		taken, err := c.codes.CodeExists(ctx, companyID, requested)
		if err != nil {
			return "", err
		}
		if taken {
			return "", fmt.Errorf("%w: el código %s ya existe", domain.ErrDuplicate, requested)
		}
		return requested, nil
	}
	base := fmt.Sprintf("%s%d", codePrefix, c.now().Unix())
	for n := 1; n <= maxCodeAttempts; n++ {
		code := base
		if n > 1 {
			code = fmt.Sprintf("%s-%d", base, n)
		}
		taken, err := c.codes.CodeExists(ctx, companyID, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("%w: no hay código disponible para %s", domain.ErrDuplicate, base)
}

func applyTotals(q *entity.Quotation, t pricing.Totals) {
	q.Subtotal = t.Subtotal
	q.Discount = t.Discount
	q.TaxRate = t.TaxRate
	q.Total = t.Total
}

func applyTerms(t *entity.QuotationTerms, in dto.QuotationTermsFields) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&t.Seller, in.Seller)
	set(&t.Date, in.Date)
	set(&t.Validity, in.Validity)
	set(&t.PaymentTerms, in.PaymentTerms)
	set(&t.DeliveryTime, in.DeliveryTime)
	set(&t.Status, in.Status)
	set(&t.LegalNotes, in.LegalNotes)
	set(&t.Observations, in.Observations)
	set(&t.Conditions, in.Conditions)
	set(&t.Signature, in.Signature)
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

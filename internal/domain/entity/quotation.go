package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeliveryStatus resultado del envío del correo de la cotización.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "Enviado"
	DeliveryFailed DeliveryStatus = "Fallido"
)

// QuotationItem copia congelada de un producto del catálogo al momento de cotizar.
// Discount y TaxRate por línea son solo de presentación en el PDF; no alteran los totales.
type QuotationItem struct {
	ProductID   string          `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Unit        string          `json:"unidad"`
	Code        string          `json:"codigo"`
	Quantity    decimal.Decimal `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio"`
	Discount    decimal.Decimal `json:"descuento"`
	TaxRate     decimal.Decimal `json:"iva"`
}

// LineTotal cantidad × precio unitario.
func (i QuotationItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Customer datos de contacto del cliente de la cotización.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// QuotationTerms campos descriptivos que no participan en el cálculo.
type QuotationTerms struct {
	Seller       string // vendedor
	Date         string // fecha mostrada en el documento
	Validity     string // validez
	PaymentTerms string // forma de pago
	DeliveryTime string // tiempo de entrega
	Status       string // estado comercial de la cotización (no confundir con DeliveryStatus)
	LegalNotes   string
	Observations string
	Conditions   string
	Signature    string
}

// Quotation registro histórico de una cotización con su PDF y el resultado del envío.
type Quotation struct {
	ID             string
	CompanyID      string
	Code           string
	Customer       Customer
	Items          []QuotationItem
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	TaxRate        decimal.Decimal // porcentaje
	Total          decimal.Decimal
	Terms          QuotationTerms
	Document       []byte
	DocumentSize   int // tamaño del PDF; se informa aunque Document no se cargue (listados)
	DeliveryStatus DeliveryStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasDocument informa si el registro conserva el PDF generado.
func (q *Quotation) HasDocument() bool {
	return q != nil && (len(q.Document) > 0 || q.DocumentSize > 0)
}

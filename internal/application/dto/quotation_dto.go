package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// QuotationLineRequest línea solicitada: id del catálogo y cantidad (por defecto 1).
// Descuento e IVA por línea solo se muestran en el PDF.
type QuotationLineRequest struct {
	ID       string           `json:"id"`
	Quantity *decimal.Decimal `json:"cantidad"`
	Discount *decimal.Decimal `json:"descuento"`
	TaxRate  *decimal.Decimal `json:"iva"`
}

// QuotationTermsFields campos descriptivos compartidos por creación y actualización.
type QuotationTermsFields struct {
	Seller       *string `json:"vendedor"`
	Date         *string `json:"fecha"`
	Validity     *string `json:"validez"`
	PaymentTerms *string `json:"forma_pago"`
	DeliveryTime *string `json:"tiempo_entrega"`
	Status       *string `json:"estado_cotizacion"`
	LegalNotes   *string `json:"notas_legales"`
	Observations *string `json:"observaciones"`
	Conditions   *string `json:"condiciones"`
	Signature    *string `json:"firma"`
}

// CreateQuotationRequest cuerpo de POST /cotizaciones.
// Products acepta una lista JSON o un string con la lista codificada.
type CreateQuotationRequest struct {
	Customer string           `json:"cliente"`
	Email    string           `json:"correo"`
	Phone    string           `json:"telefono"`
	Address  string           `json:"direccion"`
	Products json.RawMessage  `json:"productos"`
	Discount *decimal.Decimal `json:"descuento"`
	TaxRate  *decimal.Decimal `json:"iva"`
	Code     string           `json:"codigo_cotizacion"`
	QuotationTermsFields
}

// UpdateQuotationRequest cuerpo de PUT /cotizaciones/:id; solo se aplican los campos presentes.
type UpdateQuotationRequest struct {
	Customer *string          `json:"cliente"`
	Email    *string          `json:"correo"`
	Phone    *string          `json:"telefono"`
	Address  *string          `json:"direccion"`
	Products json.RawMessage  `json:"productos"`
	Discount *decimal.Decimal `json:"descuento"`
	TaxRate  *decimal.Decimal `json:"iva"`
	QuotationTermsFields
}

// QuotationProcessedResponse respuesta del pipeline de creación.
type QuotationProcessedResponse struct {
	Message string          `json:"mensaje"`
	ID      string          `json:"id"`
	Code    string          `json:"codigo_cotizacion"`
	Total   decimal.Decimal `json:"total"`
	Status  string          `json:"estado"`
}

// QuotationItemResponse línea congelada de la cotización.
type QuotationItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"nombre"`
	Description string          `json:"descripcion"`
	Unit        string          `json:"unidad"`
	Code        string          `json:"codigo"`
	Quantity    decimal.Decimal `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precio"`
}

// QuotationResponse detalle de una cotización.
type QuotationResponse struct {
	ID             string                  `json:"id"`
	Code           string                  `json:"codigo_cotizacion"`
	Customer       string                  `json:"cliente"`
	Email          string                  `json:"correo"`
	Phone          string                  `json:"telefono"`
	Address        string                  `json:"direccion"`
	Seller         string                  `json:"vendedor"`
	Date           string                  `json:"fecha"`
	Validity       string                  `json:"validez"`
	PaymentTerms   string                  `json:"forma_pago"`
	DeliveryTime   string                  `json:"tiempo_entrega"`
	Status         string                  `json:"estado_cotizacion"`
	LegalNotes     string                  `json:"notas_legales"`
	Observations   string                  `json:"observaciones"`
	Conditions     string                  `json:"condiciones"`
	Signature      string                  `json:"firma"`
	Items          []QuotationItemResponse `json:"productos"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
	Discount       decimal.Decimal         `json:"descuento"`
	TaxRate        decimal.Decimal         `json:"iva"`
	Total          decimal.Decimal         `json:"total"`
	DeliveryStatus string                  `json:"estado_envio"`
	HasDocument    bool                    `json:"archivo_pdf"`
	CreatedAt      time.Time               `json:"created_at"`
}

// QuotationListResponse lista paginada de cotizaciones.
type QuotationListResponse struct {
	Items []QuotationResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// Package pricing contiene las reglas numéricas de la cotización.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals resultado del cálculo de una cotización.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	TaxRate  decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals aplica la regla fija:
//
//	subtotal = Σ cantidad × precio
//	total    = subtotal − descuento
//	si iva > 0: total = total + total × iva / 100
//
// El IVA se aplica sobre el monto ya descontado. Un iva negativo no se rechaza; simplemente no suma.
func ComputeTotals(items []entity.QuotationItem, discount, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	total := subtotal.Sub(discount)
	if taxRate.GreaterThan(decimal.Zero) {
		total = total.Add(total.Mul(taxRate).Div(hundred))
	}
	return Totals{Subtotal: subtotal, Discount: discount, TaxRate: taxRate, Total: total}
}

// LineDisplay valores por línea que se muestran en la tabla del PDF.
type LineDisplay struct {
	Gross    decimal.Decimal // cantidad × precio
	Discount decimal.Decimal
	Tax      decimal.Decimal // (bruto − descuento) × iva / 100
	Net      decimal.Decimal // bruto − descuento + tax
}

// ComputeLineDisplay calcula el detalle de presentación de una línea.
// Es independiente de ComputeTotals y puede no coincidir con el IVA global.
func ComputeLineDisplay(it entity.QuotationItem) LineDisplay {
	gross := it.LineTotal()
	base := gross.Sub(it.Discount)
	tax := base.Mul(it.TaxRate).Div(hundred)
	return LineDisplay{Gross: gross, Discount: it.Discount, Tax: tax, Net: base.Add(tax)}
}

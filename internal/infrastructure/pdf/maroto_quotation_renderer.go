// Package pdf genera el documento de la cotización con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│                                        N° COT-1700000000    │
//	│  LOGO  │  Empresa / NIT / Dirección / Tel / Email / Contacto │
//	│                       COTIZACIÓN                            │
//	│  CLIENTE: nombre, correo, teléfono, dirección, vendedor     │
//	│           fecha, validez, forma de pago, entrega, estado    │
//	│  TABLA: Producto | Cant. | Precio | Desc. | IVA | Subtotal   │
//	│  TOTALES: Subtotal / Descuento / IVA / TOTAL                 │
//	│  Notas legales / Observaciones / Condiciones                 │
//	│  Firma del cliente                                           │
//	│  Footer                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"net/http"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/Cotizador-api/internal/application/ports"
	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/domain/pricing"
	"github.com/jhoicas/Cotizador-api/pkg/nit"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 26, Green: 35, Blue: 126}
	colorSecondary = &props.Color{Red: 21, Green: 101, Blue: 192}
	colorHeaderBg  = &props.Color{Red: 197, Green: 225, Blue: 250}
	colorAltRow    = &props.Color{Red: 232, Green: 240, Blue: 253}
	colorGray      = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const (
	footerText      = "Gracias por su interés. Para dudas, contáctenos."
	signatureMaxLen = 20
	dateLayout      = "02/01/2006"
)

var _ ports.DocumentRenderer = (*QuotationRenderer)(nil)

// ── Renderer ──────────────────────────────────────────────────────────────────

// QuotationRenderer implementa ports.DocumentRenderer usando Maroto v2.
type QuotationRenderer struct {
	logos   ports.LogoFetcher
	printer *message.Printer
}

// NewQuotationRenderer construye el generador. logos puede ser nil (documentos sin logo).
func NewQuotationRenderer(logos ports.LogoFetcher) *QuotationRenderer {
	return &QuotationRenderer{
		logos:   logos,
		printer: message.NewPrinter(language.MustParse("es-CO")),
	}
}

// Render genera el PDF y devuelve sus bytes.
func (g *QuotationRenderer) Render(ctx context.Context, q *entity.Quotation, b entity.Branding) ([]byte, error) {
	if q == nil {
		return nil, fmt.Errorf("pdf: cotización nula")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cotización "+q.Code, true).
		WithAuthor(b.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(codeRow(q.Code))
	m.AddRows(g.brandingRow(ctx, b))
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(titleRow())
	m.AddRows(customerRows(q)...)
	m.AddRows(row.New(4))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.itemRows(q.Items)...)

	m.AddRows(line.NewRow(2, props.Line{Color: colorSecondary, Thickness: 0.3}))
	m.AddRows(g.totalsRows(q)...)

	m.AddRows(notesRows("Notas legales", q.Terms.LegalNotes)...)
	m.AddRows(notesRows("Observaciones", q.Terms.Observations)...)
	m.AddRows(notesRows("Condiciones", q.Terms.Conditions)...)

	m.AddRows(row.New(12))
	m.AddRows(signatureRows(q.Terms.Signature)...)
	m.AddRows(line.NewRow(4, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func codeRow(code string) core.Row {
	return row.New(6).Add(
		col.New(12).Add(text.New("N° "+code, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorSecondary,
		})),
	)
}

// brandingRow: logo (si se pudo obtener) y datos de la empresa.
func (g *QuotationRenderer) brandingRow(ctx context.Context, b entity.Branding) core.Row {
	info := col.New(9).Add(
		text.New(b.Name, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
		text.New("NIT: "+nonEmpty(nit.Format(b.NIT), "—"), props.Text{Size: 8, Top: 8, Color: colorGray}),
		text.New("Dirección: "+nonEmpty(b.Address, "—"), props.Text{Size: 8, Top: 12, Color: colorGray}),
		text.New(fmt.Sprintf("Tel: %s   |   Email: %s", nonEmpty(b.Phone, "—"), nonEmpty(b.Email, "—")),
			props.Text{Size: 8, Top: 16, Color: colorGray}),
		text.New("Contacto: "+nonEmpty(b.Contact, "—"), props.Text{Size: 8, Top: 20, Color: colorGray}),
	)

	logo := col.New(3)
	if data, ext, ok := g.fetchLogo(ctx, b.LogoRef); ok {
		logo = col.New(3).Add(image.NewFromBytes(data, ext, props.Rect{Percent: 90, Center: true}))
	}
	return row.New(26).Add(logo, info)
}

func titleRow() core.Row {
	return row.New(12).Add(
		col.New(12).Add(text.New("COTIZACIÓN", props.Text{
			Style: fontstyle.Bold, Size: 16, Align: align.Center, Color: colorPrimary, Top: 3,
		})),
	)
}

// customerRows: bloque de datos del cliente en dos columnas.
func customerRows(q *entity.Quotation) []core.Row {
	date := q.Terms.Date
	if date == "" && !q.CreatedAt.IsZero() {
		date = q.CreatedAt.Format(dateLayout)
	}
	left := [][2]string{
		{"Cliente", q.Customer.Name},
		{"Correo", q.Customer.Email},
		{"Teléfono", q.Customer.Phone},
		{"Dirección", q.Customer.Address},
		{"Vendedor", q.Terms.Seller},
	}
	right := [][2]string{
		{"Fecha", date},
		{"Validez", q.Terms.Validity},
		{"Forma de pago", q.Terms.PaymentTerms},
		{"Entrega", q.Terms.DeliveryTime},
		{"Estado", q.Terms.Status},
	}

	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(text.New("DATOS DEL CLIENTE", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorWhite, Top: 1.5, Left: 2,
		}))).WithStyle(&props.Cell{BackgroundColor: colorSecondary}),
	}
	for i := range left {
		r := row.New(6).Add(
			labelCol(left[i][0]), valueCol(left[i][1]),
			labelCol(right[i][0]), valueCol(right[i][1]),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorAltRow})
		}
		rows = append(rows, r)
	}
	return rows
}

func labelCol(s string) core.Col {
	return col.New(2).Add(text.New(s+":", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 2}))
}

func valueCol(s string) core.Col {
	return col.New(4).Add(text.New(nonEmpty(s, "—"), props.Text{Size: 8, Top: 1}))
}

// tableHeaderRow: cabecera de la tabla de productos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Cant.", 1, align.Center),
		h("Precio", 2, align.Right),
		h("Desc.", 1, align.Right),
		h("IVA", 1, align.Center),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorHeaderBg})
}

// itemRows: una fila por producto con sombreado alterno. El IVA por línea es solo de presentación.
func (g *QuotationRenderer) itemRows(items []entity.QuotationItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for i, it := range items {
		d := pricing.ComputeLineDisplay(it)
		name := it.Name
		if it.Code != "" {
			name = it.Code + " · " + name
		}
		r := row.New(7).Add(
			col.New(4).Add(text.New(name, props.Text{Size: 8, Top: 1.5, Left: 1})),
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1.5})),
			col.New(2).Add(text.New(g.money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1.5, Right: 1})),
			col.New(1).Add(text.New(g.money(d.Discount), props.Text{Size: 8, Align: align.Right, Top: 1.5, Right: 1})),
			col.New(1).Add(text.New(it.TaxRate.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1.5})),
			col.New(3).Add(text.New(g.money(d.Net), props.Text{Size: 8, Align: align.Right, Top: 1.5, Right: 1})),
		)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorAltRow})
		}
		rows = append(rows, r)
	}
	return rows
}

// totalsRows: mismos valores que quedaron guardados en la cotización.
func (g *QuotationRenderer) totalsRows(q *entity.Quotation) []core.Row {
	tax := q.Total.Sub(q.Subtotal.Sub(q.Discount))
	entry := func(label, value string, grand bool) core.Row {
		style := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}
		if grand {
			style = props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Right: 1, Top: 1, Color: colorPrimary}
		}
		labelStyle := style
		labelStyle.Style = fontstyle.Bold
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, labelStyle)),
			col.New(3).Add(text.New(value, style)),
		)
	}
	return []core.Row{
		entry("Subtotal:", g.money(q.Subtotal), false),
		entry("Descuento:", g.money(q.Discount), false),
		entry(fmt.Sprintf("IVA (%s%%):", q.TaxRate.String()), g.money(tax), false),
		entry("TOTAL:", g.money(q.Total), true),
	}
}

func notesRows(title, body string) []core.Row {
	if body == "" {
		return nil
	}
	return []core.Row{
		row.New(4),
		row.New(6).Add(col.New(12).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorSecondary, Top: 1,
		}))),
		row.New().Add(col.New(12).Add(text.New(body, props.Text{Size: 8, Top: 1, Color: colorGray}))),
	}
}

func signatureRows(signature string) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(text.New("Firma del cliente: ______________________________", props.Text{
			Size: 9, Top: 2,
		}))),
	}
	if signature != "" {
		rows = append(rows, row.New(6).Add(col.New(12).Add(text.New(truncate(signature, signatureMaxLen), props.Text{
			Size: 8, Top: 1, Left: 30, Color: colorGray,
		}))))
	}
	return rows
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(footerText, props.Text{
		Size: 8, Align: align.Center, Color: colorGray, Top: 2,
	})))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *QuotationRenderer) fetchLogo(ctx context.Context, ref string) ([]byte, extension.Type, bool) {
	if g.logos == nil || ref == "" {
		return nil, "", false
	}
	data, ok := g.logos.Fetch(ctx, ref)
	if !ok || len(data) == 0 {
		return nil, "", false
	}
	switch http.DetectContentType(data) {
	case "image/png":
		return data, extension.Png, true
	case "image/jpeg":
		return data, extension.Jpg, true
	default:
		return nil, "", false
	}
}

// money formatea un valor con separador de miles y dos decimales.
func (g *QuotationRenderer) money(d decimal.Decimal) string {
	return "$" + g.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

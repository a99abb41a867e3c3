package pdf_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cotizador-api/internal/domain/entity"
	"github.com/jhoicas/Cotizador-api/internal/infrastructure/pdf"
)

type stubLogos struct {
	data  []byte
	ok    bool
	calls int
}

func (s *stubLogos) Fetch(context.Context, string) ([]byte, bool) {
	s.calls++
	return s.data, s.ok
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 26, G: 35, B: 126, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleQuotation() *entity.Quotation {
	return &entity.Quotation{
		ID:   "q-1",
		Code: "COT-1700000000",
		Customer: entity.Customer{
			Name: "Cliente Uno", Email: "cliente@x.test", Phone: "300", Address: "Calle 1",
		},
		Items: []entity.QuotationItem{
			{Name: "Tornillo", Code: "T-1", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100),
				TaxRate: decimal.NewFromInt(19)},
			{Name: "Tuerca", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(50),
				Discount: decimal.NewFromInt(5)},
		},
		Subtotal: decimal.NewFromInt(250),
		Discount: decimal.NewFromInt(20),
		TaxRate:  decimal.NewFromInt(10),
		Total:    decimal.NewFromInt(253),
		Terms: entity.QuotationTerms{
			Seller:       "Ana",
			Validity:     "15 días",
			LegalNotes:   "Precios sujetos a cambio.",
			Observations: "Entrega en bodega.",
			Signature:    "Firma con un texto bastante más largo que veinte caracteres",
		},
		CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func branding() entity.Branding {
	return entity.Branding{
		Name: "Acme SAS", NIT: "900123456", Address: "Cra 7", Phone: "601", Email: "ventas@acme.test",
		Contact: "Ana", LogoRef: "https://cdn.example/logo.png",
	}
}

func TestRender_GeneraPDFConLogo(t *testing.T) {
	logos := &stubLogos{data: tinyPNG(t), ok: true}
	r := pdf.NewQuotationRenderer(logos)

	doc, err := r.Render(context.Background(), sampleQuotation(), branding())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "el resultado debe ser un PDF")
	assert.Equal(t, 1, logos.calls)
}

func TestRender_FalloDelLogoNoEsFatal(t *testing.T) {
	cases := map[string]*stubLogos{
		"fetch fallido": {ok: false},
		"no es imagen":  {data: []byte("<html>404</html>"), ok: true},
		"sin fetcher":   nil,
	}
	for name, logos := range cases {
		t.Run(name, func(t *testing.T) {
			r := pdf.NewQuotationRenderer(nil)
			if logos != nil {
				r = pdf.NewQuotationRenderer(logos)
			}
			doc, err := r.Render(context.Background(), sampleQuotation(), branding())
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
		})
	}
}

func TestRender_SinProductosNiNotas(t *testing.T) {
	q := &entity.Quotation{Code: "COT-1", Customer: entity.Customer{Name: "X", Email: "x@x.test"}}

	doc, err := pdf.NewQuotationRenderer(nil).Render(context.Background(), q, entity.Branding{Name: "Acme"})

	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}

func TestRender_NotasLargasOcupanVariasLineas(t *testing.T) {
	q := sampleQuotation()
	q.Terms.Conditions = strings.Repeat("El cliente acepta las condiciones de entrega y garantía. ", 40)

	doc, err := pdf.NewQuotationRenderer(nil).Render(context.Background(), q, branding())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestRender_CotizacionNula(t *testing.T) {
	_, err := pdf.NewQuotationRenderer(nil).Render(context.Background(), nil, branding())
	assert.Error(t, err)
}

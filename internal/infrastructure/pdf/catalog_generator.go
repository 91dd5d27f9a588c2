// Package pdf genera el informe imprimible del catálogo de Funkos.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título                    │  Fecha + N° de Funkos  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Nombre | Categoría | Precio                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/funko-api/internal/application/dto"
	"github.com/jhoicas/funko-api/internal/application/ports"
)

var _ ports.CatalogReportGenerator = (*CatalogGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// CatalogGenerator implementa ports.CatalogReportGenerator usando Maroto v2.
type CatalogGenerator struct {
	author string
}

// NewCatalogGenerator construye el generador. author aparece en los metadatos del PDF.
func NewCatalogGenerator(author string) *CatalogGenerator {
	return &CatalogGenerator{author: author}
}

// GenerateCatalog genera el PDF y devuelve sus bytes.
func (g *CatalogGenerator) GenerateCatalog(report dto.CatalogReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(report.Title, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	if len(report.Items) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("No hay Funkos en el catálogo.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	m.AddRows(tableDetailRows(report.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(report.Total))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(report dto.CatalogReport) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(5).Add(
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d Funkos", len(report.Items)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 8,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 1, align.Center),
		h("Nombre", 5, align.Left),
		h("Categoría", 3, align.Left),
		h("Precio", 3, align.Right),
	)
}

func tableDetailRows(items []dto.ItemResponse) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		category := "—"
		if it.Category != nil {
			category = it.Category.Name
		}
		r := row.New(7).Add(
			col.New(1).Add(text.New(strconv.FormatInt(it.ID, 10), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(3).Add(text.New(category, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(3).Add(text.New(formatPrice(it.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		)
		if i%2 == 1 {
			r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
		}
		result = append(result, r)
	}
	return result
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(3).Add(text.New(formatPrice(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatPrice formatea con separador de miles "." y decimales ",".
// Ej: 1234.5 → "1.234,50 €"
func formatPrice(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + groupThousands(intPart) + "," + frac + " €"
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

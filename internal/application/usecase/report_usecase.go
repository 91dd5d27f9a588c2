package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/funko-api/internal/application/dto"
	"github.com/jhoicas/funko-api/internal/application/ports"
)

// ReportUseCase genera el informe PDF del catálogo a partir del listado (cacheado) de Funkos.
type ReportUseCase struct {
	items     *ItemUseCase
	generator ports.CatalogReportGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(items *ItemUseCase, generator ports.CatalogReportGenerator) *ReportUseCase {
	return &ReportUseCase{items: items, generator: generator}
}

// CatalogPDF devuelve el PDF con los Funkos ordenados alfabéticamente (reglas del español).
func (uc *ReportUseCase) CatalogPDF(ctx context.Context) ([]byte, error) {
	items, err := uc.items.List(ctx)
	if err != nil {
		return nil, err
	}

	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		return col.CompareString(items[i].Name, items[j].Name) < 0
	})

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price)
	}

	pdf, err := uc.generator.GenerateCatalog(dto.CatalogReport{
		Title:       "Catálogo de Funkos",
		GeneratedAt: time.Now(),
		Items:       items,
		Total:       total,
	})
	if err != nil {
		return nil, fmt.Errorf("generate catalog pdf: %w", err)
	}
	return pdf, nil
}

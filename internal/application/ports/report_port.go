package ports

import "github.com/jhoicas/funko-api/internal/application/dto"

// CatalogReportGenerator renderiza el listado del catálogo (PDF).
type CatalogReportGenerator interface {
	GenerateCatalog(report dto.CatalogReport) ([]byte, error)
}

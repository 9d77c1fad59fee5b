package inventory

import (
	"context"

	"github.com/piccolaroma/cadena-api/internal/application/dto"
	"github.com/piccolaroma/cadena-api/internal/domain/repository"
)

// SummaryPDFGenerator renderiza el reporte de inventario (puerto; la
// implementación con Maroto vive en infrastructure/pdf).
type SummaryPDFGenerator interface {
	GenerateSummaryPDF(
		ctx context.Context,
		branchName string,
		summary dto.InventorySummaryResponse,
		lowStock []dto.InventoryRecordResponse,
	) ([]byte, error)
}

// Projector expone consultas de solo lectura sobre el inventario: stock bajo
// mínimo y agregados por sucursal. Nunca invoca al motor de movimientos.
type Projector struct {
	projRepo   repository.InventoryProjectionRepository
	branchRepo repository.BranchRepository
	pdfGen     SummaryPDFGenerator
}

// NewProjector construye el proyector.
func NewProjector(
	projRepo repository.InventoryProjectionRepository,
	branchRepo repository.BranchRepository,
	pdfGen SummaryPDFGenerator,
) *Projector {
	return &Projector{projRepo: projRepo, branchRepo: branchRepo, pdfGen: pdfGen}
}

// ListLowStock devuelve los registros con cantidad por debajo de su mínimo,
// ordenados ascendente por cantidad. branchID vacío = toda la cadena.
func (p *Projector) ListLowStock(ctx context.Context, branchID string) ([]dto.InventoryRecordResponse, error) {
	list, err := p.projRepo.ListLowStock(ctx, branchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryRecordResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRecordResponse(r))
	}
	return out, nil
}

// Summarize agrega cantidad total, valor total (Σ cantidad × costo unitario),
// registros bajo umbral y registros en cero.
func (p *Projector) Summarize(ctx context.Context, branchID string) (*dto.InventorySummaryResponse, error) {
	s, err := p.projRepo.Summarize(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return &dto.InventorySummaryResponse{
		BranchID:       branchID,
		TotalQuantity:  s.TotalQuantity,
		TotalValue:     s.TotalValue,
		BelowThreshold: s.BelowThreshold,
		ZeroStock:      s.ZeroStock,
		RecordCount:    s.RecordCount,
	}, nil
}

// SummaryPDF genera el reporte PDF del estado de inventario de una sucursal
// (resumen + detalle de stock bajo mínimo).
func (p *Projector) SummaryPDF(ctx context.Context, branchID string) ([]byte, error) {
	branchName := "Toda la cadena"
	if branchID != "" {
		branch, err := p.branchRepo.GetByID(branchID)
		if err != nil {
			return nil, err
		}
		if branch != nil {
			branchName = branch.Name
		}
	}
	summary, err := p.Summarize(ctx, branchID)
	if err != nil {
		return nil, err
	}
	lowStock, err := p.ListLowStock(ctx, branchID)
	if err != nil {
		return nil, err
	}
	return p.pdfGen.GenerateSummaryPDF(ctx, branchName, *summary, lowStock)
}

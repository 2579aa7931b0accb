package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/salones-api/internal/domain/entity"
)

// InventoryReport foto del inventario para el reporte PDF.
type InventoryReport struct {
	GeneratedAt time.Time
	Central     []*entity.CentralStock
	Venues      []*entity.VenueStock
	Alerts      int
}

// ReportRenderer convierte el reporte a un documento (PDF).
type ReportRenderer interface {
	RenderInventory(ctx context.Context, r *InventoryReport) ([]byte, error)
}

// Snapshot reúne central, salones y el número de filas bajo mínimo.
func (uc *LedgerUseCase) Snapshot(ctx context.Context) (*InventoryReport, error) {
	central, err := uc.central.List(ctx)
	if err != nil {
		return nil, err
	}
	venues, err := uc.venueStock.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	r := &InventoryReport{GeneratedAt: time.Now(), Central: central, Venues: venues}
	for _, c := range central {
		if c.NeedsRestock() {
			r.Alerts++
		}
	}
	for _, v := range venues {
		if v.NeedsRestock() {
			r.Alerts++
		}
	}
	return r, nil
}

// Report genera el documento del inventario actual.
func (uc *LedgerUseCase) Report(ctx context.Context, renderer ReportRenderer) ([]byte, error) {
	snap, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return renderer.RenderInventory(ctx, snap)
}

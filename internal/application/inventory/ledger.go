package inventory

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

const (
	reasonRestock = "Entrada de proveedor"
	reasonAdjust  = "Actualización manual de inventario"
)

// LedgerUseCase consultas del inventario y movimientos que no son transferencias
// (entradas de proveedor y ajustes manuales del central).
type LedgerUseCase struct {
	tx         TxRunner
	central    repository.CentralStockRepository
	venueStock repository.VenueStockRepository
	movements  repository.MovementRepository
	notify     notifier
}

// NewLedgerUseCase construye el caso de uso. publisher puede ser nil.
func NewLedgerUseCase(
	tx TxRunner,
	central repository.CentralStockRepository,
	venueStock repository.VenueStockRepository,
	movements repository.MovementRepository,
	publisher EventPublisher,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		tx:         tx,
		central:    central,
		venueStock: venueStock,
		movements:  movements,
		notify:     notifier{pub: publisher, log: log},
	}
}

func (uc *LedgerUseCase) ListCentral(ctx context.Context) ([]*entity.CentralStock, error) {
	return uc.central.List(ctx)
}

func (uc *LedgerUseCase) GetCentral(ctx context.Context, itemID int64) (*entity.CentralStock, error) {
	s, err := uc.central.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// ListVenueStock stock de un salón o de todos (venueID nil).
func (uc *LedgerUseCase) ListVenueStock(ctx context.Context, venueID *int64) ([]*entity.VenueStock, error) {
	return uc.venueStock.List(ctx, venueID)
}

// Alerts artículos por debajo del mínimo.
type Alerts struct {
	Central []*entity.CentralStock
	Venues  []*entity.VenueStock
}

func (uc *LedgerUseCase) Alerts(ctx context.Context) (*Alerts, error) {
	central, err := uc.central.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	venues, err := uc.venueStock.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	return &Alerts{Central: central, Venues: venues}, nil
}

func (uc *LedgerUseCase) ListMovements(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	return uc.movements.List(ctx, f)
}

// Restock entrada de proveedor al almacén central.
func (uc *LedgerUseCase) Restock(ctx context.Context, itemID int64, qty decimal.Decimal, reason string, userID *int64) (*entity.CentralStock, error) {
	if itemID <= 0 || !qty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	if reason == "" {
		reason = reasonRestock
	}
	var (
		mov   *entity.Movement
		after *entity.CentralStock
	)
	err := uc.tx.Run(ctx, func(
		central repository.CentralStockRepository,
		_ repository.VenueStockRepository,
		movements repository.MovementRepository,
	) error {
		if err := central.Increment(ctx, itemID, qty); err != nil {
			return err
		}
		mov = &entity.Movement{
			ItemID:      itemID,
			Kind:        entity.MovementEntry,
			Origin:      entity.LocationSupplier,
			Destination: entity.LocationCentral,
			Quantity:    qty,
			Reason:      reason,
			UserID:      userID,
		}
		if err := movements.Append(ctx, mov); err != nil {
			return err
		}
		s, err := central.Get(ctx, itemID)
		after = s
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notify.movement(ctx, mov)
	return after, nil
}

// AdjustInput ajuste absoluto del central; campos nil no cambian.
type AdjustInput struct {
	ItemID      int64
	Quantity    *decimal.Decimal
	MinQuantity *decimal.Decimal
	UserID      *int64
}

// AdjustCentral fija cantidad y/o mínimo. La diferencia queda en el libro como entrada o salida.
func (uc *LedgerUseCase) AdjustCentral(ctx context.Context, in AdjustInput) (*entity.CentralStock, error) {
	if in.ItemID <= 0 || (in.Quantity == nil && in.MinQuantity == nil) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity != nil && in.Quantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.MinQuantity != nil && in.MinQuantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var (
		mov   *entity.Movement
		after *entity.CentralStock
	)
	err := uc.tx.Run(ctx, func(
		central repository.CentralStockRepository,
		_ repository.VenueStockRepository,
		movements repository.MovementRepository,
	) error {
		current, err := central.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		qty, minQty := current.Quantity, current.MinQuantity
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		if in.MinQuantity != nil {
			minQty = *in.MinQuantity
		}
		if err := central.Set(ctx, in.ItemID, qty, minQty); err != nil {
			return err
		}

		if delta := qty.Sub(current.Quantity); !delta.IsZero() {
			mov = &entity.Movement{
				ItemID:      in.ItemID,
				Kind:        entity.MovementEntry,
				Origin:      entity.LocationCentral,
				Destination: entity.LocationCentral,
				Quantity:    delta.Abs(),
				Reason:      reasonAdjust,
				UserID:      in.UserID,
			}
			if delta.IsNegative() {
				mov.Kind = entity.MovementExit
			}
			if err := movements.Append(ctx, mov); err != nil {
				return err
			}
		}
		after = &entity.CentralStock{
			ID: current.ID, ItemID: current.ItemID, ItemName: current.ItemName,
			Quantity: qty, MinQuantity: minQty, UpdatedAt: current.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notify.movement(ctx, mov)
	return after, nil
}

package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/domain/entity"
)

// InventoryItemRepository catálogo de artículos (solo lectura).
type InventoryItemRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error)
	List(ctx context.Context) ([]*entity.InventoryItem, error)
}

// CentralStockRepository puerto del almacén central. Usado con pool o dentro de una tx.
type CentralStockRepository interface {
	Get(ctx context.Context, itemID int64) (*entity.CentralStock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); nil si el artículo no tiene fila.
	GetForUpdate(ctx context.Context, itemID int64) (*entity.CentralStock, error)
	List(ctx context.Context) ([]*entity.CentralStock, error)
	// ListAvailable filas con cantidad > 0, ordenadas por item_id.
	ListAvailable(ctx context.Context) ([]*entity.CentralStock, error)
	ListBelowMinimum(ctx context.Context) ([]*entity.CentralStock, error)
	// Decrement resta amount solo si quantity >= amount; si no aplica devuelve domain.ErrConflict.
	Decrement(ctx context.Context, itemID int64, amount decimal.Decimal) error
	Increment(ctx context.Context, itemID int64, amount decimal.Decimal) error
	Set(ctx context.Context, itemID int64, quantity, minQuantity decimal.Decimal) error
}

// VenueStockRepository puerto del stock por salón.
type VenueStockRepository interface {
	// AddQuantity suma amount; crea la fila con minQuantity si no existe.
	AddQuantity(ctx context.Context, venueID, itemID int64, amount, minQuantity decimal.Decimal) error
	Get(ctx context.Context, venueID, itemID int64) (*entity.VenueStock, error)
	// List filtra por salón si venueID no es nil.
	List(ctx context.Context, venueID *int64) ([]*entity.VenueStock, error)
	ListBelowMinimum(ctx context.Context) ([]*entity.VenueStock, error)
}

// MovementRepository libro de movimientos: solo Append y consultas.
type MovementRepository interface {
	Append(ctx context.Context, m *entity.Movement) error
	List(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error)
}

// VenueRepository salones.
type VenueRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.Venue, error)
	GetByName(ctx context.Context, name string) (*entity.Venue, error)
	List(ctx context.Context) ([]*entity.Venue, error)
}

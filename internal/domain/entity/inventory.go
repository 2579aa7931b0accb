package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementTransfer   = "transferencia"
	MovementEntry      = "entrada"
	MovementExit       = "salida"
	MovementAssignment = "asignacion"
	MovementReturn     = "devolucion"
)

// Orígenes y destinos fijos de los movimientos.
const (
	LocationCentral  = "central"
	LocationSupplier = "proveedor"
)

// Mínimos por defecto.
var (
	DefaultCentralMinimum = decimal.NewFromInt(20)
	DefaultVenueMinimum   = decimal.NewFromInt(10)
)

// InventoryItem artículo de inventario (referencia inmutable).
type InventoryItem struct {
	ID       int64
	Name     string
	Unit     string
	Category string
	Active   bool
}

// CentralStock cantidad de un artículo en el almacén central. Nunca negativa.
type CentralStock struct {
	ID          int64
	ItemID      int64
	ItemName    string
	Quantity    decimal.Decimal
	MinQuantity decimal.Decimal
	UpdatedAt   time.Time
}

// NeedsRestock indica si la cantidad está por debajo del mínimo.
func (s *CentralStock) NeedsRestock() bool {
	return s.Quantity.LessThan(s.MinQuantity)
}

// VenueStock cantidad de un artículo en un salón. Se crea en la primera asignación.
type VenueStock struct {
	ID          int64
	VenueID     int64
	VenueName   string
	ItemID      int64
	ItemName    string
	Quantity    decimal.Decimal
	MinQuantity decimal.Decimal
	UpdatedAt   time.Time
}

func (s *VenueStock) NeedsRestock() bool {
	return s.Quantity.LessThan(s.MinQuantity)
}

// Movement registro del libro de movimientos (solo inserción).
type Movement struct {
	ID            int64
	TransactionID string
	ItemID        int64
	Kind          string
	Origin        string
	Destination   string
	Quantity      decimal.Decimal
	Reason        string
	ContractID    *int64
	UserID        *int64
	CreatedAt     time.Time
}

// MovementFilter filtros para consultar el libro.
type MovementFilter struct {
	ItemID *int64
	Kind   string
	From   *time.Time
	To     *time.Time
	Limit  int
}

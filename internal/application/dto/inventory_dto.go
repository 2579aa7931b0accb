package dto

import "github.com/shopspring/decimal"

// TransferRequest body para POST /api/inventario/transferencia.
type TransferRequest struct {
	ItemID   int64           `json:"item_id"`
	VenueID  int64           `json:"salon_id"`
	Quantity decimal.Decimal `json:"cantidad"`
	Reason   string          `json:"motivo,omitempty"`
}

// SupplyItem un artículo dentro de SupplyVenueRequest.
type SupplyItem struct {
	ItemID   int64           `json:"item_id"`
	Quantity decimal.Decimal `json:"cantidad"`
}

// SupplyVenueRequest body para POST /api/inventario/abastecer-salon.
type SupplyVenueRequest struct {
	VenueID int64        `json:"salon_id"`
	Items   []SupplyItem `json:"items"`
	Reason  string       `json:"motivo,omitempty"`
}

// SupplyVenuesRequest body para POST /api/inventario/abastecer-salones.
// Campos vacíos toman la configuración (ALLOCATION_VENUES, ALLOCATION_PER_VENUE_QTY).
type SupplyVenuesRequest struct {
	Venues   []string         `json:"salones,omitempty"`
	Quantity *decimal.Decimal `json:"cantidad,omitempty"`
}

// RestockRequest body para POST /api/inventario/central/:itemId/entrada.
type RestockRequest struct {
	Quantity decimal.Decimal `json:"cantidad"`
	Reason   string          `json:"motivo,omitempty"`
}

// AdjustCentralRequest body para PUT /api/inventario/central/:itemId. Campos nulos no cambian.
type AdjustCentralRequest struct {
	Quantity    *decimal.Decimal `json:"cantidad_actual,omitempty"`
	MinQuantity *decimal.Decimal `json:"cantidad_minima,omitempty"`
}

// StockRow fila de stock con la marca de reposición calculada.
type StockRow struct {
	ItemID       int64           `json:"item_id"`
	ItemName     string          `json:"item_nombre"`
	VenueID      int64           `json:"salon_id,omitempty"`
	VenueName    string          `json:"salon_nombre,omitempty"`
	Quantity     decimal.Decimal `json:"cantidad_actual"`
	MinQuantity  decimal.Decimal `json:"cantidad_minima"`
	NeedsRestock bool            `json:"necesita_reposicion"`
}

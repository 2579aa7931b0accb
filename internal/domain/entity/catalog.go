package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Venue salón de eventos.
type Venue struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Package paquete de evento.
type Package struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Active      bool            `json:"active"`
}

// Service servicio vendible suelto o dentro de un paquete.
type Service struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Category    string          `json:"category"`
	Active      bool            `json:"active"`
}

// Season temporada con ajuste de precio.
type Season struct {
	ID              int64
	Name            string
	PriceAdjustment decimal.Decimal
	Description     string
	Active          bool
}

// PackageService servicio incluido en un paquete.
type PackageService struct {
	ID        int64
	PackageID int64
	ServiceID int64
	Quantity  int
}

// PackageVenue precio de un paquete en un salón concreto.
type PackageVenue struct {
	ID        int64
	PackageID int64
	VenueID   int64
	BasePrice decimal.Decimal
	MinGuests int
	Available bool
}

// PriceHistory cambio de precio de un servicio o paquete.
type PriceHistory struct {
	ID        int64
	ServiceID *int64
	PackageID *int64
	OldPrice  decimal.Decimal
	NewPrice  decimal.Decimal
	ChangedAt time.Time
}

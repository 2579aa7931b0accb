package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lead contacto comercial antes de convertirse en cliente.
type Lead struct {
	ID       int64
	Name     string
	Email    string
	Phone    string
	Status   string
	ClientID *int64
}

type Client struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// Offer oferta enviada a un cliente.
type Offer struct {
	ID        int64
	ClientID  int64
	PackageID int64
	VenueID   int64
	Total     decimal.Decimal
	Status    string
}

// Contract contrato firmado; puede venir de una oferta.
type Contract struct {
	ID        int64
	Code      string
	ClientID  int64
	OfferID   *int64
	PackageID int64
	VenueID   int64
	EventDate time.Time
	Status    string
	Total     decimal.Decimal
}

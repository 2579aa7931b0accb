package main

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/application/catalog"
)

type rename struct {
	From, To, Description string
}

type season struct {
	Name        string
	Adjustment  decimal.Decimal
	Description string
}

type servicePrice struct {
	Name  string
	Price decimal.Decimal
}

var renames = []rename{
	{From: "Personal de Servicio", To: "Personal de Atención", Description: "Meseros y personal de atención"},
	{From: "Decoración Básica", To: "Decoracion House"},
	{From: "Licor Básico", To: "Licor House"},
}

var seasons = []season{
	{Name: "Alta", Adjustment: decimal.NewFromInt(1000), Description: "Temporada Alta - Ajuste de +$1,000"},
	{Name: "Media", Adjustment: decimal.Zero, Description: "Temporada Media - Sin ajuste de precio"},
}

var servicePrices = []servicePrice{
	{Name: "Mini Dulces", Price: decimal.NewFromInt(36)},
}

type venueRow struct {
	price     int64
	minGuests int
	available bool
}

var packageOrder = []string{"Especial", "Platinum", "Diamond", "Deluxe", "Personalizado"}

var venueTiers = map[string]map[string]venueRow{
	"Diamond": {
		"Especial":      {3500, 80, true},
		"Platinum":      {7500, 80, true},
		"Diamond":       {10500, 80, true},
		"Deluxe":        {12500, 80, true},
		"Personalizado": {6000, 50, true},
	},
	"Kendall": {
		"Especial":      {2500, 60, true},
		"Platinum":      {4200, 60, true},
		"Diamond":       {5500, 60, true},
		"Deluxe":        {0, 60, false},
		"Personalizado": {3500, 60, true},
	},
	"Doral": {
		"Especial":      {2500, 60, true},
		"Platinum":      {4200, 60, true},
		"Diamond":       {5500, 60, true},
		"Deluxe":        {0, 60, false},
		"Personalizado": {3500, 60, true},
	},
}

var venueOrder = []string{"Diamond", "Kendall", "Doral"}

// venuePackageMatrix filas salón×paquete en orden estable.
func venuePackageMatrix() []catalog.VenuePackagePrice {
	out := make([]catalog.VenuePackagePrice, 0, len(venueOrder)*len(packageOrder))
	for _, v := range venueOrder {
		for _, p := range packageOrder {
			r := venueTiers[v][p]
			out = append(out, catalog.VenuePackagePrice{
				Venue: v, Package: p,
				Price: decimal.NewFromInt(r.price), MinGuests: r.minGuests, Available: r.available,
			})
		}
	}
	return out
}

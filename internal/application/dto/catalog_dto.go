package dto

import "github.com/shopspring/decimal"

// RenameServiceRequest body para PUT /api/catalogo/servicios/renombrar.
type RenameServiceRequest struct {
	Name        string `json:"nombre"`
	NewName     string `json:"nuevo_nombre"`
	Description string `json:"descripcion,omitempty"`
}

// ServicePriceRequest body para PUT /api/catalogo/servicios/precio.
type ServicePriceRequest struct {
	Name  string          `json:"nombre"`
	Price decimal.Decimal `json:"precio"`
}

// AttachServiceRequest body para PUT /api/catalogo/paquetes/:paquete/servicios/:servicio.
type AttachServiceRequest struct {
	Quantity int `json:"cantidad"`
}

// VenuePackagePriceRequest body para PUT /api/catalogo/salones/:salon/paquetes/:paquete.
type VenuePackagePriceRequest struct {
	Price     decimal.Decimal `json:"precio_base"`
	MinGuests int             `json:"min_invitados"`
	Available *bool           `json:"disponible,omitempty"`
}

// OutcomeResponse resultado de un upsert: creado, actualizado o sin_cambios.
type OutcomeResponse struct {
	Outcome string `json:"resultado"`
}

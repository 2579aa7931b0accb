package http

import (
	"context"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/salones-api/internal/application/catalog"
	"github.com/jhoicas/salones-api/internal/application/dto"
	"github.com/jhoicas/salones-api/internal/domain/entity"
)

type catalogService interface {
	ListServices(ctx context.Context) ([]*entity.Service, error)
	ListPackages(ctx context.Context) ([]*entity.Package, error)
	RenameService(ctx context.Context, oldName, newName, description string) (int64, error)
	SetServicePrice(ctx context.Context, name string, price decimal.Decimal) (int64, error)
	AttachService(ctx context.Context, pkgName, svcName string, qty int) (catalog.Outcome, error)
	DetachService(ctx context.Context, pkgName, svcName string) (int64, error)
	UpsertVenuePackagePrice(ctx context.Context, in catalog.VenuePackagePrice) (catalog.Outcome, error)
}

// CatalogHandler lectura y mantenimiento del catálogo por nombre.
type CatalogHandler struct {
	uc catalogService
}

func NewCatalogHandler(uc catalogService) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// catalogName forma NFC sin espacios extremos; los nombres guardados están en NFC y un
// cliente puede enviar "Atención" descompuesto.
func catalogName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// nameParam parámetro de ruta con nombre (puede venir codificado: "Paquete%20Especial").
func nameParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}
	return catalogName(raw)
}

// ListServices godoc
// @Summary      Servicios del catálogo
// @Tags         catalogo
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Service
// @Router       /api/catalogo/servicios [get]
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	list, err := h.uc.ListServices(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// ListPackages godoc
// @Summary      Paquetes del catálogo
// @Tags         catalogo
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  entity.Package
// @Router       /api/catalogo/paquetes [get]
func (h *CatalogHandler) ListPackages(c *fiber.Ctx) error {
	list, err := h.uc.ListPackages(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// RenameService godoc
// @Summary      Renombrar servicio
// @Tags         catalogo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RenameServiceRequest  true  "nombre, nuevo_nombre, descripcion"
// @Success      200  {object}  dto.AffectedResponse
// @Router       /api/catalogo/servicios/renombrar [put]
func (h *CatalogHandler) RenameService(c *fiber.Ctx) error {
	var in dto.RenameServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	n, err := h.uc.RenameService(c.UserContext(), catalogName(in.Name), catalogName(in.NewName), in.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AffectedResponse{Affected: n})
}

// SetServicePrice godoc
// @Summary      Fijar precio base de un servicio
// @Tags         catalogo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ServicePriceRequest  true  "nombre, precio"
// @Success      200  {object}  dto.AffectedResponse
// @Router       /api/catalogo/servicios/precio [put]
func (h *CatalogHandler) SetServicePrice(c *fiber.Ctx) error {
	var in dto.ServicePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	n, err := h.uc.SetServicePrice(c.UserContext(), catalogName(in.Name), in.Price)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AffectedResponse{Affected: n})
}

// AttachService godoc
// @Summary      Incluir servicio en paquete
// @Tags         catalogo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        paquete   path  string                    true  "Nombre del paquete"
// @Param        servicio  path  string                    true  "Nombre del servicio"
// @Param        body      body  dto.AttachServiceRequest  false "cantidad"
// @Success      200  {object}  dto.OutcomeResponse
// @Router       /api/catalogo/paquetes/{paquete}/servicios/{servicio} [put]
func (h *CatalogHandler) AttachService(c *fiber.Ctx) error {
	var in dto.AttachServiceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.AttachService(c.UserContext(), nameParam(c, "paquete"), nameParam(c, "servicio"), in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OutcomeResponse{Outcome: string(out)})
}

// DetachService godoc
// @Summary      Quitar servicio de paquete
// @Tags         catalogo
// @Security     Bearer
// @Produce      json
// @Param        paquete   path  string  true  "Nombre del paquete"
// @Param        servicio  path  string  true  "Nombre del servicio"
// @Success      200  {object}  dto.AffectedResponse
// @Router       /api/catalogo/paquetes/{paquete}/servicios/{servicio} [delete]
func (h *CatalogHandler) DetachService(c *fiber.Ctx) error {
	n, err := h.uc.DetachService(c.UserContext(), nameParam(c, "paquete"), nameParam(c, "servicio"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.AffectedResponse{Affected: n})
}

// UpsertVenuePackagePrice godoc
// @Summary      Precio de un paquete en un salón
// @Tags         catalogo
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        salon    path  string                        true  "Nombre del salón"
// @Param        paquete  path  string                        true  "Nombre del paquete"
// @Param        body     body  dto.VenuePackagePriceRequest  true  "precio_base, min_invitados, disponible"
// @Success      200  {object}  dto.OutcomeResponse
// @Router       /api/catalogo/salones/{salon}/paquetes/{paquete} [put]
func (h *CatalogHandler) UpsertVenuePackagePrice(c *fiber.Ctx) error {
	var in dto.VenuePackagePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	available := true
	if in.Available != nil {
		available = *in.Available
	}
	out, err := h.uc.UpsertVenuePackagePrice(c.UserContext(), catalog.VenuePackagePrice{
		Venue: nameParam(c, "salon"), Package: nameParam(c, "paquete"),
		Price: in.Price, MinGuests: in.MinGuests, Available: available,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OutcomeResponse{Outcome: string(out)})
}

package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/application/dto"
	"github.com/jhoicas/salones-api/internal/application/inventory"
	"github.com/jhoicas/salones-api/internal/domain/entity"
)

// allocator lo que el handler usa de inventory.AllocationUseCase.
type allocator interface {
	Transfer(ctx context.Context, in inventory.TransferInput) (*inventory.AllocationResult, error)
	SupplyVenue(ctx context.Context, venueID int64, items []inventory.ItemQuantity, reason string, userID *int64) (*inventory.SupplyResult, error)
	SupplyVenues(ctx context.Context, venueNames []string, perItemQty decimal.Decimal) (*inventory.BatchReport, error)
}

// ledger lo que el handler usa de inventory.LedgerUseCase.
type ledger interface {
	ListCentral(ctx context.Context) ([]*entity.CentralStock, error)
	GetCentral(ctx context.Context, itemID int64) (*entity.CentralStock, error)
	ListVenueStock(ctx context.Context, venueID *int64) ([]*entity.VenueStock, error)
	Alerts(ctx context.Context) (*inventory.Alerts, error)
	ListMovements(ctx context.Context, f entity.MovementFilter) ([]*entity.Movement, error)
	Restock(ctx context.Context, itemID int64, qty decimal.Decimal, reason string, userID *int64) (*entity.CentralStock, error)
	AdjustCentral(ctx context.Context, in inventory.AdjustInput) (*entity.CentralStock, error)
	Report(ctx context.Context, renderer inventory.ReportRenderer) ([]byte, error)
}

// BatchDefaults salones y cantidad del abastecimiento masivo cuando el body no los trae.
type BatchDefaults struct {
	Venues     []string
	PerItemQty decimal.Decimal
}

// InventoryHandler inventario central, de salones y movimientos (protegido).
type InventoryHandler struct {
	alloc    allocator
	ledger   ledger
	renderer inventory.ReportRenderer
	batch    BatchDefaults
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(alloc allocator, l ledger, renderer inventory.ReportRenderer, batch BatchDefaults) *InventoryHandler {
	return &InventoryHandler{alloc: alloc, ledger: l, renderer: renderer, batch: batch}
}

func centralRow(s *entity.CentralStock) dto.StockRow {
	return dto.StockRow{
		ItemID: s.ItemID, ItemName: s.ItemName,
		Quantity: s.Quantity, MinQuantity: s.MinQuantity, NeedsRestock: s.NeedsRestock(),
	}
}

func venueRow(s *entity.VenueStock) dto.StockRow {
	return dto.StockRow{
		ItemID: s.ItemID, ItemName: s.ItemName, VenueID: s.VenueID, VenueName: s.VenueName,
		Quantity: s.Quantity, MinQuantity: s.MinQuantity, NeedsRestock: s.NeedsRestock(),
	}
}

// ListCentral godoc
// @Summary      Inventario del almacén central
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.StockRow
// @Router       /api/inventario/central [get]
func (h *InventoryHandler) ListCentral(c *fiber.Ctx) error {
	list, err := h.ledger.ListCentral(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockRow, 0, len(list))
	for _, s := range list {
		out = append(out, centralRow(s))
	}
	return c.JSON(out)
}

// GetCentral godoc
// @Summary      Artículo del almacén central
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  int  true  "ID del artículo"
// @Success      200  {object}  dto.StockRow
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventario/central/{itemId} [get]
func (h *InventoryHandler) GetCentral(c *fiber.Ctx) error {
	id, ok := paramID(c, "itemId")
	if !ok {
		return badParam(c, "itemId")
	}
	s, err := h.ledger.GetCentral(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(centralRow(s))
}

// AdjustCentral godoc
// @Summary      Ajuste manual del almacén central
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  int                       true  "ID del artículo"
// @Param        body    body  dto.AdjustCentralRequest  true  "cantidad_actual y/o cantidad_minima"
// @Success      200  {object}  dto.StockRow
// @Router       /api/inventario/central/{itemId} [put]
func (h *InventoryHandler) AdjustCentral(c *fiber.Ctx) error {
	id, ok := paramID(c, "itemId")
	if !ok {
		return badParam(c, "itemId")
	}
	var in dto.AdjustCentralRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.ledger.AdjustCentral(c.UserContext(), inventory.AdjustInput{
		ItemID: id, Quantity: in.Quantity, MinQuantity: in.MinQuantity, UserID: userRef(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(centralRow(s))
}

// Restock godoc
// @Summary      Entrada de proveedor al almacén central
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  int                 true  "ID del artículo"
// @Param        body    body  dto.RestockRequest  true  "cantidad, motivo"
// @Success      201  {object}  dto.StockRow
// @Router       /api/inventario/central/{itemId}/entrada [post]
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	id, ok := paramID(c, "itemId")
	if !ok {
		return badParam(c, "itemId")
	}
	var in dto.RestockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.ledger.Restock(c.UserContext(), id, in.Quantity, in.Reason, userRef(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(centralRow(s))
}

// ListVenueStock godoc
// @Summary      Inventario de salones
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        salon_id  query  int  false  "Filtrar por salón"
// @Success      200  {array}   dto.StockRow
// @Router       /api/inventario/salones [get]
func (h *InventoryHandler) ListVenueStock(c *fiber.Ctx) error {
	var venueID *int64
	if c.Query("salon_id") != "" {
		id := int64(c.QueryInt("salon_id"))
		if id <= 0 {
			return badParam(c, "salon_id")
		}
		venueID = &id
	}
	list, err := h.ledger.ListVenueStock(c.UserContext(), venueID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockRow, 0, len(list))
	for _, s := range list {
		out = append(out, venueRow(s))
	}
	return c.JSON(out)
}

// Transfer godoc
// @Summary      Transferir del almacén central a un salón
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "item_id, salon_id, cantidad, motivo"
// @Success      201  {object}  inventory.AllocationResult
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/transferencia [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.alloc.Transfer(c.UserContext(), inventory.TransferInput{
		ItemID: in.ItemID, VenueID: in.VenueID, Quantity: in.Quantity, Reason: in.Reason, UserID: userRef(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// SupplyVenue godoc
// @Summary      Abastecer un salón con varios artículos
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplyVenueRequest  true  "salon_id, items, motivo"
// @Success      200  {object}  inventory.SupplyResult
// @Router       /api/inventario/abastecer-salon [post]
func (h *InventoryHandler) SupplyVenue(c *fiber.Ctx) error {
	var in dto.SupplyVenueRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	items := make([]inventory.ItemQuantity, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventory.ItemQuantity{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	res, err := h.alloc.SupplyVenue(c.UserContext(), in.VenueID, items, in.Reason, userRef(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// SupplyVenues godoc
// @Summary      Abastecimiento masivo de salones
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplyVenuesRequest  false  "salones, cantidad"
// @Success      200  {object}  inventory.BatchReport
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventario/abastecer-salones [post]
func (h *InventoryHandler) SupplyVenues(c *fiber.Ctx) error {
	var in dto.SupplyVenuesRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	venues, qty := h.batch.Venues, h.batch.PerItemQty
	if len(in.Venues) > 0 {
		venues = in.Venues
	}
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	report, err := h.alloc.SupplyVenues(c.UserContext(), venues, qty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// ListMovements godoc
// @Summary      Movimientos de inventario (más recientes primero)
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  int     false  "Artículo"
// @Param        tipo     query  string  false  "transferencia | entrada | salida | asignacion | devolucion"
// @Param        desde    query  string  false  "RFC3339"
// @Param        hasta    query  string  false  "RFC3339"
// @Param        limit    query  int     false  "máximo 100"
// @Success      200  {array}   entity.Movement
// @Router       /api/inventario/movimientos [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	f := entity.MovementFilter{Kind: c.Query("tipo"), Limit: c.QueryInt("limit", 50)}
	if id := int64(c.QueryInt("item_id")); id > 0 {
		f.ItemID = &id
	}
	for key, dst := range map[string]**time.Time{"desde": &f.From, "hasta": &f.To} {
		if raw := c.Query(key); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return badParam(c, key)
			}
			*dst = &t
		}
	}
	list, err := h.ledger.ListMovements(c.UserContext(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Alerts godoc
// @Summary      Artículos bajo el mínimo
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string][]dto.StockRow
// @Router       /api/inventario/alertas [get]
func (h *InventoryHandler) Alerts(c *fiber.Ctx) error {
	a, err := h.ledger.Alerts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	central := make([]dto.StockRow, 0, len(a.Central))
	for _, s := range a.Central {
		central = append(central, centralRow(s))
	}
	venues := make([]dto.StockRow, 0, len(a.Venues))
	for _, s := range a.Venues {
		venues = append(venues, venueRow(s))
	}
	return c.JSON(fiber.Map{"central": central, "salones": venues, "total": len(central) + len(venues)})
}

// Report godoc
// @Summary      Reporte PDF del inventario
// @Tags         inventario
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/inventario/reporte.pdf [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.ledger.Report(c.UserContext(), h.renderer)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="inventario.pdf"`)
	return c.Send(pdf)
}

package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/salones-api/internal/application/dedup"
	"github.com/jhoicas/salones-api/internal/application/maintenance"
	"github.com/jhoicas/salones-api/internal/domain/schema"
)

type duplicateService interface {
	Find(ctx context.Context, entity string) ([]dedup.Group, error)
	Resolve(ctx context.Context, entity string) (*dedup.Report, error)
}

type cleanupService interface {
	Plan(scope string) (*schema.Plan, error)
	DeleteCascade(ctx context.Context, table string, id int64) (*maintenance.CascadeReport, error)
}

// MaintenanceHandler duplicados, vista previa de limpieza y borrado en cascada.
// La limpieza masiva en sí solo se ejecuta desde cmd/limpiar.
type MaintenanceHandler struct {
	dedup   duplicateService
	cleanup cleanupService
}

func NewMaintenanceHandler(d duplicateService, m cleanupService) *MaintenanceHandler {
	return &MaintenanceHandler{dedup: d, cleanup: m}
}

// FindDuplicates godoc
// @Summary      Grupos de duplicados
// @Tags         mantenimiento
// @Security     Bearer
// @Produce      json
// @Param        entidad  path  string  true  "servicios | paquetes | leads"
// @Success      200  {array}  dedup.Group
// @Router       /api/mantenimiento/duplicados/{entidad} [get]
func (h *MaintenanceHandler) FindDuplicates(c *fiber.Ctx) error {
	groups, err := h.dedup.Find(c.UserContext(), c.Params("entidad"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(groups), "grupos": groups})
}

// ResolveDuplicates godoc
// @Summary      Resolver duplicados conservando el id menor
// @Tags         mantenimiento
// @Security     Bearer
// @Produce      json
// @Param        entidad  path  string  true  "servicios | paquetes | leads"
// @Success      200  {object}  dedup.Report
// @Router       /api/mantenimiento/duplicados/{entidad}/resolver [post]
func (h *MaintenanceHandler) ResolveDuplicates(c *fiber.Ctx) error {
	report, err := h.dedup.Resolve(c.UserContext(), c.Params("entidad"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// CleanupPlan godoc
// @Summary      Vista previa de la limpieza de un alcance
// @Tags         mantenimiento
// @Security     Bearer
// @Produce      json
// @Param        scope  path  string  true  "contratos | ofertas | clientes | leads | comercial | inventario"
// @Success      200  {object}  schema.Plan
// @Router       /api/mantenimiento/limpieza/{scope} [get]
func (h *MaintenanceHandler) CleanupPlan(c *fiber.Ctx) error {
	plan, err := h.cleanup.Plan(c.Params("scope"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(plan)
}

// DeleteCascade handler de DELETE /api/{contratos|ofertas|clientes}/:id.
func (h *MaintenanceHandler) DeleteCascade(table string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return badParam(c, "id")
		}
		report, err := h.cleanup.DeleteCascade(c.UserContext(), table, id)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(report)
	}
}

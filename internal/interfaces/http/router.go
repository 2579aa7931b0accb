package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/salones-api/internal/application/dto"
	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/schema"
	"github.com/jhoicas/salones-api/pkg/config"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Auth        *AuthHandler
	Inventory   *InventoryHandler
	Catalog     *CatalogHandler
	Maintenance *MaintenanceHandler
	JWTSecret   string
	RateLimit   config.RateLimitConfig
}

// AppOptions configuración de la app Fiber.
type AppOptions struct {
	Name        string
	SwaggerFile string // vacío o inexistente = sin /docs
	Log         zerolog.Logger
}

// NewApp crea la app con recover, request id, log de peticiones y Swagger UI si hay especificación.
func NewApp(opts AppOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger(opts.Log))

	if opts.SwaggerFile != "" {
		if _, err := os.Stat(opts.SwaggerFile); err == nil {
			// Swagger UI en local: http://localhost:<port>/docs
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: opts.SwaggerFile,
				Path:     "docs",
				Title:    "Salones API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": opts.Name})
	})
	return app
}

func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		rid, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		log.Debug().
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("duracion", time.Since(start)).
			Msg("petición")
		return err
	}
}

// rateLimit limitador por IP con la regla dada.
func rateLimit(rule config.RateLimitRule) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        rule.Max,
		Expiration: rule.Window,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Code: "RATE_LIMITED", Message: "demasiadas peticiones, intente más tarde",
			})
		},
	})
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", rateLimit(deps.RateLimit.General))

	// Auth (público)
	authGroup := api.Group("/auth", rateLimit(deps.RateLimit.Auth))
	authGroup.Post("/login", deps.Auth.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))

	staff := RequireRole(entity.RoleAdmin, entity.RoleInventario, entity.RoleGerente)
	stockWriters := RequireRole(entity.RoleAdmin, entity.RoleInventario)
	catalogWriters := RequireRole(entity.RoleAdmin, entity.RoleGerente)
	adminOnly := RequireRole(entity.RoleAdmin)

	inv := protected.Group("/inventario")
	ih := deps.Inventory
	inv.Get("/central", staff, ih.ListCentral)
	inv.Get("/central/:itemId", staff, ih.GetCentral)
	inv.Put("/central/:itemId", stockWriters, ih.AdjustCentral)
	inv.Post("/central/:itemId/entrada", stockWriters, ih.Restock)
	inv.Get("/salones", staff, ih.ListVenueStock)
	inv.Post("/transferencia", stockWriters, ih.Transfer)
	inv.Post("/abastecer-salon", stockWriters, ih.SupplyVenue)
	inv.Post("/abastecer-salones", adminOnly, ih.SupplyVenues)
	inv.Get("/movimientos", staff, ih.ListMovements)
	inv.Get("/alertas", staff, ih.Alerts)
	inv.Get("/reporte.pdf", staff, ih.Report)

	cat := protected.Group("/catalogo")
	ch := deps.Catalog
	cat.Get("/servicios", ch.ListServices)
	cat.Get("/paquetes", ch.ListPackages)
	cat.Put("/servicios/renombrar", catalogWriters, ch.RenameService)
	cat.Put("/servicios/precio", catalogWriters, ch.SetServicePrice)
	cat.Put("/paquetes/:paquete/servicios/:servicio", catalogWriters, ch.AttachService)
	cat.Delete("/paquetes/:paquete/servicios/:servicio", catalogWriters, ch.DetachService)
	cat.Put("/salones/:salon/paquetes/:paquete", catalogWriters, ch.UpsertVenuePackagePrice)

	mh := deps.Maintenance
	maint := protected.Group("/mantenimiento", adminOnly)
	dups := maint.Group("/duplicados", rateLimit(deps.RateLimit.Leads))
	dups.Get("/:entidad", mh.FindDuplicates)
	dups.Post("/:entidad/resolver", mh.ResolveDuplicates)
	maint.Get("/limpieza/:scope", mh.CleanupPlan)

	protected.Delete("/contratos/:id", adminOnly, mh.DeleteCascade(schema.TableContracts))
	protected.Delete("/ofertas/:id", adminOnly, mh.DeleteCascade(schema.TableOffers))
	protected.Delete("/clientes/:id", adminOnly, mh.DeleteCascade(schema.TableClients))
}

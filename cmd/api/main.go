package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/application/auth"
	"github.com/jhoicas/salones-api/internal/bootstrap"
	infrapdf "github.com/jhoicas/salones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/salones-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/salones-api/internal/interfaces/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := bootstrap.Open(ctx, "api", bootstrap.Options{Redis: true, Kafka: true})
	if err != nil {
		panic("arranque: " + err.Error())
	}
	defer env.Close(context.Background())
	cfg, log := env.Cfg, env.Log

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET no está definido")
	}

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(env.Pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := env.Catalog()
	maintenanceUC := env.Maintenance()

	app := httpRouter.NewApp(httpRouter.AppOptions{
		Name:        cfg.App.Name,
		SwaggerFile: "./docs/swagger.json",
		Log:         log.Component("http"),
	})
	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth: httpRouter.NewAuthHandler(authUC),
		Inventory: httpRouter.NewInventoryHandler(
			env.Allocation(), env.Ledger(),
			infrapdf.NewMarotoPDFGenerator("Inventario de salones"),
			httpRouter.BatchDefaults{
				Venues:     cfg.Allocation.Venues,
				PerItemQty: decimal.NewFromInt(int64(cfg.Allocation.PerVenueQty)),
			},
		),
		Catalog:     httpRouter.NewCatalogHandler(catalogUC),
		Maintenance: httpRouter.NewMaintenanceHandler(env.Dedup(), maintenanceUC),
		JWTSecret:   cfg.JWT.Secret,
		RateLimit:   cfg.RateLimit,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// Package bootstrap arma las dependencias compartidas por el servidor y los scripts de cmd/.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/application/catalog"
	"github.com/jhoicas/salones-api/internal/application/dedup"
	"github.com/jhoicas/salones-api/internal/application/inventory"
	"github.com/jhoicas/salones-api/internal/application/maintenance"
	"github.com/jhoicas/salones-api/internal/domain/repository"
	"github.com/jhoicas/salones-api/internal/infrastructure/messaging"
	"github.com/jhoicas/salones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/salones-api/internal/infrastructure/redisstore"
	"github.com/jhoicas/salones-api/pkg/config"
	"github.com/jhoicas/salones-api/pkg/logger"
	"github.com/jhoicas/salones-api/pkg/telemetry"
)

// Version se sobrescribe con -ldflags "-X .../internal/bootstrap.Version=...".
var Version = "dev"

// Options qué piezas opcionales abrir.
type Options struct {
	// RequireDatabaseURL exige DATABASE_URL (los scripts no aceptan la forma DB_*).
	RequireDatabaseURL bool
	Redis              bool
	Kafka              bool
}

// Env dependencias abiertas. Redis y Publisher quedan en nil si no están configurados.
type Env struct {
	Cfg       *config.Config
	Log       *logger.Logger
	Pool      *pgxpool.Pool
	Tx        *postgres.TxRunner
	Redis     *redis.Client
	Publisher *messaging.MovementPublisher

	closers []func(context.Context) error
}

// Open carga configuración, logger, trazas y la base. Redis y Kafka son opcionales:
// un fallo de Redis se registra y se sigue sin caché ni candado.
func Open(ctx context.Context, name string, opts Options) (*Env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	if opts.RequireDatabaseURL {
		if err := cfg.DB.RequireDatabaseURL(); err != nil {
			return nil, err
		}
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	env := &Env{Cfg: cfg, Log: log}

	shutdown, err := telemetry.Setup(ctx, cfg.Telemetry, Version)
	if err != nil {
		log.Warn().Err(err).Msg("trazas sin exportador")
	}
	if shutdown != nil {
		env.closers = append(env.closers, shutdown)
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		env.Close(ctx)
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	env.Pool = pool
	env.Tx = postgres.NewTxRunner(pool)
	env.closers = append(env.closers, func(context.Context) error { pool.Close(); return nil })

	if opts.Redis && cfg.Redis.Enabled() {
		client, err := redisstore.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible; sin caché ni candado")
		} else {
			env.Redis = client
			env.closers = append(env.closers, func(context.Context) error { return client.Close() })
		}
	}
	if opts.Kafka && cfg.Kafka.Enabled() {
		pub := messaging.NewMovementPublisher(cfg.Kafka)
		env.Publisher = pub
		env.closers = append(env.closers, func(context.Context) error { return pub.Close() })
	}

	log.Info().
		Str("app", cfg.App.Name).
		Str("comando", name).
		Str("env", cfg.App.Env).
		Bool("redis", env.Redis != nil).
		Bool("kafka", env.Publisher != nil).
		Msg("iniciando")
	return env, nil
}

// Close libera en orden inverso de apertura.
func (e *Env) Close(ctx context.Context) {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](ctx); err != nil {
			e.Log.Warn().Err(err).Msg("cierre de dependencia")
		}
	}
	e.closers = nil
}

func (e *Env) publisher() inventory.EventPublisher {
	if e.Publisher == nil {
		return nil
	}
	return e.Publisher
}

// Allocation caso de uso de asignación, con candado Redis y publicación Kafka si existen.
func (e *Env) Allocation() *inventory.AllocationUseCase {
	opts := []inventory.Option{
		inventory.WithVenueMinimum(decimal.NewFromInt(int64(e.Cfg.Allocation.VenueMinimum))),
	}
	if pub := e.publisher(); pub != nil {
		opts = append(opts, inventory.WithPublisher(pub))
	}
	if e.Redis != nil {
		opts = append(opts, inventory.WithLocker(redisstore.NewLocker(e.Redis)))
	}
	return inventory.NewAllocationUseCase(
		e.Tx,
		postgres.NewCentralStockRepository(e.Pool),
		postgres.NewVenueRepository(e.Pool),
		e.Log.Component("asignacion"),
		opts...,
	)
}

// Ledger consultas y entradas del libro de inventario.
func (e *Env) Ledger() *inventory.LedgerUseCase {
	return inventory.NewLedgerUseCase(
		e.Tx,
		postgres.NewCentralStockRepository(e.Pool),
		postgres.NewVenueStockRepository(e.Pool),
		postgres.NewMovementRepository(e.Pool),
		e.publisher(),
		e.Log.Component("libro"),
	)
}

// Catalog mantenimiento del catálogo; usa la caché Redis si hay cliente.
func (e *Env) Catalog() *catalog.UseCase {
	log := e.Log.Component("catalogo")
	var cache repository.CatalogCache
	if e.Redis != nil {
		cache = redisstore.NewCatalogCache(e.Redis, e.Cfg.Redis.CacheTTL, log)
	}
	return catalog.NewUseCase(postgres.NewCatalogRepository(e.Pool), postgres.NewVenueRepository(e.Pool), e.Tx, cache, log)
}

// Dedup detección y resolución de duplicados.
func (e *Env) Dedup() *dedup.UseCase {
	return dedup.NewUseCase(postgres.NewDuplicateRepository(e.Pool), e.Tx, e.Log.Component("duplicados"))
}

// Maintenance limpieza por alcance y borrado en cascada.
func (e *Env) Maintenance() *maintenance.UseCase {
	return maintenance.NewUseCase(e.Tx, postgres.NewSequenceRepository(e.Pool), e.Log.Component("limpieza"))
}

// Run ejecuta un script: contexto cancelado con SIGINT/SIGTERM, dependencias abiertas y
// cerradas, y salida 1 si fn devuelve error.
func Run(name string, opts Options, fn func(ctx context.Context, env *Env) error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := Open(ctx, name, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
		os.Exit(1)
	}

	err = fn(ctx, env)
	env.Close(context.Background())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			env.Log.Warn().Str("comando", name).Msg("interrumpido")
		} else {
			env.Log.Error().Err(err).Str("comando", name).Msg("falló")
		}
		os.Exit(1)
	}
	env.Log.Info().Str("comando", name).Msg("terminado")
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/salones-api/internal/application/catalog"
	"github.com/jhoicas/salones-api/internal/application/dedup"
	"github.com/jhoicas/salones-api/internal/application/inventory"
	"github.com/jhoicas/salones-api/internal/application/maintenance"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner   = (*TxRunner)(nil)
	_ catalog.TxRunner     = (*TxRunner)(nil)
	_ dedup.TxRunner       = (*TxRunner)(nil)
	_ maintenance.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con repositorios atados a ella.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx hace Commit si fn no falla y Rollback en cualquier otro caso.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return classify("commit transaction", fmt.Errorf("commit: %w", err))
	}
	return nil
}

// Run transacción del libro de inventario: stock central, stock de salón y movimientos.
func (r *TxRunner) Run(ctx context.Context, fn func(
	central repository.CentralStockRepository,
	venues repository.VenueStockRepository,
	movements repository.MovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewCentralStockRepository(tx), NewVenueStockRepository(tx), NewMovementRepository(tx))
	})
}

// RunCatalog transacción sobre el catálogo (cambio de precio + historial).
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(repository.CatalogRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewCatalogRepository(tx))
	})
}

// RunDedup transacción para resolver una fila duplicada.
func (r *TxRunner) RunDedup(ctx context.Context, fn func(repository.DuplicateRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewDuplicateRepository(tx))
	})
}

// RunReset transacción de limpieza (nullify + deletes).
func (r *TxRunner) RunReset(ctx context.Context, fn func(repository.ResetRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewResetRepository(tx))
	})
}

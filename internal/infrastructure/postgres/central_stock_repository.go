package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

var _ repository.CentralStockRepository = (*CentralStockRepo)(nil)

// CentralStockRepo almacén central sobre PostgreSQL (usable con pool o tx).
type CentralStockRepo struct {
	q Querier
}

// NewCentralStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCentralStockRepository(q Querier) *CentralStockRepo {
	return &CentralStockRepo{q: q}
}

const centralColumns = `
	SELECT c.id, c.item_id, i.name, c.quantity, c.min_quantity, c.updated_at
	FROM central_stock c
	JOIN inventory_items i ON i.id = c.item_id`

func scanCentral(row pgx.Row) (*entity.CentralStock, error) {
	var s entity.CentralStock
	if err := row.Scan(&s.ID, &s.ItemID, &s.ItemName, &s.Quantity, &s.MinQuantity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *CentralStockRepo) get(ctx context.Context, op, query string, itemID int64) (*entity.CentralStock, error) {
	s, err := scanCentral(r.q.QueryRow(ctx, query, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return s, nil
}

// Get devuelve nil si el artículo no tiene fila en el almacén central.
func (r *CentralStockRepo) Get(ctx context.Context, itemID int64) (*entity.CentralStock, error) {
	return r.get(ctx, "get central_stock", centralColumns+` WHERE c.item_id = $1`, itemID)
}

// GetForUpdate bloquea la fila del almacén central (SELECT FOR UPDATE).
func (r *CentralStockRepo) GetForUpdate(ctx context.Context, itemID int64) (*entity.CentralStock, error) {
	return r.get(ctx, "get central_stock for update", centralColumns+` WHERE c.item_id = $1 FOR UPDATE OF c`, itemID)
}

func (r *CentralStockRepo) list(ctx context.Context, op, query string) ([]*entity.CentralStock, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	var list []*entity.CentralStock
	for rows.Next() {
		s, err := scanCentral(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		list = append(list, s)
	}
	return list, classify(op, rows.Err())
}

func (r *CentralStockRepo) List(ctx context.Context) ([]*entity.CentralStock, error) {
	return r.list(ctx, "list central_stock", centralColumns+` ORDER BY i.name`)
}

// ListAvailable filas con cantidad positiva, en orden de item_id.
func (r *CentralStockRepo) ListAvailable(ctx context.Context) ([]*entity.CentralStock, error) {
	return r.list(ctx, "list central_stock available", centralColumns+` WHERE c.quantity > 0 ORDER BY c.item_id`)
}

func (r *CentralStockRepo) ListBelowMinimum(ctx context.Context) ([]*entity.CentralStock, error) {
	return r.list(ctx, "list central_stock below minimum", centralColumns+` WHERE c.quantity < c.min_quantity ORDER BY c.quantity`)
}

// Decrement resta con guarda (compare-and-swap): si la cantidad ya no alcanza no toca la fila
// y devuelve domain.ErrConflict para que la transacción haga rollback.
func (r *CentralStockRepo) Decrement(ctx context.Context, itemID int64, amount decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE central_stock SET quantity = quantity - $2, updated_at = now()
		WHERE item_id = $1 AND quantity >= $2`, itemID, amount)
	if err != nil {
		return classify("decrement central_stock", err)
	}
	if tag.RowsAffected() != 1 {
		return domain.ErrConflict
	}
	return nil
}

func (r *CentralStockRepo) Increment(ctx context.Context, itemID int64, amount decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE central_stock SET quantity = quantity + $2, updated_at = now()
		WHERE item_id = $1`, itemID, amount)
	if err != nil {
		return classify("increment central_stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Set fija cantidad y mínimo; crea la fila si no existe.
func (r *CentralStockRepo) Set(ctx context.Context, itemID int64, quantity, minQuantity decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO central_stock (item_id, quantity, min_quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, min_quantity = EXCLUDED.min_quantity, updated_at = now()`,
		itemID, quantity, minQuantity)
	return classify("set central_stock", err)
}

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

var _ repository.VenueStockRepository = (*VenueStockRepo)(nil)

// VenueStockRepo stock por salón (usable con pool o tx).
type VenueStockRepo struct {
	q Querier
}

func NewVenueStockRepository(q Querier) *VenueStockRepo {
	return &VenueStockRepo{q: q}
}

const venueStockColumns = `
	SELECT s.id, s.venue_id, v.name, s.item_id, i.name, s.quantity, s.min_quantity, s.updated_at
	FROM venue_stock s
	JOIN venues v ON v.id = s.venue_id
	JOIN inventory_items i ON i.id = s.item_id`

func scanVenueStock(row pgx.Row) (*entity.VenueStock, error) {
	var s entity.VenueStock
	err := row.Scan(&s.ID, &s.VenueID, &s.VenueName, &s.ItemID, &s.ItemName, &s.Quantity, &s.MinQuantity, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// AddQuantity upsert que incrementa: la primera asignación crea la fila con minQuantity.
func (r *VenueStockRepo) AddQuantity(ctx context.Context, venueID, itemID int64, amount, minQuantity decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO venue_stock (venue_id, item_id, quantity, min_quantity, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (venue_id, item_id)
		DO UPDATE SET quantity = venue_stock.quantity + EXCLUDED.quantity, updated_at = now()`,
		venueID, itemID, amount, minQuantity)
	return classify("upsert venue_stock", err)
}

// Get devuelve nil si el salón no tiene fila para el artículo.
func (r *VenueStockRepo) Get(ctx context.Context, venueID, itemID int64) (*entity.VenueStock, error) {
	s, err := scanVenueStock(r.q.QueryRow(ctx, venueStockColumns+` WHERE s.venue_id = $1 AND s.item_id = $2`, venueID, itemID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get venue_stock", err)
	}
	return s, nil
}

func (r *VenueStockRepo) List(ctx context.Context, venueID *int64) ([]*entity.VenueStock, error) {
	query := venueStockColumns
	var args []any
	if venueID != nil {
		query += ` WHERE s.venue_id = $1`
		args = append(args, *venueID)
	}
	query += ` ORDER BY v.name, i.name`
	return r.list(ctx, "list venue_stock", query, args...)
}

func (r *VenueStockRepo) ListBelowMinimum(ctx context.Context) ([]*entity.VenueStock, error) {
	return r.list(ctx, "list venue_stock below minimum",
		venueStockColumns+` WHERE s.quantity < s.min_quantity ORDER BY v.name, s.quantity`)
}

func (r *VenueStockRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.VenueStock, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	var list []*entity.VenueStock
	for rows.Next() {
		s, err := scanVenueStock(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		list = append(list, s)
	}
	return list, classify(op, rows.Err())
}

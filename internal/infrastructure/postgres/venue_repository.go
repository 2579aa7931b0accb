package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

var (
	_ repository.VenueRepository         = (*VenueRepo)(nil)
	_ repository.InventoryItemRepository = (*ItemRepo)(nil)
)

// VenueRepo salones sobre PostgreSQL.
type VenueRepo struct {
	q Querier
}

func NewVenueRepository(q Querier) *VenueRepo {
	return &VenueRepo{q: q}
}

func (r *VenueRepo) getOne(ctx context.Context, op, where string, arg any) (*entity.Venue, error) {
	var v entity.Venue
	err := r.q.QueryRow(ctx, `SELECT id, name, active FROM venues WHERE `+where, arg).Scan(&v.ID, &v.Name, &v.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return &v, nil
}

func (r *VenueRepo) GetByID(ctx context.Context, id int64) (*entity.Venue, error) {
	return r.getOne(ctx, "get venue", "id = $1", id)
}

// GetByName compara sin distinguir mayúsculas; con nombres repetidos gana el id menor.
func (r *VenueRepo) GetByName(ctx context.Context, name string) (*entity.Venue, error) {
	return r.getOne(ctx, "get venue by name", "LOWER(name) = LOWER($1) ORDER BY id LIMIT 1", name)
}

func (r *VenueRepo) List(ctx context.Context) ([]*entity.Venue, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, active FROM venues ORDER BY id`)
	if err != nil {
		return nil, classify("list venues", err)
	}
	defer rows.Close()
	var list []*entity.Venue
	for rows.Next() {
		var v entity.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Active); err != nil {
			return nil, classify("scan venue", err)
		}
		list = append(list, &v)
	}
	return list, classify("list venues", rows.Err())
}

// ItemRepo artículos de inventario.
type ItemRepo struct {
	q Querier
}

func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func (r *ItemRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	err := r.q.QueryRow(ctx, `SELECT id, name, unit, category, active FROM inventory_items WHERE id = $1`, id).
		Scan(&it.ID, &it.Name, &it.Unit, &it.Category, &it.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get inventory_item", err)
	}
	return &it, nil
}

func (r *ItemRepo) List(ctx context.Context) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, unit, category, active FROM inventory_items ORDER BY name`)
	if err != nil {
		return nil, classify("list inventory_items", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		var it entity.InventoryItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Unit, &it.Category, &it.Active); err != nil {
			return nil, classify("scan inventory_item", err)
		}
		list = append(list, &it)
	}
	return list, classify("list inventory_items", rows.Err())
}

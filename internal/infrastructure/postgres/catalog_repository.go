package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo servicios, paquetes, temporadas y sus relaciones (usable con pool o tx).
type CatalogRepo struct {
	q Querier
}

func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

func (r *CatalogRepo) exec(ctx context.Context, op, sql string, args ...any) (int64, error) {
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, classify(op, err)
	}
	return tag.RowsAffected(), nil
}

func (r *CatalogRepo) ListServices(ctx context.Context) ([]*entity.Service, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), base_price, COALESCE(category, ''), active
		FROM services ORDER BY category, name`)
	if err != nil {
		return nil, classify("list services", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		var s entity.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.BasePrice, &s.Category, &s.Active); err != nil {
			return nil, classify("scan service", err)
		}
		list = append(list, &s)
	}
	return list, classify("list services", rows.Err())
}

func (r *CatalogRepo) ListPackages(ctx context.Context) ([]*entity.Package, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), base_price, active
		FROM packages ORDER BY name`)
	if err != nil {
		return nil, classify("list packages", err)
	}
	defer rows.Close()
	var list []*entity.Package
	for rows.Next() {
		var p entity.Package
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.Active); err != nil {
			return nil, classify("scan package", err)
		}
		list = append(list, &p)
	}
	return list, classify("list packages", rows.Err())
}

// GetServiceByName con nombres repetidos devuelve el de id menor (el que sobrevive a la deduplicación).
func (r *CatalogRepo) GetServiceByName(ctx context.Context, name string) (*entity.Service, error) {
	var s entity.Service
	err := r.q.QueryRow(ctx, `
		SELECT id, name, COALESCE(description, ''), base_price, COALESCE(category, ''), active
		FROM services WHERE name = $1 ORDER BY id LIMIT 1`, name).
		Scan(&s.ID, &s.Name, &s.Description, &s.BasePrice, &s.Category, &s.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get service by name", err)
	}
	return &s, nil
}

func (r *CatalogRepo) ListServicesByName(ctx context.Context, name string) ([]*entity.Service, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), base_price, COALESCE(category, ''), active
		FROM services WHERE name = $1 ORDER BY id`, name)
	if err != nil {
		return nil, classify("list services by name", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		var s entity.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.BasePrice, &s.Category, &s.Active); err != nil {
			return nil, classify("scan service", err)
		}
		list = append(list, &s)
	}
	return list, classify("list services by name", rows.Err())
}

func (r *CatalogRepo) GetPackageByName(ctx context.Context, name string) (*entity.Package, error) {
	var p entity.Package
	err := r.q.QueryRow(ctx, `
		SELECT id, name, COALESCE(description, ''), base_price, active
		FROM packages WHERE name = $1 ORDER BY id LIMIT 1`, name).
		Scan(&p.ID, &p.Name, &p.Description, &p.BasePrice, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get package by name", err)
	}
	return &p, nil
}

// RenameService solo toca filas cuyo estado difiere del deseado: una segunda ejecución afecta 0.
// description vacío conserva la descripción actual.
func (r *CatalogRepo) RenameService(ctx context.Context, oldName, newName, description string) (int64, error) {
	return r.exec(ctx, "rename service", `
		UPDATE services SET name = $2, description = COALESCE(NULLIF($3, ''), description)
		WHERE name = $1 AND (name <> $2 OR ($3 <> '' AND description IS DISTINCT FROM $3))`,
		oldName, newName, description)
}

func (r *CatalogRepo) UpdateServicePrice(ctx context.Context, id int64, price decimal.Decimal) (int64, error) {
	return r.exec(ctx, "update service price",
		`UPDATE services SET base_price = $2 WHERE id = $1 AND base_price <> $2`, id, price)
}

func (r *CatalogRepo) SetServiceActive(ctx context.Context, name string, active bool) (int64, error) {
	return r.exec(ctx, "set service active",
		`UPDATE services SET active = $2 WHERE name = $1 AND active <> $2`, name, active)
}

func (r *CatalogRepo) SetPackageActive(ctx context.Context, name string, active bool) (int64, error) {
	return r.exec(ctx, "set package active",
		`UPDATE packages SET active = $2 WHERE name = $1 AND active <> $2`, name, active)
}

func (r *CatalogRepo) SetSeasonAdjustment(ctx context.Context, name string, adjustment decimal.Decimal, description string) (int64, error) {
	return r.exec(ctx, "set season adjustment", `
		UPDATE seasons SET price_adjustment = $2, description = $3
		WHERE name = $1 AND (price_adjustment <> $2 OR description IS DISTINCT FROM $3)`,
		name, adjustment, description)
}

func (r *CatalogRepo) InsertPriceHistory(ctx context.Context, h *entity.PriceHistory) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO price_history (service_id, package_id, old_price, new_price, changed_at)
		VALUES ($1, $2, $3, $4, now()) RETURNING id, changed_at`,
		h.ServiceID, h.PackageID, h.OldPrice, h.NewPrice).Scan(&h.ID, &h.ChangedAt)
	return classify("insert price_history", err)
}

func (r *CatalogRepo) GetPackageService(ctx context.Context, packageID, serviceID int64) (*entity.PackageService, error) {
	var ps entity.PackageService
	err := r.q.QueryRow(ctx, `
		SELECT id, package_id, service_id, quantity FROM package_services
		WHERE package_id = $1 AND service_id = $2`, packageID, serviceID).
		Scan(&ps.ID, &ps.PackageID, &ps.ServiceID, &ps.Quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get package_service", err)
	}
	return &ps, nil
}

func (r *CatalogRepo) InsertPackageService(ctx context.Context, ps *entity.PackageService) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO package_services (package_id, service_id, quantity) VALUES ($1, $2, $3) RETURNING id`,
		ps.PackageID, ps.ServiceID, ps.Quantity).Scan(&ps.ID)
	return classify("insert package_service", err)
}

func (r *CatalogRepo) UpdatePackageServiceQuantity(ctx context.Context, id int64, quantity int) (int64, error) {
	return r.exec(ctx, "update package_service",
		`UPDATE package_services SET quantity = $2 WHERE id = $1 AND quantity <> $2`, id, quantity)
}

func (r *CatalogRepo) DeletePackageService(ctx context.Context, packageID, serviceID int64) (int64, error) {
	return r.exec(ctx, "delete package_service",
		`DELETE FROM package_services WHERE package_id = $1 AND service_id = $2`, packageID, serviceID)
}

func (r *CatalogRepo) GetPackageVenue(ctx context.Context, packageID, venueID int64) (*entity.PackageVenue, error) {
	var pv entity.PackageVenue
	err := r.q.QueryRow(ctx, `
		SELECT id, package_id, venue_id, base_price, min_guests, available FROM package_venues
		WHERE package_id = $1 AND venue_id = $2`, packageID, venueID).
		Scan(&pv.ID, &pv.PackageID, &pv.VenueID, &pv.BasePrice, &pv.MinGuests, &pv.Available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get package_venue", err)
	}
	return &pv, nil
}

func (r *CatalogRepo) InsertPackageVenue(ctx context.Context, pv *entity.PackageVenue) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO package_venues (package_id, venue_id, base_price, min_guests, available)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		pv.PackageID, pv.VenueID, pv.BasePrice, pv.MinGuests, pv.Available).Scan(&pv.ID)
	return classify("insert package_venue", err)
}

func (r *CatalogRepo) UpdatePackageVenue(ctx context.Context, pv *entity.PackageVenue) (int64, error) {
	return r.exec(ctx, "update package_venue", `
		UPDATE package_venues SET base_price = $2, min_guests = $3, available = $4
		WHERE id = $1`, pv.ID, pv.BasePrice, pv.MinGuests, pv.Available)
}

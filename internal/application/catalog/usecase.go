// Package catalog mantenimiento del catálogo por clave natural. Cada operación es idempotente:
// una segunda ejecución con los mismos datos no cambia filas.
package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

// TxRunner transacción sobre el catálogo.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(repository.CatalogRepository) error) error
}

// Outcome resultado de un upsert.
type Outcome string

const (
	Created   Outcome = "creado"
	Updated   Outcome = "actualizado"
	Unchanged Outcome = "sin_cambios"
)

// UseCase operaciones de mantenimiento del catálogo.
type UseCase struct {
	repo   repository.CatalogRepository
	venues repository.VenueRepository
	tx     TxRunner
	cache  repository.CatalogCache
	log    zerolog.Logger
}

// NewUseCase construye el caso de uso. cache puede ser nil.
func NewUseCase(
	repo repository.CatalogRepository,
	venues repository.VenueRepository,
	tx TxRunner,
	cache repository.CatalogCache,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{repo: repo, venues: venues, tx: tx, cache: cache, log: log}
}

func (uc *UseCase) invalidate(ctx context.Context, affected int64) {
	if affected > 0 && uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
}

// ListServices servicios, desde caché si está disponible.
func (uc *UseCase) ListServices(ctx context.Context) ([]*entity.Service, error) {
	if uc.cache != nil {
		if list, ok := uc.cache.GetServices(ctx); ok {
			return list, nil
		}
	}
	list, err := uc.repo.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.SetServices(ctx, list)
	}
	return list, nil
}

func (uc *UseCase) ListPackages(ctx context.Context) ([]*entity.Package, error) {
	if uc.cache != nil {
		if list, ok := uc.cache.GetPackages(ctx); ok {
			return list, nil
		}
	}
	list, err := uc.repo.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.SetPackages(ctx, list)
	}
	return list, nil
}

// RenameService renombra por nombre exacto. Devuelve filas afectadas (0 si ya estaba aplicado).
func (uc *UseCase) RenameService(ctx context.Context, oldName, newName, description string) (int64, error) {
	if oldName == "" || newName == "" {
		return 0, domain.ErrInvalidInput
	}
	n, err := uc.repo.RenameService(ctx, oldName, newName, description)
	if err != nil {
		return 0, err
	}
	uc.log.Info().Str("servicio", oldName).Str("nuevo", newName).Int64("filas", n).Msg("renombrar servicio")
	uc.invalidate(ctx, n)
	return n, nil
}

// SetServicePrice fija el precio base de todas las filas con ese nombre, igual que RenameService
// y SetServiceActive. Cada fila cambiada deja su registro en price_history.
func (uc *UseCase) SetServicePrice(ctx context.Context, name string, price decimal.Decimal) (int64, error) {
	if name == "" || price.IsNegative() {
		return 0, domain.ErrInvalidInput
	}
	var affected int64
	err := uc.tx.RunCatalog(ctx, func(repo repository.CatalogRepository) error {
		list, err := repo.ListServicesByName(ctx, name)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("servicio %q: %w", name, domain.ErrNotFound)
		}
		for _, svc := range list {
			if svc.BasePrice.Equal(price) {
				continue
			}
			n, err := repo.UpdateServicePrice(ctx, svc.ID, price)
			if err != nil {
				return err
			}
			if n == 0 {
				continue
			}
			affected += n
			if err := repo.InsertPriceHistory(ctx, &entity.PriceHistory{
				ServiceID: &svc.ID, OldPrice: svc.BasePrice, NewPrice: price,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	uc.log.Info().Str("servicio", name).Str("precio", price.String()).Int64("filas", affected).Msg("precio de servicio")
	uc.invalidate(ctx, affected)
	return affected, nil
}

func (uc *UseCase) SetServiceActive(ctx context.Context, name string, active bool) (int64, error) {
	n, err := uc.repo.SetServiceActive(ctx, name, active)
	if err != nil {
		return 0, err
	}
	uc.invalidate(ctx, n)
	return n, nil
}

func (uc *UseCase) SetPackageActive(ctx context.Context, name string, active bool) (int64, error) {
	n, err := uc.repo.SetPackageActive(ctx, name, active)
	if err != nil {
		return 0, err
	}
	uc.invalidate(ctx, n)
	return n, nil
}

// SetSeasonAdjustment fija el ajuste de precio de una temporada.
func (uc *UseCase) SetSeasonAdjustment(ctx context.Context, name string, adjustment decimal.Decimal, description string) (int64, error) {
	if name == "" {
		return 0, domain.ErrInvalidInput
	}
	return uc.repo.SetSeasonAdjustment(ctx, name, adjustment, description)
}

func (uc *UseCase) packageAndService(ctx context.Context, repo repository.CatalogRepository, pkgName, svcName string) (*entity.Package, *entity.Service, error) {
	pkg, err := repo.GetPackageByName(ctx, pkgName)
	if err != nil {
		return nil, nil, err
	}
	if pkg == nil {
		return nil, nil, fmt.Errorf("paquete %q: %w", pkgName, domain.ErrNotFound)
	}
	svc, err := repo.GetServiceByName(ctx, svcName)
	if err != nil {
		return nil, nil, err
	}
	if svc == nil {
		return nil, nil, fmt.Errorf("servicio %q: %w", svcName, domain.ErrNotFound)
	}
	return pkg, svc, nil
}

// AttachService incluye un servicio en un paquete (busca o crea la relación).
func (uc *UseCase) AttachService(ctx context.Context, pkgName, svcName string, qty int) (Outcome, error) {
	if qty <= 0 {
		qty = 1
	}
	outcome := Unchanged
	err := uc.tx.RunCatalog(ctx, func(repo repository.CatalogRepository) error {
		pkg, svc, err := uc.packageAndService(ctx, repo, pkgName, svcName)
		if err != nil {
			return err
		}
		ps, err := repo.GetPackageService(ctx, pkg.ID, svc.ID)
		if err != nil {
			return err
		}
		if ps == nil {
			outcome = Created
			return repo.InsertPackageService(ctx, &entity.PackageService{PackageID: pkg.ID, ServiceID: svc.ID, Quantity: qty})
		}
		if ps.Quantity != qty {
			outcome = Updated
			_, err = repo.UpdatePackageServiceQuantity(ctx, ps.ID, qty)
		}
		return err
	})
	if err != nil {
		return "", err
	}
	if outcome != Unchanged {
		uc.invalidate(ctx, 1)
	}
	return outcome, nil
}

// DetachService quita un servicio de un paquete. 0 si no estaba incluido.
func (uc *UseCase) DetachService(ctx context.Context, pkgName, svcName string) (int64, error) {
	var affected int64
	err := uc.tx.RunCatalog(ctx, func(repo repository.CatalogRepository) error {
		pkg, svc, err := uc.packageAndService(ctx, repo, pkgName, svcName)
		if err != nil {
			return err
		}
		affected, err = repo.DeletePackageService(ctx, pkg.ID, svc.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	uc.invalidate(ctx, affected)
	return affected, nil
}

// VenuePackagePrice precio de un paquete en un salón.
type VenuePackagePrice struct {
	Venue     string
	Package   string
	Price     decimal.Decimal
	MinGuests int
	Available bool
}

// UpsertVenuePackagePrice crea o actualiza la fila salón×paquete.
func (uc *UseCase) UpsertVenuePackagePrice(ctx context.Context, in VenuePackagePrice) (Outcome, error) {
	if in.Price.IsNegative() || in.MinGuests < 0 {
		return "", domain.ErrInvalidInput
	}
	venue, err := uc.venues.GetByName(ctx, in.Venue)
	if err != nil {
		return "", err
	}
	if venue == nil {
		return "", fmt.Errorf("salón %q: %w", in.Venue, domain.ErrNotFound)
	}

	outcome := Unchanged
	err = uc.tx.RunCatalog(ctx, func(repo repository.CatalogRepository) error {
		pkg, err := repo.GetPackageByName(ctx, in.Package)
		if err != nil {
			return err
		}
		if pkg == nil {
			return fmt.Errorf("paquete %q: %w", in.Package, domain.ErrNotFound)
		}
		want := &entity.PackageVenue{
			PackageID: pkg.ID, VenueID: venue.ID,
			BasePrice: in.Price, MinGuests: in.MinGuests, Available: in.Available,
		}
		current, err := repo.GetPackageVenue(ctx, pkg.ID, venue.ID)
		if err != nil {
			return err
		}
		if current == nil {
			outcome = Created
			return repo.InsertPackageVenue(ctx, want)
		}
		if current.BasePrice.Equal(want.BasePrice) && current.MinGuests == want.MinGuests && current.Available == want.Available {
			return nil
		}
		want.ID = current.ID
		outcome = Updated
		_, err = repo.UpdatePackageVenue(ctx, want)
		return err
	})
	if err != nil {
		return "", err
	}
	if outcome != Unchanged {
		uc.invalidate(ctx, 1)
	}
	return outcome, nil
}

// MatrixReport conteos de ApplyVenuePackageMatrix.
type MatrixReport struct {
	Created   int      `json:"creados"`
	Updated   int      `json:"actualizados"`
	Unchanged int      `json:"sin_cambios"`
	Missing   []string `json:"faltantes"`
}

// ApplyVenuePackageMatrix aplica la tabla completa salón×paquete. Una fila cuyo salón o paquete
// no existe se reporta en Missing y no detiene el resto.
func (uc *UseCase) ApplyVenuePackageMatrix(ctx context.Context, matrix []VenuePackagePrice) (*MatrixReport, error) {
	report := &MatrixReport{Missing: []string{}}
	for _, row := range matrix {
		outcome, err := uc.UpsertVenuePackagePrice(ctx, row)
		if err != nil {
			if domain.KindOf(err) == domain.KindConnection {
				return report, err
			}
			uc.log.Warn().Err(err).Str("salon", row.Venue).Str("paquete", row.Package).Msg("fila de precios omitida")
			report.Missing = append(report.Missing, row.Venue+"/"+row.Package)
			continue
		}
		switch outcome {
		case Created:
			report.Created++
		case Updated:
			report.Updated++
		default:
			report.Unchanged++
		}
	}
	return report, nil
}

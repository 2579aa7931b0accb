package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/domain/entity"
)

// CatalogRepository mantenimiento del catálogo por clave natural (nombre).
// Las operaciones de escritura devuelven filas afectadas.
type CatalogRepository interface {
	ListServices(ctx context.Context) ([]*entity.Service, error)
	ListPackages(ctx context.Context) ([]*entity.Package, error)
	GetServiceByName(ctx context.Context, name string) (*entity.Service, error)
	// ListServicesByName todas las filas con ese nombre, por id.
	ListServicesByName(ctx context.Context, name string) ([]*entity.Service, error)
	GetPackageByName(ctx context.Context, name string) (*entity.Package, error)

	RenameService(ctx context.Context, oldName, newName, description string) (int64, error)
	UpdateServicePrice(ctx context.Context, id int64, price decimal.Decimal) (int64, error)
	SetServiceActive(ctx context.Context, name string, active bool) (int64, error)
	SetPackageActive(ctx context.Context, name string, active bool) (int64, error)
	SetSeasonAdjustment(ctx context.Context, name string, adjustment decimal.Decimal, description string) (int64, error)
	InsertPriceHistory(ctx context.Context, h *entity.PriceHistory) error

	GetPackageService(ctx context.Context, packageID, serviceID int64) (*entity.PackageService, error)
	InsertPackageService(ctx context.Context, ps *entity.PackageService) error
	UpdatePackageServiceQuantity(ctx context.Context, id int64, quantity int) (int64, error)
	DeletePackageService(ctx context.Context, packageID, serviceID int64) (int64, error)

	GetPackageVenue(ctx context.Context, packageID, venueID int64) (*entity.PackageVenue, error)
	InsertPackageVenue(ctx context.Context, pv *entity.PackageVenue) error
	UpdatePackageVenue(ctx context.Context, pv *entity.PackageVenue) (int64, error)
}

// CatalogCache caché de listados del catálogo. Las implementaciones ignoran fallos de red
// devolviendo miss.
type CatalogCache interface {
	GetServices(ctx context.Context) ([]*entity.Service, bool)
	SetServices(ctx context.Context, services []*entity.Service)
	GetPackages(ctx context.Context) ([]*entity.Package, bool)
	SetPackages(ctx context.Context, packages []*entity.Package)
	Invalidate(ctx context.Context)
}

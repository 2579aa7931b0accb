package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

type fakeRepo struct {
	services  []*entity.Service
	packages  []*entity.Package
	seasons   map[string]decimal.Decimal
	pkgSvc    []*entity.PackageService
	pkgVenue  []*entity.PackageVenue
	history   []*entity.PriceHistory
	listCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: []*entity.Service{
			{ID: 1, Name: "Mini Dulces", BasePrice: decimal.NewFromInt(30), Active: true},
			{ID: 2, Name: "Decoración Básica", Description: "Centros de mesa", BasePrice: decimal.NewFromInt(200), Active: true},
		},
		packages: []*entity.Package{
			{ID: 1, Name: "Paquete Especial", Active: true},
		},
		seasons: map[string]decimal.Decimal{"Alta": decimal.NewFromInt(15)},
	}
}

func (r *fakeRepo) service(name string) *entity.Service {
	for _, s := range r.services {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (r *fakeRepo) ListServices(context.Context) ([]*entity.Service, error) {
	r.listCalls++
	return r.services, nil
}

func (r *fakeRepo) ListPackages(context.Context) ([]*entity.Package, error) {
	r.listCalls++
	return r.packages, nil
}

func (r *fakeRepo) GetServiceByName(_ context.Context, name string) (*entity.Service, error) {
	if s := r.service(name); s != nil {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) ListServicesByName(_ context.Context, name string) ([]*entity.Service, error) {
	var out []*entity.Service
	for _, s := range r.services {
		if s.Name == name {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetPackageByName(_ context.Context, name string) (*entity.Package, error) {
	for _, p := range r.packages {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) RenameService(_ context.Context, oldName, newName, description string) (int64, error) {
	var n int64
	for _, s := range r.services {
		if s.Name != oldName || (s.Name == newName && (description == "" || s.Description == description)) {
			continue
		}
		s.Name = newName
		if description != "" {
			s.Description = description
		}
		n++
	}
	return n, nil
}

func (r *fakeRepo) UpdateServicePrice(_ context.Context, id int64, price decimal.Decimal) (int64, error) {
	for _, s := range r.services {
		if s.ID == id && !s.BasePrice.Equal(price) {
			s.BasePrice = price
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeRepo) SetServiceActive(_ context.Context, name string, active bool) (int64, error) {
	var n int64
	for _, s := range r.services {
		if s.Name == name && s.Active != active {
			s.Active = active
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) SetPackageActive(_ context.Context, name string, active bool) (int64, error) {
	for _, p := range r.packages {
		if p.Name == name && p.Active != active {
			p.Active = active
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeRepo) SetSeasonAdjustment(_ context.Context, name string, adjustment decimal.Decimal, _ string) (int64, error) {
	cur, ok := r.seasons[name]
	if !ok || cur.Equal(adjustment) {
		return 0, nil
	}
	r.seasons[name] = adjustment
	return 1, nil
}

func (r *fakeRepo) InsertPriceHistory(_ context.Context, h *entity.PriceHistory) error {
	r.history = append(r.history, h)
	return nil
}

func (r *fakeRepo) GetPackageService(_ context.Context, packageID, serviceID int64) (*entity.PackageService, error) {
	for _, ps := range r.pkgSvc {
		if ps.PackageID == packageID && ps.ServiceID == serviceID {
			cp := *ps
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) InsertPackageService(_ context.Context, ps *entity.PackageService) error {
	ps.ID = int64(len(r.pkgSvc) + 1)
	r.pkgSvc = append(r.pkgSvc, ps)
	return nil
}

func (r *fakeRepo) UpdatePackageServiceQuantity(_ context.Context, id int64, quantity int) (int64, error) {
	for _, ps := range r.pkgSvc {
		if ps.ID == id {
			ps.Quantity = quantity
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeRepo) DeletePackageService(_ context.Context, packageID, serviceID int64) (int64, error) {
	for i, ps := range r.pkgSvc {
		if ps.PackageID == packageID && ps.ServiceID == serviceID {
			r.pkgSvc = append(r.pkgSvc[:i], r.pkgSvc[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeRepo) GetPackageVenue(_ context.Context, packageID, venueID int64) (*entity.PackageVenue, error) {
	for _, pv := range r.pkgVenue {
		if pv.PackageID == packageID && pv.VenueID == venueID {
			cp := *pv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) InsertPackageVenue(_ context.Context, pv *entity.PackageVenue) error {
	pv.ID = int64(len(r.pkgVenue) + 1)
	r.pkgVenue = append(r.pkgVenue, pv)
	return nil
}

func (r *fakeRepo) UpdatePackageVenue(_ context.Context, pv *entity.PackageVenue) (int64, error) {
	for i, cur := range r.pkgVenue {
		if cur.ID == pv.ID {
			r.pkgVenue[i] = pv
			return 1, nil
		}
	}
	return 0, nil
}

type fakeTx struct{ repo *fakeRepo }

func (f fakeTx) RunCatalog(_ context.Context, fn func(repository.CatalogRepository) error) error {
	return fn(f.repo)
}

type fakeVenues struct{}

func (fakeVenues) GetByID(context.Context, int64) (*entity.Venue, error) { return nil, nil }

func (fakeVenues) GetByName(_ context.Context, name string) (*entity.Venue, error) {
	switch strings.ToLower(name) {
	case "diamond":
		return &entity.Venue{ID: 1, Name: "Diamond", Active: true}, nil
	case "kendall":
		return &entity.Venue{ID: 2, Name: "Kendall", Active: true}, nil
	}
	return nil, nil
}

func (fakeVenues) List(context.Context) ([]*entity.Venue, error) { return nil, nil }

type fakeCache struct {
	services    []*entity.Service
	packages    []*entity.Package
	invalidated int
}

func (c *fakeCache) GetServices(context.Context) ([]*entity.Service, bool) {
	return c.services, c.services != nil
}
func (c *fakeCache) SetServices(_ context.Context, s []*entity.Service) { c.services = s }
func (c *fakeCache) GetPackages(context.Context) ([]*entity.Package, bool) {
	return c.packages, c.packages != nil
}
func (c *fakeCache) SetPackages(_ context.Context, p []*entity.Package) { c.packages = p }
func (c *fakeCache) Invalidate(context.Context) {
	c.services, c.packages = nil, nil
	c.invalidated++
}

func newUseCase(repo *fakeRepo, cache repository.CatalogCache) *UseCase {
	return NewUseCase(repo, fakeVenues{}, fakeTx{repo}, cache, zerolog.Nop())
}

func TestSetServicePrice_Idempotente(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	n, err := uc.SetServicePrice(ctx, "Mini Dulces", decimal.NewFromInt(36))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	require.Len(t, repo.history, 1)
	assert.True(t, repo.history[0].OldPrice.Equal(decimal.NewFromInt(30)))
	assert.True(t, repo.history[0].NewPrice.Equal(decimal.NewFromInt(36)))

	n, err = uc.SetServicePrice(ctx, "Mini Dulces", decimal.NewFromInt(36))
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Len(t, repo.history, 1)

	_, err = uc.SetServicePrice(ctx, "No existe", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.SetServicePrice(ctx, "Mini Dulces", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetServicePrice_TodasLasFilasConElNombre(t *testing.T) {
	repo := newFakeRepo()
	repo.services = append(repo.services,
		&entity.Service{ID: 7, Name: "Mini Dulces", BasePrice: decimal.NewFromInt(25), Active: true},
		&entity.Service{ID: 8, Name: "Mini Dulces", BasePrice: decimal.NewFromInt(36), Active: false},
	)
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	n, err := uc.SetServicePrice(ctx, "Mini Dulces", decimal.NewFromInt(36))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	for _, s := range repo.services {
		if s.Name == "Mini Dulces" {
			assert.True(t, s.BasePrice.Equal(decimal.NewFromInt(36)), "id %d", s.ID)
		}
	}
	require.Len(t, repo.history, 2)
	assert.Equal(t, int64(1), *repo.history[0].ServiceID)
	assert.Equal(t, int64(7), *repo.history[1].ServiceID)

	// desactivar y renombrar también alcanzan a todas las filas
	n, err = uc.SetServiceActive(ctx, "Mini Dulces", false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = uc.RenameService(ctx, "Mini Dulces", "Mini Postres", "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRenameService_SegundaVezSinCambios(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	n, err := uc.RenameService(ctx, "Decoración Básica", "Decoracion House", "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, "Centros de mesa", repo.services[1].Description)

	n, err = uc.RenameService(ctx, "Decoración Básica", "Decoracion House", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestAttachService_Resultados(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	out, err := uc.AttachService(ctx, "Paquete Especial", "Mini Dulces", 1)
	require.NoError(t, err)
	assert.Equal(t, Created, out)

	out, err = uc.AttachService(ctx, "Paquete Especial", "Mini Dulces", 1)
	require.NoError(t, err)
	assert.Equal(t, Unchanged, out)

	out, err = uc.AttachService(ctx, "Paquete Especial", "Mini Dulces", 2)
	require.NoError(t, err)
	assert.Equal(t, Updated, out)
	assert.Len(t, repo.pkgSvc, 1)

	n, err := uc.DetachService(ctx, "Paquete Especial", "Mini Dulces")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = uc.DetachService(ctx, "Paquete Especial", "Mini Dulces")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = uc.AttachService(ctx, "Paquete Inexistente", "Mini Dulces", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApplyVenuePackageMatrix(t *testing.T) {
	repo := newFakeRepo()
	uc := newUseCase(repo, nil)
	ctx := context.Background()

	matrix := []VenuePackagePrice{
		{Venue: "Diamond", Package: "Paquete Especial", Price: decimal.NewFromInt(3500), MinGuests: 50, Available: true},
		{Venue: "Kendall", Package: "Paquete Especial", Price: decimal.NewFromInt(3000), MinGuests: 40, Available: true},
		{Venue: "Marte", Package: "Paquete Especial", Price: decimal.NewFromInt(1), Available: true},
	}
	report, err := uc.ApplyVenuePackageMatrix(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, []string{"Marte/Paquete Especial"}, report.Missing)

	matrix[1].Price = decimal.NewFromInt(3100)
	report, err = uc.ApplyVenuePackageMatrix(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Unchanged)
	assert.Len(t, repo.pkgVenue, 2)
}

func TestListServices_CacheInvalidada(t *testing.T) {
	repo := newFakeRepo()
	cache := &fakeCache{}
	uc := newUseCase(repo, cache)
	ctx := context.Background()

	_, err := uc.ListServices(ctx)
	require.NoError(t, err)
	_, err = uc.ListServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	_, err = uc.SetServiceActive(ctx, "Mini Dulces", false)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	_, err = uc.ListServices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)

	// sin cambios no invalida
	_, err = uc.SetServiceActive(ctx, "Mini Dulces", false)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)
}

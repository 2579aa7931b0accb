// catalogo aplica el conjunto fijo de correcciones del catálogo: renombres de servicios,
// ajustes de temporada, precios de servicio y la tabla de precios salón×paquete.
// Cada paso es idempotente; una segunda ejecución informa 0 filas afectadas.
//
// Uso: go run ./cmd/catalogo
package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/application/catalog"
	"github.com/jhoicas/salones-api/internal/bootstrap"
)

func main() {
	bootstrap.Run("catalogo", bootstrap.Options{RequireDatabaseURL: true, Redis: true}, func(ctx context.Context, env *bootstrap.Env) error {
		return apply(ctx, env.Catalog(), env.Log.Component("catalogo"))
	})
}

type catalogFixer interface {
	RenameService(ctx context.Context, oldName, newName, description string) (int64, error)
	SetSeasonAdjustment(ctx context.Context, name string, adjustment decimal.Decimal, description string) (int64, error)
	SetServicePrice(ctx context.Context, name string, price decimal.Decimal) (int64, error)
	ApplyVenuePackageMatrix(ctx context.Context, matrix []catalog.VenuePackagePrice) (*catalog.MatrixReport, error)
}

func apply(ctx context.Context, uc catalogFixer, log zerolog.Logger) error {
	for _, r := range renames {
		n, err := uc.RenameService(ctx, r.From, r.To, r.Description)
		if err != nil {
			return fmt.Errorf("renombrar %q: %w", r.From, err)
		}
		log.Info().Str("de", r.From).Str("a", r.To).Int64("filas", n).Msg("servicio renombrado")
	}
	for _, s := range seasons {
		n, err := uc.SetSeasonAdjustment(ctx, s.Name, s.Adjustment, s.Description)
		if err != nil {
			return fmt.Errorf("temporada %q: %w", s.Name, err)
		}
		log.Info().Str("temporada", s.Name).Str("ajuste", s.Adjustment.StringFixed(2)).Int64("filas", n).Msg("ajuste de temporada")
	}
	for _, p := range servicePrices {
		n, err := uc.SetServicePrice(ctx, p.Name, p.Price)
		if err != nil {
			return fmt.Errorf("precio %q: %w", p.Name, err)
		}
		log.Info().Str("servicio", p.Name).Str("precio", p.Price.StringFixed(2)).Int64("filas", n).Msg("precio de servicio")
	}

	report, err := uc.ApplyVenuePackageMatrix(ctx, venuePackageMatrix())
	if err != nil {
		return fmt.Errorf("precios salón×paquete: %w", err)
	}
	log.Info().
		Int("creados", report.Created).
		Int("actualizados", report.Updated).
		Int("sin_cambios", report.Unchanged).
		Strs("faltantes", report.Missing).
		Msg("precios salón×paquete")
	return nil
}

// abastecer transfiere del almacén central a los salones configurados (ALLOCATION_VENUES,
// por defecto Diamond, Kendall y Doral) hasta ALLOCATION_PER_VENUE_QTY unidades por artículo.
// Un artículo sin stock suficiente recibe lo que queda; uno agotado se omite.
//
// Uso: go run ./cmd/abastecer
package main

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/bootstrap"
)

func main() {
	bootstrap.Run("abastecer", bootstrap.Options{RequireDatabaseURL: true, Redis: true, Kafka: true}, func(ctx context.Context, env *bootstrap.Env) error {
		cfg := env.Cfg.Allocation
		report, err := env.Allocation().SupplyVenues(ctx, cfg.Venues, decimal.NewFromInt(int64(cfg.PerVenueQty)))
		if err != nil {
			return err
		}
		log := env.Log.Component("abastecer")
		for _, v := range report.Venues {
			ev := log.Info()
			if v.Error != "" {
				ev = log.Warn().Str("error", v.Error)
			}
			ev.Str("salon", v.Venue).
				Int("transferidos", v.Transferred).
				Int("omitidos", v.Skipped).
				Int("fallidos", v.Failed).
				Str("unidades", v.Units.String()).
				Msg("salón abastecido")
		}
		return nil
	})
}

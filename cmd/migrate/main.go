// migrate aplica las migraciones SQL embebidas que aún no están en schema_migrations.
//
// Uso: go run ./cmd/migrate
package main

import (
	"context"

	"github.com/jhoicas/salones-api/internal/bootstrap"
	"github.com/jhoicas/salones-api/internal/infrastructure/postgres"
)

func main() {
	bootstrap.Run("migrate", bootstrap.Options{RequireDatabaseURL: true}, func(ctx context.Context, env *bootstrap.Env) error {
		log := env.Log.Component("migrate")
		report, err := postgres.Migrate(ctx, env.Pool, log)
		if err != nil {
			return err
		}
		log.Info().
			Strs("aplicadas", report.Applied).
			Strs("omitidas", report.Skipped).
			Int("existentes", report.Existing).
			Msg("migraciones")
		return nil
	})
}

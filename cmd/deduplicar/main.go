// deduplicar busca o resuelve filas duplicadas por clave natural (servicios y paquetes por
// nombre, leads por email y teléfono). Resolver conserva el id menor, mueve las referencias
// al sobreviviente y elimina el resto.
//
// Uso: go run ./cmd/deduplicar <buscar|resolver> [servicios|paquetes|leads ...]
// Sin entidades se procesan todas.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/salones-api/internal/application/dedup"
	"github.com/jhoicas/salones-api/internal/bootstrap"
)

func usage() {
	fmt.Fprintf(os.Stderr, "uso: deduplicar <buscar|resolver> [%s ...]\n", strings.Join(dedup.Entities(), "|"))
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	mode := os.Args[1]
	if mode != "buscar" && mode != "resolver" {
		usage()
	}
	entities := os.Args[2:]
	if len(entities) == 0 {
		entities = dedup.Entities()
	}

	bootstrap.Run("deduplicar", bootstrap.Options{RequireDatabaseURL: true}, func(ctx context.Context, env *bootstrap.Env) error {
		uc := env.Dedup()
		log := env.Log.Component("deduplicar")
		for _, e := range entities {
			if mode == "buscar" {
				groups, err := uc.Find(ctx, e)
				if err != nil {
					return fmt.Errorf("%s: %w", e, err)
				}
				for _, g := range groups {
					log.Info().Str("entidad", e).Str("columna", g.Column).Str("clave", g.Key).
						Int64("conservar", g.Keep).Ints64("duplicados", g.Duplicates).Msg("grupo duplicado")
				}
				log.Info().Str("entidad", e).Int("grupos", len(groups)).Msg("búsqueda terminada")
				continue
			}

			report, err := uc.Resolve(ctx, e)
			if err != nil {
				return fmt.Errorf("%s: %w", e, err)
			}
			log.Info().Str("entidad", e).
				Int("grupos", report.Groups).
				Int64("eliminados", report.Deleted).
				Int64("referencias_movidas", report.Moved).
				Int64("referencias_descartadas", report.Dropped).
				Int("fallidos", report.Failed).
				Msg("duplicados resueltos")
		}
		return nil
	})
}

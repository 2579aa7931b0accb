// limpiar vacía las tablas de un alcance y sus dependientes, en orden de hojas a raíces,
// y reinicia las secuencias de id de las tablas vaciadas.
//
// Uso: go run ./cmd/limpiar <alcance>
//
//	alcances: clientes, comercial, contratos, inventario, leads, ofertas
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/salones-api/internal/bootstrap"
	"github.com/jhoicas/salones-api/internal/domain/schema"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "uso: limpiar <%s>\n", strings.Join(schema.Scopes(), "|"))
		os.Exit(1)
	}
	scope := os.Args[1]
	if _, err := schema.ScopeRoots(scope); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	bootstrap.Run("limpiar", bootstrap.Options{RequireDatabaseURL: true}, func(ctx context.Context, env *bootstrap.Env) error {
		uc := env.Maintenance()
		log := env.Log.Component("limpiar")

		plan, err := uc.Plan(scope)
		if err != nil {
			return err
		}
		log.Info().Str("alcance", scope).Strs("tablas", plan.Delete).Int("desvincular", len(plan.Nullify)).Msg("plan de limpieza")

		report, err := uc.Reset(ctx, scope)
		if err != nil {
			return err
		}
		for _, c := range report.Nullified {
			log.Info().Str("tabla", c.Table).Int64("filas", c.Rows).Msg("desvinculadas")
		}
		for _, c := range report.Deleted {
			log.Info().Str("tabla", c.Table).Int64("filas", c.Rows).Msg("eliminadas")
		}
		log.Info().
			Strs("secuencias_reiniciadas", report.Restarted).
			Strs("secuencias_inexistentes", report.MissingSequences).
			Msg("limpieza terminada")
		return nil
	})
}

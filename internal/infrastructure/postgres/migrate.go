package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/salones-api/internal/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationReport resumen de una ejecución de Migrate.
type MigrationReport struct {
	Applied []string
	Skipped []string
	// Existing sentencias ignoradas porque el objeto ya existía (columna, tabla o clave).
	Existing int
}

// Migrate aplica en orden los archivos de migrations/ que no estén en schema_migrations.
// Cada sentencia se ejecuta por separado: un error "ya existe" se registra y se continúa,
// cualquier otro detiene la migración.
func Migrate(ctx context.Context, q Querier, log zerolog.Logger) (*MigrationReport, error) {
	if _, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return nil, classify("create schema_migrations", err)
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("listar migraciones: %w", err)
	}
	sort.Strings(files)

	report := &MigrationReport{}
	for _, file := range files {
		version := strings.TrimSuffix(strings.TrimPrefix(file, "migrations/"), ".sql")

		var done bool
		if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&done); err != nil {
			return report, classify("check migration "+version, err)
		}
		if done {
			report.Skipped = append(report.Skipped, version)
			continue
		}

		content, err := migrationsFS.ReadFile(file)
		if err != nil {
			return report, fmt.Errorf("leer %s: %w", file, err)
		}
		for i, stmt := range splitStatements(string(content)) {
			if _, err := q.Exec(ctx, stmt); err != nil {
				err = classify(fmt.Sprintf("migración %s sentencia %d", version, i+1), err)
				if domain.KindOf(err).AlreadyExists() {
					log.Warn().Str("version", version).Int("sentencia", i+1).
						Str("kind", domain.KindOf(err).String()).Msg("ya existe, se continúa")
					report.Existing++
					continue
				}
				return report, err
			}
		}
		if _, err := q.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return report, classify("record migration "+version, err)
		}
		log.Info().Str("version", version).Msg("migración aplicada")
		report.Applied = append(report.Applied, version)
	}
	return report, nil
}

// splitStatements separa por ';' al final de línea y descarta comentarios de línea completa.
func splitStatements(sql string) []string {
	var (
		out []string
		cur strings.Builder
	)
	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			if stmt := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")); stmt != "" {
				out = append(out, stmt)
			}
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		out = append(out, rest)
	}
	return out
}

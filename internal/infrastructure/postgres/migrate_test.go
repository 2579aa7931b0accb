package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salones-api/internal/domain/schema"
)

func TestSplitStatements(t *testing.T) {
	sql := `
-- comentario
CREATE TABLE a (
    id BIGSERIAL PRIMARY KEY
);

ALTER TABLE a ADD COLUMN b TEXT;
SELECT 1`
	stmts := splitStatements(sql)
	require.Len(t, stmts, 3)
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE a ("))
	assert.True(t, strings.HasSuffix(stmts[0], ")"))
	assert.Equal(t, "ALTER TABLE a ADD COLUMN b TEXT", stmts[1])
	assert.Equal(t, "SELECT 1", stmts[2])
}

func TestMigracionesEmbebidas(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "migrations/001_init.sql", files[0])

	content, err := migrationsFS.ReadFile(files[0])
	require.NoError(t, err)
	// todas las tablas del grafo de limpieza existen en el esquema inicial
	for _, table := range schema.Salones().Tables() {
		assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestMigraciones_AddColumnIdempotente(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	for _, file := range files {
		content, err := migrationsFS.ReadFile(file)
		require.NoError(t, err)
		for _, stmt := range splitStatements(string(content)) {
			upper := strings.ToUpper(stmt)
			if strings.Contains(upper, "ADD COLUMN") {
				assert.Contains(t, upper, "ADD COLUMN IF NOT EXISTS", "%s: %s", file, stmt)
			}
		}
	}
}

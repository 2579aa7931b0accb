package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/salones-api/internal/domain/repository"
	"github.com/jhoicas/salones-api/internal/domain/schema"
)

var _ repository.DuplicateRepository = (*DuplicateRepo)(nil)

// DuplicateRepo consultas genéricas por tabla/columna. Los nombres vienen del grafo declarado
// en schema, nunca de la entrada del usuario, y se citan con pgx.Identifier.
type DuplicateRepo struct {
	q Querier
}

func NewDuplicateRepository(q Querier) *DuplicateRepo {
	return &DuplicateRepo{q: q}
}

func ident(name string) string { return pgx.Identifier{name}.Sanitize() }

// FindGroups claves repetidas con sus ids ascendentes; grupos ordenados por su id menor.
func (r *DuplicateRepo) FindGroups(ctx context.Context, table, column string) ([]repository.DuplicateGroup, error) {
	col := ident(column)
	query := fmt.Sprintf(`
		SELECT %[1]s::text, array_agg(id ORDER BY id)
		FROM %[2]s
		WHERE %[1]s IS NOT NULL AND %[1]s::text <> ''
		GROUP BY %[1]s
		HAVING COUNT(*) > 1
		ORDER BY MIN(id)`, col, ident(table))
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, classify("find duplicates "+table, err)
	}
	defer rows.Close()
	var groups []repository.DuplicateGroup
	for rows.Next() {
		var g repository.DuplicateGroup
		if err := rows.Scan(&g.Key, &g.IDs); err != nil {
			return nil, classify("scan duplicates "+table, err)
		}
		groups = append(groups, g)
	}
	return groups, classify("find duplicates "+table, rows.Err())
}

// Repoint con UniqueWith: primero mueve las filas que no chocan con una ya existente del destino,
// luego borra las que quedaron apuntando al duplicado.
func (r *DuplicateRepo) Repoint(ctx context.Context, ref schema.Edge, fromID, toID int64) (int64, int64, error) {
	table, col := ident(ref.Child), ident(ref.Column)
	op := "repoint " + ref.String()

	if ref.UniqueWith == "" {
		tag, err := r.q.Exec(ctx, fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE %s = $2`, table, col, col), toID, fromID)
		if err != nil {
			return 0, 0, classify(op, err)
		}
		return tag.RowsAffected(), 0, nil
	}

	other := ident(ref.UniqueWith)
	moved, err := r.q.Exec(ctx, fmt.Sprintf(`
		UPDATE %[1]s SET %[2]s = $1
		WHERE %[2]s = $2
		  AND NOT EXISTS (SELECT 1 FROM %[1]s x WHERE x.%[2]s = $1 AND x.%[3]s = %[1]s.%[3]s)`,
		table, col, other), toID, fromID)
	if err != nil {
		return 0, 0, classify(op, err)
	}
	dropped, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, col), fromID)
	if err != nil {
		return 0, 0, classify(op, err)
	}
	return moved.RowsAffected(), dropped.RowsAffected(), nil
}

func (r *DuplicateRepo) DeleteRow(ctx context.Context, table string, id int64) (int64, error) {
	tag, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, ident(table)), id)
	if err != nil {
		return 0, classify("delete "+table, err)
	}
	return tag.RowsAffected(), nil
}

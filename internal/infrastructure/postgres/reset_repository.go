package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/salones-api/internal/domain/repository"
	"github.com/jhoicas/salones-api/internal/domain/schema"
)

var (
	_ repository.ResetRepository    = (*ResetRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

// ResetRepo ejecuta los pasos de un plan de limpieza (usable con tx).
type ResetRepo struct {
	q Querier
}

func NewResetRepository(q Querier) *ResetRepo {
	return &ResetRepo{q: q}
}

func (r *ResetRepo) Nullify(ctx context.Context, e schema.Edge) (int64, error) {
	col := ident(e.Column)
	tag, err := r.q.Exec(ctx, fmt.Sprintf(`UPDATE %s SET %s = NULL WHERE %s IS NOT NULL`, ident(e.Child), col, col))
	if err != nil {
		return 0, classify("nullify "+e.String(), err)
	}
	return tag.RowsAffected(), nil
}

func (r *ResetRepo) DeleteAll(ctx context.Context, table string) (int64, error) {
	tag, err := r.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, ident(table)))
	if err != nil {
		return 0, classify("delete all "+table, err)
	}
	return tag.RowsAffected(), nil
}

func (r *ResetRepo) DeleteRowStep(ctx context.Context, root string, step schema.RowStep, rootID int64) (int64, error) {
	var sql string
	if step.Nullify {
		col := ident(step.Column())
		sql = fmt.Sprintf(`UPDATE %s SET %s = NULL WHERE %s`, ident(step.Table), col, rowPredicate(step.Path))
	} else {
		sql = fmt.Sprintf(`DELETE FROM %s WHERE %s`, ident(step.Table), rowPredicate(step.Path))
	}
	tag, err := r.q.Exec(ctx, sql, rootID)
	if err != nil {
		return 0, classify(fmt.Sprintf("cascade %s -> %s", root, step.Table), err)
	}
	return tag.RowsAffected(), nil
}

// rowPredicate filtra las filas de la tabla final de path que dependen de la fila raíz $1.
func rowPredicate(path []schema.Edge) string {
	if len(path) == 0 {
		return "id = $1"
	}
	pred := fmt.Sprintf("%s = $1", ident(path[0].Column))
	for _, e := range path[1:] {
		pred = fmt.Sprintf("%s IN (SELECT id FROM %s WHERE %s)", ident(e.Column), ident(e.Parent), pred)
	}
	return pred
}

// SequenceRepo reinicio de secuencias BIGSERIAL.
type SequenceRepo struct {
	q Querier
}

func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

func (r *SequenceRepo) Exists(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM pg_sequences WHERE schemaname = current_schema() AND sequencename = $1)`,
		name).Scan(&ok)
	if err != nil {
		return false, classify("check sequence "+name, err)
	}
	return ok, nil
}

func (r *SequenceRepo) Restart(ctx context.Context, name string) error {
	_, err := r.q.Exec(ctx, fmt.Sprintf(`ALTER SEQUENCE %s RESTART WITH 1`, ident(name)))
	return classify("restart sequence "+name, err)
}

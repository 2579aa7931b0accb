// Package dedup detecta filas con la misma clave natural y las resuelve conservando el id menor.
package dedup

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/repository"
	"github.com/jhoicas/salones-api/internal/domain/schema"
)

// TxRunner una transacción por fila duplicada.
type TxRunner interface {
	RunDedup(ctx context.Context, fn func(repository.DuplicateRepository) error) error
}

// Entity tabla con sus claves naturales, en el orden en que se resuelven.
type Entity struct {
	Table string
	Keys  []string
}

var entities = map[string]Entity{
	"servicios": {Table: schema.TableServices, Keys: []string{"name"}},
	"paquetes":  {Table: schema.TablePackages, Keys: []string{"name"}},
	"leads":     {Table: schema.TableLeads, Keys: []string{"email", "phone"}},
}

// Entities nombres aceptados por Find y Resolve, ordenados.
func Entities() []string {
	out := make([]string, 0, len(entities))
	for k := range entities {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lookup(name string) (Entity, error) {
	e, ok := entities[name]
	if !ok {
		return Entity{}, fmt.Errorf("entidad %q: %w", name, domain.ErrInvalidInput)
	}
	return e, nil
}

// Group grupo de duplicados: Keep sobrevive, Duplicates se eliminan.
type Group struct {
	Column     string  `json:"columna"`
	Key        string  `json:"clave"`
	Keep       int64   `json:"conservar"`
	Duplicates []int64 `json:"duplicados"`
}

// Report resultado de Resolve.
type Report struct {
	Entity  string   `json:"entidad"`
	Groups  int      `json:"grupos"`
	Deleted int64    `json:"eliminados"`
	Moved   int64    `json:"referencias_movidas"`
	Dropped int64    `json:"referencias_descartadas"`
	Failed  int      `json:"fallidos"`
	Errors  []string `json:"errores"`
}

// UseCase detección y resolución.
type UseCase struct {
	repo  repository.DuplicateRepository
	tx    TxRunner
	graph *schema.Graph
	log   zerolog.Logger
}

// NewUseCase construye el caso de uso sobre el grafo declarado de salones.
func NewUseCase(repo repository.DuplicateRepository, tx TxRunner, log zerolog.Logger) *UseCase {
	return &UseCase{repo: repo, tx: tx, graph: schema.Salones(), log: log}
}

func (uc *UseCase) groups(ctx context.Context, e Entity, column string) ([]Group, error) {
	found, err := uc.repo.FindGroups(ctx, e.Table, column)
	if err != nil {
		return nil, err
	}
	out := make([]Group, 0, len(found))
	for _, g := range found {
		if len(g.IDs) < 2 {
			continue
		}
		ids := append([]int64(nil), g.IDs...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		out = append(out, Group{Column: column, Key: g.Key, Keep: ids[0], Duplicates: ids[1:]})
	}
	return out, nil
}

// Find lista los grupos de duplicados de la entidad sin modificar nada.
func (uc *UseCase) Find(ctx context.Context, entity string) ([]Group, error) {
	e, err := lookup(entity)
	if err != nil {
		return nil, err
	}
	all := []Group{}
	for _, col := range e.Keys {
		gs, err := uc.groups(ctx, e, col)
		if err != nil {
			return nil, err
		}
		all = append(all, gs...)
	}
	return all, nil
}

// Resolve re-apunta las referencias de cada duplicado al id conservado y borra el duplicado.
// Cada duplicado va en su propia transacción; un fallo se registra y no detiene el resto.
// Las claves se procesan en orden y cada una se vuelve a consultar, así un lead borrado
// por email no reaparece en los grupos por teléfono.
func (uc *UseCase) Resolve(ctx context.Context, entity string) (*Report, error) {
	e, err := lookup(entity)
	if err != nil {
		return nil, err
	}
	refs := uc.graph.Inbound(e.Table)
	report := &Report{Entity: entity, Errors: []string{}}

	for _, col := range e.Keys {
		gs, err := uc.groups(ctx, e, col)
		if err != nil {
			return report, err
		}
		report.Groups += len(gs)
		for _, g := range gs {
			for _, dup := range g.Duplicates {
				if err := uc.resolveOne(ctx, e.Table, refs, dup, g.Keep, report); err != nil {
					report.Failed++
					report.Errors = append(report.Errors, fmt.Sprintf("%s %d: %v", e.Table, dup, err))
					uc.log.Error().Err(err).
						Str("tabla", e.Table).Str("clave", g.Key).Int64("duplicado", dup).Int64("conservar", g.Keep).
						Msg("no se pudo resolver duplicado")
				}
			}
		}
	}
	uc.log.Info().Str("entidad", entity).Int("grupos", report.Groups).Int64("eliminados", report.Deleted).
		Int("fallidos", report.Failed).Msg("duplicados resueltos")
	return report, nil
}

func (uc *UseCase) resolveOne(ctx context.Context, table string, refs []schema.Edge, dup, keep int64, report *Report) error {
	var moved, dropped, deleted int64
	err := uc.tx.RunDedup(ctx, func(repo repository.DuplicateRepository) error {
		for _, ref := range refs {
			m, d, err := repo.Repoint(ctx, ref, dup, keep)
			if err != nil {
				return err
			}
			moved += m
			dropped += d
		}
		n, err := repo.DeleteRow(ctx, table, dup)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return err
	}
	report.Moved += moved
	report.Dropped += dropped
	report.Deleted += deleted
	return nil
}

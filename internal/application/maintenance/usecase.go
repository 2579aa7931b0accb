// Package maintenance limpieza masiva por alcance y borrado en cascada de una fila,
// ambos calculados sobre el grafo declarado en schema.
package maintenance

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/repository"
	"github.com/jhoicas/salones-api/internal/domain/schema"
)

// TxRunner transacción de limpieza.
type TxRunner interface {
	RunReset(ctx context.Context, fn func(repository.ResetRepository) error) error
}

// cascadeRoots tablas que admiten DeleteCascade desde la API.
var cascadeRoots = map[string]bool{
	schema.TableContracts: true,
	schema.TableOffers:    true,
	schema.TableClients:   true,
}

// TableCount filas afectadas en una tabla.
type TableCount struct {
	Table string `json:"tabla"`
	Rows  int64  `json:"filas"`
}

// ResetReport resultado de Reset.
type ResetReport struct {
	Scope            string       `json:"alcance"`
	Nullified        []TableCount `json:"desvinculadas"`
	Deleted          []TableCount `json:"eliminadas"`
	Restarted        []string     `json:"secuencias_reiniciadas"`
	MissingSequences []string     `json:"secuencias_inexistentes"`
}

// CascadeReport resultado de DeleteCascade.
type CascadeReport struct {
	Table     string       `json:"tabla"`
	ID        int64        `json:"id"`
	Nullified []TableCount `json:"desvinculadas"`
	Deleted   []TableCount `json:"eliminadas"`
}

// UseCase limpieza y borrado en cascada.
type UseCase struct {
	tx    TxRunner
	seqs  repository.SequenceRepository
	graph *schema.Graph
	log   zerolog.Logger
}

func NewUseCase(tx TxRunner, seqs repository.SequenceRepository, log zerolog.Logger) *UseCase {
	return &UseCase{tx: tx, seqs: seqs, graph: schema.Salones(), log: log}
}

// Plan vista previa de la limpieza de un alcance. No toca la base.
func (uc *UseCase) Plan(scope string) (*schema.Plan, error) {
	roots, err := schema.ScopeRoots(scope)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	return uc.graph.Teardown(roots...)
}

// Reset ejecuta el plan del alcance: nullify y deletes en una transacción, luego reinicia
// las secuencias de las tablas vaciadas. Una secuencia inexistente se registra y se omite.
func (uc *UseCase) Reset(ctx context.Context, scope string) (*ResetReport, error) {
	plan, err := uc.Plan(scope)
	if err != nil {
		return nil, err
	}
	report := &ResetReport{Scope: scope, Restarted: []string{}, MissingSequences: []string{}}

	err = uc.tx.RunReset(ctx, func(repo repository.ResetRepository) error {
		report.Nullified, report.Deleted = nil, nil
		for _, e := range plan.Nullify {
			n, err := repo.Nullify(ctx, e)
			if err != nil {
				return err
			}
			report.Nullified = append(report.Nullified, TableCount{Table: e.Child + "." + e.Column, Rows: n})
		}
		for _, t := range plan.Delete {
			n, err := repo.DeleteAll(ctx, t)
			if err != nil {
				return err
			}
			uc.log.Info().Str("tabla", t).Int64("filas", n).Msg("tabla vaciada")
			report.Deleted = append(report.Deleted, TableCount{Table: t, Rows: n})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("limpieza %s: %w", scope, err)
	}

	for _, seq := range plan.Sequences {
		ok, err := uc.seqs.Exists(ctx, seq)
		if err != nil {
			return report, err
		}
		if !ok {
			uc.log.Warn().Str("secuencia", seq).Msg("secuencia inexistente, se omite")
			report.MissingSequences = append(report.MissingSequences, seq)
			continue
		}
		if err := uc.seqs.Restart(ctx, seq); err != nil {
			return report, err
		}
		report.Restarted = append(report.Restarted, seq)
	}
	return report, nil
}

// DeleteCascade borra una fila de contratos, ofertas o clientes con todos sus dependientes.
func (uc *UseCase) DeleteCascade(ctx context.Context, table string, id int64) (*CascadeReport, error) {
	if !cascadeRoots[table] || id <= 0 {
		return nil, domain.ErrInvalidInput
	}
	steps, err := uc.graph.RowTeardown(table)
	if err != nil {
		return nil, err
	}
	report := &CascadeReport{Table: table, ID: id}
	err = uc.tx.RunReset(ctx, func(repo repository.ResetRepository) error {
		report.Nullified, report.Deleted = nil, nil
		for _, step := range steps {
			n, err := repo.DeleteRowStep(ctx, table, step, id)
			if err != nil {
				return err
			}
			if step.Nullify {
				report.Nullified = append(report.Nullified, TableCount{Table: step.Table + "." + step.Column(), Rows: n})
				continue
			}
			if len(step.Path) == 0 && n == 0 {
				return fmt.Errorf("%s %d: %w", table, id, domain.ErrNotFound)
			}
			report.Deleted = append(report.Deleted, TableCount{Table: step.Table, Rows: n})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("tabla", table).Int64("id", id).Msg("borrado en cascada")
	return report, nil
}

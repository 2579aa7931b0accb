package maintenance

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/repository"
	"github.com/jhoicas/salones-api/internal/domain/schema"
)

type fakeReset struct {
	calls   []string
	rows    map[string]int64
	failOn  string
	commits int
}

func (f *fakeReset) Nullify(_ context.Context, e schema.Edge) (int64, error) {
	f.calls = append(f.calls, "null:"+e.Child+"."+e.Column)
	return 1, nil
}

func (f *fakeReset) DeleteAll(_ context.Context, table string) (int64, error) {
	if table == f.failOn {
		return 0, &domain.PersistenceError{Kind: domain.KindForeignKeyViolation, Op: "delete all " + table}
	}
	f.calls = append(f.calls, "del:"+table)
	return f.rows[table], nil
}

func (f *fakeReset) DeleteRowStep(_ context.Context, _ string, step schema.RowStep, _ int64) (int64, error) {
	if step.Nullify {
		f.calls = append(f.calls, "null:"+step.Table+"."+step.Column())
		return 0, nil
	}
	f.calls = append(f.calls, "del:"+step.Table)
	return f.rows[step.Table], nil
}

type fakeTx struct{ f *fakeReset }

func (t fakeTx) RunReset(_ context.Context, fn func(repository.ResetRepository) error) error {
	if err := fn(t.f); err != nil {
		return err
	}
	t.f.commits++
	return nil
}

type fakeSeqs struct {
	missing   map[string]bool
	restarted []string
}

func (s *fakeSeqs) Exists(_ context.Context, name string) (bool, error) { return !s.missing[name], nil }

func (s *fakeSeqs) Restart(_ context.Context, name string) error {
	s.restarted = append(s.restarted, name)
	return nil
}

func TestReset_Contratos(t *testing.T) {
	f := &fakeReset{rows: map[string]int64{"contracts": 3}}
	seqs := &fakeSeqs{missing: map[string]bool{"events_id_seq": true}}
	uc := NewUseCase(fakeTx{f}, seqs, zerolog.Nop())

	report, err := uc.Reset(context.Background(), "contratos")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"null:inventory_movements.contract_id",
		"del:contract_services", "del:events", "del:inventory_assignments", "del:payments", "del:contracts",
	}, f.calls)
	assert.Equal(t, 1, f.commits)
	assert.Equal(t, []string{"events_id_seq"}, report.MissingSequences)
	assert.NotContains(t, seqs.restarted, "events_id_seq")
	assert.Contains(t, seqs.restarted, "contracts_id_seq")
	assert.Equal(t, TableCount{Table: "contracts", Rows: 3}, report.Deleted[4])
}

func TestReset_FalloNoReiniciaSecuencias(t *testing.T) {
	f := &fakeReset{failOn: "events"}
	seqs := &fakeSeqs{}
	uc := NewUseCase(fakeTx{f}, seqs, zerolog.Nop())

	_, err := uc.Reset(context.Background(), "contratos")
	require.Error(t, err)
	assert.Equal(t, domain.KindForeignKeyViolation, domain.KindOf(err))
	assert.Zero(t, f.commits)
	assert.Empty(t, seqs.restarted)
}

func TestPlan_AlcanceDesconocido(t *testing.T) {
	uc := NewUseCase(fakeTx{&fakeReset{}}, &fakeSeqs{}, zerolog.Nop())
	_, err := uc.Plan("todo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	plan, err := uc.Plan("leads")
	require.NoError(t, err)
	assert.Equal(t, []string{"leads"}, plan.Delete)
	assert.Empty(t, plan.Nullify)
}

func TestDeleteCascade_Oferta(t *testing.T) {
	f := &fakeReset{rows: map[string]int64{"offers": 1, "offer_services": 2}}
	uc := NewUseCase(fakeTx{f}, &fakeSeqs{}, zerolog.Nop())

	report, err := uc.DeleteCascade(context.Background(), schema.TableOffers, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"null:contracts.offer_id", "del:offer_services", "del:offers"}, f.calls)
	require.Len(t, report.Deleted, 2)
	assert.Equal(t, int64(2), report.Deleted[0].Rows)
}

func TestDeleteCascade_NoExiste(t *testing.T) {
	f := &fakeReset{rows: map[string]int64{}}
	uc := NewUseCase(fakeTx{f}, &fakeSeqs{}, zerolog.Nop())

	_, err := uc.DeleteCascade(context.Background(), schema.TableContracts, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, f.commits)

	_, err = uc.DeleteCascade(context.Background(), schema.TableServices, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

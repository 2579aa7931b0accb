package inventory

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/entity"
)

func newLedger(s *store, pub EventPublisher) *LedgerUseCase {
	return NewLedgerUseCase(fakeTx{s}, fakeCentral{s}, fakeVenueStock{s}, fakeMovements{s}, pub, zerolog.Nop())
}

func TestRestock_EntradaDeProveedor(t *testing.T) {
	s := newStore()
	s.addItem(1, "Sillas", 5)
	pub := &fakePublisher{}
	uc := newLedger(s, pub)

	after, err := uc.Restock(context.Background(), 1, d(40), "", nil)
	require.NoError(t, err)
	assert.True(t, after.Quantity.Equal(d(45)))

	require.Len(t, s.movements, 1)
	m := s.movements[0]
	assert.Equal(t, entity.MovementEntry, m.Kind)
	assert.Equal(t, entity.LocationSupplier, m.Origin)
	assert.Equal(t, entity.LocationCentral, m.Destination)
	assert.Len(t, pub.events, 1)

	_, err = uc.Restock(context.Background(), 99, d(1), "", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, s.movements, 1)
}

func TestAdjustCentral_RegistraDiferencia(t *testing.T) {
	s := newStore()
	s.addItem(1, "Sillas", 50)
	uc := newLedger(s, nil)
	ctx := context.Background()

	qty := d(30)
	after, err := uc.AdjustCentral(ctx, AdjustInput{ItemID: 1, Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, after.Quantity.Equal(d(30)))
	assert.True(t, after.MinQuantity.Equal(entity.DefaultCentralMinimum))
	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementExit, s.movements[0].Kind)
	assert.True(t, s.movements[0].Quantity.Equal(d(20)))

	// solo el mínimo: sin movimiento
	minQty := d(5)
	_, err = uc.AdjustCentral(ctx, AdjustInput{ItemID: 1, MinQuantity: &minQty})
	require.NoError(t, err)
	assert.Len(t, s.movements, 1)
	assert.True(t, s.central[1].MinQuantity.Equal(d(5)))

	neg := d(-1)
	_, err = uc.AdjustCentral(ctx, AdjustInput{ItemID: 1, Quantity: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAlerts_BajoMinimo(t *testing.T) {
	s := newStore()
	s.addItem(1, "Sillas", 100)
	s.addItem(2, "Manteles", 3)
	alloc := newAllocation(s)
	_, err := alloc.Transfer(context.Background(), TransferInput{ItemID: 1, VenueID: 1, Quantity: d(4)})
	require.NoError(t, err)

	alerts, err := newLedger(s, nil).Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts.Central, 1)
	assert.Equal(t, int64(2), alerts.Central[0].ItemID)
	require.Len(t, alerts.Venues, 1)
	assert.Equal(t, int64(1), alerts.Venues[0].VenueID)
}

type fakeRenderer struct{ got *InventoryReport }

func (f *fakeRenderer) RenderInventory(_ context.Context, r *InventoryReport) ([]byte, error) {
	f.got = r
	return []byte("%PDF"), nil
}

func TestReport_CuentaAlertas(t *testing.T) {
	s := newStore()
	s.addItem(1, "Sillas", 100)
	s.addItem(2, "Manteles", 3)
	_, err := newAllocation(s).Transfer(context.Background(), TransferInput{ItemID: 1, VenueID: 2, Quantity: d(4)})
	require.NoError(t, err)

	r := &fakeRenderer{}
	out, err := newLedger(s, nil).Report(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), out)
	require.NotNil(t, r.got)
	assert.Len(t, r.got.Central, 2)
	assert.Len(t, r.got.Venues, 1)
	assert.Equal(t, 2, r.got.Alerts)
}

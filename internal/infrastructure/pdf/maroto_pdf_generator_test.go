package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/salones-api/internal/application/inventory"
	"github.com/jhoicas/salones-api/internal/domain/entity"
)

func TestRenderInventory(t *testing.T) {
	r := &inventory.InventoryReport{
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Central: []*entity.CentralStock{
			{ItemID: 1, ItemName: "Sillas Tiffany", Quantity: decimal.NewFromInt(120), MinQuantity: entity.DefaultCentralMinimum},
		},
		Venues: []*entity.VenueStock{
			{VenueID: 1, VenueName: "Diamond", ItemID: 1, ItemName: "Sillas Tiffany", Quantity: decimal.NewFromInt(4), MinQuantity: entity.DefaultVenueMinimum},
		},
		Alerts: 1,
	}
	out, err := NewMarotoPDFGenerator("").RenderInventory(context.Background(), r)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, "50", quantity(decimal.NewFromInt(50)))
	assert.Equal(t, "12.50", quantity(decimal.RequireFromString("12.5")))
}

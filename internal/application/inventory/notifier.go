package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/salones-api/internal/domain/entity"
)

// notifier publica los movimientos ya confirmados; sin publisher no hace nada.
type notifier struct {
	pub EventPublisher
	log zerolog.Logger
}

func (n notifier) movement(ctx context.Context, m *entity.Movement) {
	if n.pub == nil || m == nil {
		return
	}
	ev := MovementEvent{
		EventID:       uuid.New().String(),
		TransactionID: m.TransactionID,
		MovementID:    m.ID,
		ItemID:        m.ItemID,
		Kind:          m.Kind,
		Origin:        m.Origin,
		Destination:   m.Destination,
		Quantity:      m.Quantity,
		Reason:        m.Reason,
		OccurredAt:    m.CreatedAt,
	}
	if err := n.pub.PublishMovement(ctx, ev); err != nil {
		n.log.Warn().Err(err).Int64("movement_id", m.ID).Msg("no se pudo publicar el movimiento")
	}
}

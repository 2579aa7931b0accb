package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que stock de salón, stock central y movimiento se confirmen juntos o no se confirmen.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		central repository.CentralStockRepository,
		venues repository.VenueStockRepository,
		movements repository.MovementRepository,
	) error) error
}

// MovementEvent evento publicado tras confirmar un movimiento del libro.
type MovementEvent struct {
	EventID       string          `json:"event_id"`
	TransactionID string          `json:"transaction_id"`
	MovementID    int64           `json:"movement_id"`
	ItemID        int64           `json:"item_id"`
	Kind          string          `json:"kind"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// EventPublisher publica eventos de movimiento (Kafka). Un fallo nunca revierte el libro.
type EventPublisher interface {
	PublishMovement(ctx context.Context, ev MovementEvent) error
}

// Unlock libera un candado adquirido.
type Unlock func(ctx context.Context) error

// Locker candado distribuido; Acquire devuelve domain.ErrLocked si otro proceso lo tiene.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}

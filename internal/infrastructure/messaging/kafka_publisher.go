// Package messaging publica los movimientos del libro de inventario en Kafka.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/propagation"

	"github.com/jhoicas/salones-api/internal/application/inventory"
	"github.com/jhoicas/salones-api/pkg/config"
)

// MessageProducer lo que el publisher necesita de un *kafka.Writer.
type MessageProducer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var _ inventory.EventPublisher = (*MovementPublisher)(nil)

// MovementPublisher escribe un mensaje JSON por movimiento, con clave = item_id para que los
// movimientos de un artículo queden ordenados en la misma partición.
type MovementPublisher struct {
	producer   MessageProducer
	propagator propagation.TextMapPropagator
	timeout    time.Duration
}

// NewMovementPublisher construye el writer a partir de la configuración.
func NewMovementPublisher(cfg config.KafkaConfig) *MovementPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		MaxAttempts:            cfg.MaxAttempts,
		WriteTimeout:           cfg.WriteTimeout,
	}
	return NewMovementPublisherWith(w, cfg.WriteTimeout)
}

// NewMovementPublisherWith usa un producer ya construido. timeout <= 0 deja el contexto del
// llamador sin tope.
func NewMovementPublisherWith(p MessageProducer, timeout time.Duration) *MovementPublisher {
	return &MovementPublisher{producer: p, propagator: propagation.TraceContext{}, timeout: timeout}
}

// PublishMovement publica el evento con el contexto de traza en las cabeceras.
func (p *MovementPublisher) PublishMovement(ctx context.Context, ev inventory.MovementEvent) error {
	msg, err := p.encode(ctx, ev)
	if err != nil {
		return err
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.producer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publicar movimiento %d: %w", ev.MovementID, err)
	}
	return nil
}

func (p *MovementPublisher) encode(ctx context.Context, ev inventory.MovementEvent) (kafka.Message, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: serializar movimiento: %w", err)
	}
	carrier := headerCarrier{}
	p.propagator.Inject(ctx, carrier)

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.ItemID, 10)),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("inventario.movimiento." + ev.Kind)},
		},
	}
	for k, v := range carrier {
		msg.Headers = append(msg.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return msg, nil
}

func (p *MovementPublisher) Close() error {
	return p.producer.Close()
}

// headerCarrier adapta un mapa a propagation.TextMapCarrier.
type headerCarrier map[string]string

func (c headerCarrier) Get(key string) string { return c[key] }
func (c headerCarrier) Set(key, value string) { c[key] = value }
func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

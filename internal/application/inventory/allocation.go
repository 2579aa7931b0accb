package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

// Candado del abastecimiento masivo.
const (
	SupplyLockKey = "lock:abastecimiento"
	supplyLockTTL = 10 * time.Minute
)

// Motivos por defecto de cada flujo.
const (
	reasonTransfer = "Transferencia desde almacén central"
	reasonBatch    = "Abastecimiento inicial del salón %s"
	reasonSupply   = "Abastecimiento masivo del salón %s"
)

// Policy qué hacer cuando se pide más de lo disponible.
type Policy int

const (
	// Clamp transfiere min(pedido, disponible); 0 disponible = se omite sin error.
	Clamp Policy = iota
	// Strict rechaza con domain.ErrInsufficientStock.
	Strict
)

// AllocationUseCase mueve stock del almacén central a los salones.
// Cada par (salón, artículo) es una transacción: bloqueo de la fila central, upsert del salón,
// decremento con guarda y movimiento.
type AllocationUseCase struct {
	tx       TxRunner
	central  repository.CentralStockRepository
	venues   repository.VenueRepository
	locker   Locker
	notify   notifier
	venueMin decimal.Decimal
	tracer   trace.Tracer
	log      zerolog.Logger
}

// Option configura dependencias opcionales.
type Option func(*AllocationUseCase)

// WithPublisher publica cada transferencia confirmada.
func WithPublisher(p EventPublisher) Option {
	return func(uc *AllocationUseCase) { uc.notify.pub = p }
}

// WithLocker serializa los abastecimientos masivos entre procesos.
func WithLocker(l Locker) Option {
	return func(uc *AllocationUseCase) { uc.locker = l }
}

// WithVenueMinimum mínimo con el que se crea el stock de un salón (por defecto 10).
func WithVenueMinimum(minQty decimal.Decimal) Option {
	return func(uc *AllocationUseCase) { uc.venueMin = minQty }
}

// NewAllocationUseCase construye el caso de uso.
func NewAllocationUseCase(
	tx TxRunner,
	central repository.CentralStockRepository,
	venues repository.VenueRepository,
	log zerolog.Logger,
	opts ...Option,
) *AllocationUseCase {
	uc := &AllocationUseCase{
		tx:       tx,
		central:  central,
		venues:   venues,
		venueMin: entity.DefaultVenueMinimum,
		tracer:   otel.Tracer("github.com/jhoicas/salones-api/inventory"),
		log:      log,
	}
	uc.notify.log = log
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// AllocationResult resultado de una asignación.
type AllocationResult struct {
	ItemID        int64           `json:"item_id"`
	ItemName      string          `json:"item_name"`
	Transferred   decimal.Decimal `json:"transferred"`
	Skipped       bool            `json:"skipped"`
	MovementID    int64           `json:"movement_id,omitempty"`
	TransactionID string          `json:"transaction_id,omitempty"`
}

type allocation struct {
	venue     *entity.Venue
	itemID    int64
	requested decimal.Decimal
	reason    string
	policy    Policy
	userID    *int64
}

// venueLabel destino del movimiento: nombre del salón en minúsculas.
func venueLabel(name string) string {
	return cases.Lower(language.Spanish).String(strings.TrimSpace(name))
}

func (uc *AllocationUseCase) allocate(ctx context.Context, in allocation) (*AllocationResult, error) {
	ctx, span := uc.tracer.Start(ctx, "inventario.allocate", trace.WithAttributes(
		attribute.Int64("venue.id", in.venue.ID),
		attribute.Int64("item.id", in.itemID),
		attribute.String("requested", in.requested.String()),
	))
	defer span.End()

	if !in.requested.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	res := &AllocationResult{ItemID: in.itemID, Transferred: decimal.Zero}
	var mov *entity.Movement

	err := uc.tx.Run(ctx, func(
		central repository.CentralStockRepository,
		venues repository.VenueStockRepository,
		movements repository.MovementRepository,
	) error {
		// Bloquea la fila central hasta el commit
		stock, err := central.GetForUpdate(ctx, in.itemID)
		if err != nil {
			return err
		}
		if stock == nil {
			return domain.ErrNotFound
		}
		res.ItemName = stock.ItemName

		amount := decimal.Min(in.requested, stock.Quantity)
		if in.policy == Strict && amount.LessThan(in.requested) {
			return domain.ErrInsufficientStock
		}
		if !amount.IsPositive() {
			res.Skipped = true
			return nil
		}

		if err := venues.AddQuantity(ctx, in.venue.ID, in.itemID, amount, uc.venueMin); err != nil {
			return err
		}
		if err := central.Decrement(ctx, in.itemID, amount); err != nil {
			return err
		}
		mov = &entity.Movement{
			ItemID:      in.itemID,
			Kind:        entity.MovementTransfer,
			Origin:      entity.LocationCentral,
			Destination: venueLabel(in.venue.Name),
			Quantity:    amount,
			Reason:      in.reason,
			UserID:      in.userID,
		}
		if err := movements.Append(ctx, mov); err != nil {
			return err
		}
		res.Transferred = amount
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("transferred", res.Transferred.String()), attribute.Bool("skipped", res.Skipped))
	if mov != nil {
		res.MovementID = mov.ID
		res.TransactionID = mov.TransactionID
		uc.notify.movement(ctx, mov)
	}
	return res, nil
}

func (uc *AllocationUseCase) venueByID(ctx context.Context, id int64) (*entity.Venue, error) {
	v, err := uc.venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

// TransferInput transferencia puntual central -> salón.
type TransferInput struct {
	ItemID   int64
	VenueID  int64
	Quantity decimal.Decimal
	Reason   string
	UserID   *int64
}

// Transfer transferencia estricta: si el central no alcanza devuelve domain.ErrInsufficientStock.
func (uc *AllocationUseCase) Transfer(ctx context.Context, in TransferInput) (*AllocationResult, error) {
	if in.ItemID <= 0 || in.VenueID <= 0 || !in.Quantity.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	venue, err := uc.venueByID(ctx, in.VenueID)
	if err != nil {
		return nil, err
	}
	reason := in.Reason
	if reason == "" {
		reason = reasonTransfer
	}
	return uc.allocate(ctx, allocation{
		venue: venue, itemID: in.ItemID, requested: in.Quantity,
		reason: reason, policy: Strict, userID: in.UserID,
	})
}

// ItemQuantity artículo y cantidad pedida.
type ItemQuantity struct {
	ItemID   int64           `json:"item_id"`
	Quantity decimal.Decimal `json:"cantidad"`
}

// ItemError error de un artículo dentro de un abastecimiento.
type ItemError struct {
	ItemID int64  `json:"item_id"`
	Error  string `json:"error"`
}

// SupplyResult resultado de abastecer un salón con varios artículos.
type SupplyResult struct {
	VenueID   int64               `json:"salon_id"`
	VenueName string              `json:"salon_nombre"`
	Transfers []*AllocationResult `json:"transferencias"`
	Errors    []ItemError         `json:"errores"`
}

// SupplyVenue abastece un salón con varios artículos (estricto por artículo).
// Un artículo que falla se reporta y no impide los demás.
func (uc *AllocationUseCase) SupplyVenue(ctx context.Context, venueID int64, items []ItemQuantity, reason string, userID *int64) (*SupplyResult, error) {
	if venueID <= 0 || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	venue, err := uc.venueByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = fmt.Sprintf(reasonSupply, venue.Name)
	}

	out := &SupplyResult{VenueID: venue.ID, VenueName: venue.Name, Transfers: []*AllocationResult{}, Errors: []ItemError{}}
	for _, it := range items {
		if it.ItemID <= 0 || !it.Quantity.IsPositive() {
			out.Errors = append(out.Errors, ItemError{ItemID: it.ItemID, Error: "item_id y cantidad válida son requeridos"})
			continue
		}
		res, err := uc.allocate(ctx, allocation{
			venue: venue, itemID: it.ItemID, requested: it.Quantity,
			reason: reason, policy: Strict, userID: userID,
		})
		if err != nil {
			uc.log.Warn().Err(err).Str("venue", venue.Name).Int64("item", it.ItemID).Msg("abastecimiento de artículo fallido")
			out.Errors = append(out.Errors, ItemError{ItemID: it.ItemID, Error: err.Error()})
			continue
		}
		out.Transfers = append(out.Transfers, res)
	}
	return out, nil
}

// VenueReport conteos del abastecimiento de un salón.
type VenueReport struct {
	Venue       string          `json:"salon"`
	VenueID     int64           `json:"salon_id,omitempty"`
	Transferred int             `json:"transferidos"`
	Skipped     int             `json:"omitidos"`
	Failed      int             `json:"fallidos"`
	Units       decimal.Decimal `json:"unidades"`
	Error       string          `json:"error,omitempty"`
}

// BatchReport resultado del abastecimiento masivo.
type BatchReport struct {
	Venues      []VenueReport   `json:"salones"`
	Transferred int             `json:"transferidos"`
	Skipped     int             `json:"omitidos"`
	Failed      int             `json:"fallidos"`
	Units       decimal.Decimal `json:"unidades"`
}

// SupplyVenues abastecimiento masivo: por cada salón activo, cada artículo con stock central > 0
// recibe hasta perItemQty. Un salón inactivo o un fallo se registra y se cuenta; el lote continúa.
func (uc *AllocationUseCase) SupplyVenues(ctx context.Context, venueNames []string, perItemQty decimal.Decimal) (*BatchReport, error) {
	if len(venueNames) == 0 || !perItemQty.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	if uc.locker != nil {
		unlock, err := uc.locker.Acquire(ctx, SupplyLockKey, supplyLockTTL)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				uc.log.Warn().Err(err).Msg("no se pudo liberar el candado de abastecimiento")
			}
		}()
	}

	report := &BatchReport{Units: decimal.Zero}
	for _, name := range venueNames {
		vr := uc.supplyOne(ctx, name, perItemQty)
		report.Venues = append(report.Venues, vr)
		report.Transferred += vr.Transferred
		report.Skipped += vr.Skipped
		report.Failed += vr.Failed
		report.Units = report.Units.Add(vr.Units)
	}
	uc.log.Info().
		Int("transferidos", report.Transferred).
		Int("omitidos", report.Skipped).
		Int("fallidos", report.Failed).
		Str("unidades", report.Units.String()).
		Msg("abastecimiento masivo terminado")
	return report, nil
}

func (uc *AllocationUseCase) supplyOne(ctx context.Context, name string, perItemQty decimal.Decimal) VenueReport {
	vr := VenueReport{Venue: name, Units: decimal.Zero}
	log := uc.log.With().Str("venue", name).Logger()

	venue, err := uc.venues.GetByName(ctx, name)
	if err == nil && venue == nil {
		err = domain.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("salón no disponible")
		vr.Error = err.Error()
		vr.Failed++
		return vr
	}
	vr.VenueID = venue.ID
	if !venue.Active {
		log.Warn().Int64("venue_id", venue.ID).Msg("salón inactivo, no se abastece")
		vr.Error = domain.ErrVenueInactive.Error()
		vr.Failed++
		return vr
	}

	items, err := uc.central.ListAvailable(ctx)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo leer el almacén central")
		vr.Error = err.Error()
		vr.Failed++
		return vr
	}

	reason := fmt.Sprintf(reasonBatch, venue.Name)
	for _, item := range items {
		res, err := uc.allocate(ctx, allocation{
			venue: venue, itemID: item.ItemID, requested: perItemQty, reason: reason, policy: Clamp,
		})
		switch {
		case err != nil:
			log.Error().Err(err).Int64("item", item.ItemID).Str("item_name", item.ItemName).Msg("asignación fallida")
			vr.Failed++
		case res.Skipped:
			vr.Skipped++
		default:
			log.Debug().Int64("item", item.ItemID).Str("cantidad", res.Transferred.String()).Msg("asignado")
			vr.Transferred++
			vr.Units = vr.Units.Add(res.Transferred)
		}
	}
	return vr
}

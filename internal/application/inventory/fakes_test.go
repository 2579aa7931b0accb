package inventory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/salones-api/internal/domain"
	"github.com/jhoicas/salones-api/internal/domain/entity"
	"github.com/jhoicas/salones-api/internal/domain/repository"
)

type venueKey struct{ venue, item int64 }

// store estado en memoria del libro; fakeTx lo copia al empezar y lo restaura si fn falla.
type store struct {
	mu         sync.Mutex
	central    map[int64]*entity.CentralStock
	venueStock map[venueKey]*entity.VenueStock
	movements  []*entity.Movement
	venues     []*entity.Venue

	failAppendItem  int64
	beforeDecrement func(s *store, itemID int64)
}

func newStore() *store {
	return &store{
		central:    map[int64]*entity.CentralStock{},
		venueStock: map[venueKey]*entity.VenueStock{},
		venues: []*entity.Venue{
			{ID: 1, Name: "Diamond", Active: true},
			{ID: 2, Name: "Kendall", Active: true},
			{ID: 3, Name: "Doral", Active: true},
		},
	}
}

func (s *store) addItem(id int64, name string, qty int64) {
	s.central[id] = &entity.CentralStock{
		ID: id, ItemID: id, ItemName: name,
		Quantity: decimal.NewFromInt(qty), MinQuantity: entity.DefaultCentralMinimum,
	}
}

func (s *store) centralQty(id int64) decimal.Decimal {
	return s.central[id].Quantity
}

func (s *store) venueQty(venue, item int64) decimal.Decimal {
	if vs, ok := s.venueStock[venueKey{venue, item}]; ok {
		return vs.Quantity
	}
	return decimal.Zero
}

type snapshot struct {
	central    map[int64]entity.CentralStock
	venueStock map[venueKey]entity.VenueStock
	movements  int
}

func (s *store) snapshot() snapshot {
	snap := snapshot{
		central:    make(map[int64]entity.CentralStock, len(s.central)),
		venueStock: make(map[venueKey]entity.VenueStock, len(s.venueStock)),
		movements:  len(s.movements),
	}
	for k, v := range s.central {
		snap.central[k] = *v
	}
	for k, v := range s.venueStock {
		snap.venueStock[k] = *v
	}
	return snap
}

func (s *store) restore(snap snapshot) {
	s.central = make(map[int64]*entity.CentralStock, len(snap.central))
	for k, v := range snap.central {
		v := v
		s.central[k] = &v
	}
	s.venueStock = make(map[venueKey]*entity.VenueStock, len(snap.venueStock))
	for k, v := range snap.venueStock {
		v := v
		s.venueStock[k] = &v
	}
	s.movements = s.movements[:snap.movements]
}

type fakeTx struct{ s *store }

func (f fakeTx) Run(ctx context.Context, fn func(
	central repository.CentralStockRepository,
	venues repository.VenueStockRepository,
	movements repository.MovementRepository,
) error) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	snap := f.s.snapshot()
	if err := fn(fakeCentral{f.s}, fakeVenueStock{f.s}, fakeMovements{f.s}); err != nil {
		f.s.restore(snap)
		return err
	}
	return nil
}

type fakeCentral struct{ s *store }

func (r fakeCentral) Get(_ context.Context, itemID int64) (*entity.CentralStock, error) {
	c, ok := r.s.central[itemID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r fakeCentral) GetForUpdate(ctx context.Context, itemID int64) (*entity.CentralStock, error) {
	return r.Get(ctx, itemID)
}

func (r fakeCentral) List(context.Context) ([]*entity.CentralStock, error) {
	ids := make([]int64, 0, len(r.s.central))
	for id := range r.s.central {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*entity.CentralStock, 0, len(ids))
	for _, id := range ids {
		cp := *r.s.central[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r fakeCentral) ListAvailable(ctx context.Context) ([]*entity.CentralStock, error) {
	all, _ := r.List(ctx)
	var out []*entity.CentralStock
	for _, c := range all {
		if c.Quantity.IsPositive() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeCentral) ListBelowMinimum(ctx context.Context) ([]*entity.CentralStock, error) {
	all, _ := r.List(ctx)
	var out []*entity.CentralStock
	for _, c := range all {
		if c.NeedsRestock() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakeCentral) Decrement(_ context.Context, itemID int64, amount decimal.Decimal) error {
	if r.s.beforeDecrement != nil {
		r.s.beforeDecrement(r.s, itemID)
	}
	c, ok := r.s.central[itemID]
	if !ok || c.Quantity.LessThan(amount) {
		return domain.ErrConflict
	}
	c.Quantity = c.Quantity.Sub(amount)
	return nil
}

func (r fakeCentral) Increment(_ context.Context, itemID int64, amount decimal.Decimal) error {
	c, ok := r.s.central[itemID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Quantity = c.Quantity.Add(amount)
	return nil
}

func (r fakeCentral) Set(_ context.Context, itemID int64, quantity, minQuantity decimal.Decimal) error {
	c, ok := r.s.central[itemID]
	if !ok {
		c = &entity.CentralStock{ID: itemID, ItemID: itemID}
		r.s.central[itemID] = c
	}
	c.Quantity, c.MinQuantity = quantity, minQuantity
	return nil
}

type fakeVenueStock struct{ s *store }

func (r fakeVenueStock) AddQuantity(_ context.Context, venueID, itemID int64, amount, minQuantity decimal.Decimal) error {
	k := venueKey{venueID, itemID}
	vs, ok := r.s.venueStock[k]
	if !ok {
		vs = &entity.VenueStock{VenueID: venueID, ItemID: itemID, Quantity: decimal.Zero, MinQuantity: minQuantity}
		r.s.venueStock[k] = vs
	}
	vs.Quantity = vs.Quantity.Add(amount)
	return nil
}

func (r fakeVenueStock) Get(_ context.Context, venueID, itemID int64) (*entity.VenueStock, error) {
	vs, ok := r.s.venueStock[venueKey{venueID, itemID}]
	if !ok {
		return nil, nil
	}
	cp := *vs
	return &cp, nil
}

func (r fakeVenueStock) List(_ context.Context, venueID *int64) ([]*entity.VenueStock, error) {
	var out []*entity.VenueStock
	for _, vs := range r.s.venueStock {
		if venueID == nil || vs.VenueID == *venueID {
			cp := *vs
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r fakeVenueStock) ListBelowMinimum(context.Context) ([]*entity.VenueStock, error) {
	var out []*entity.VenueStock
	for _, vs := range r.s.venueStock {
		if vs.NeedsRestock() {
			cp := *vs
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeMovements struct{ s *store }

var errAppend = errors.New("fallo simulado al insertar movimiento")

func (r fakeMovements) Append(_ context.Context, m *entity.Movement) error {
	if r.s.failAppendItem != 0 && m.ItemID == r.s.failAppendItem {
		return errAppend
	}
	m.ID = int64(len(r.s.movements) + 1)
	if m.TransactionID == "" {
		m.TransactionID = "tx-" + m.Destination
	}
	m.CreatedAt = time.Now()
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r fakeMovements) List(_ context.Context, f entity.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for i := len(r.s.movements) - 1; i >= 0; i-- {
		m := r.s.movements[i]
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type fakeVenues struct{ s *store }

func (r fakeVenues) GetByID(_ context.Context, id int64) (*entity.Venue, error) {
	for _, v := range r.s.venues {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, nil
}

func (r fakeVenues) GetByName(_ context.Context, name string) (*entity.Venue, error) {
	for _, v := range r.s.venues {
		if strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return nil, nil
}

func (r fakeVenues) List(context.Context) ([]*entity.Venue, error) { return r.s.venues, nil }

type fakePublisher struct {
	mu     sync.Mutex
	events []MovementEvent
	err    error
}

func (p *fakePublisher) PublishMovement(_ context.Context, ev MovementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type fakeLocker struct {
	held     bool
	released int
}

func (l *fakeLocker) Acquire(_ context.Context, _ string, _ time.Duration) (Unlock, error) {
	if l.held {
		return nil, domain.ErrLocked
	}
	l.held = true
	return func(context.Context) error {
		l.held = false
		l.released++
		return nil
	}, nil
}

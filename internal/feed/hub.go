// Package feed simulates a real-time push feed over the demo dataset.
//
// A Hub owns one canonical Dataset. A single writer (Run or an explicit Tick)
// mutates it and every subscriber receives its own deep copy afterwards, so
// all subscribers observe the same view.
package feed

import (
	"context"
	"maps"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the tick period used when none is configured.
const DefaultInterval = 5 * time.Second

// Callback receives snapshots for a subscribed key.
type Callback func(Snapshot)

// ChangeHandler is notified after every tick, once snapshots are delivered.
type ChangeHandler func(ctx context.Context, c Change)

type subscription struct {
	key    Key
	fn     Callback
	mu     sync.Mutex // serializes deliveries to fn
	closed atomic.Bool
}

func (s *subscription) deliver(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	s.fn(snap)
}

// Hub is the process-wide simulated store.
type Hub struct {
	mu       sync.Mutex
	data     Dataset
	subs     map[uint64]*subscription
	nextID   uint64
	handlers []ChangeHandler

	interval time.Duration
	rng      *rand.Rand
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Hub.
type Option func(*Hub)

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.interval = d
		}
	}
}

// WithRand sets the random source used for synthesized data.
func WithRand(r *rand.Rand) Option {
	return func(h *Hub) { h.rng = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Hub) { h.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(h *Hub) { h.logger = l }
}

// NewHub creates a hub that owns data. The caller must not keep references into data.
func NewHub(data Dataset, opts ...Option) *Hub {
	h := &Hub{
		data:     data,
		subs:     make(map[uint64]*subscription),
		interval: DefaultInterval,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Interval returns the tick period.
func (h *Hub) Interval() time.Duration {
	return h.interval
}

// Subscribe registers fn for key. fn is called with the current snapshot
// before Subscribe returns and again after every tick. The returned function
// stops further deliveries; a delivery already in flight may still complete.
func (h *Hub) Subscribe(key Key, fn Callback) (func(), error) {
	if _, err := ParseKey(string(key)); err != nil {
		return nil, err
	}

	sub := &subscription{key: key, fn: fn}
	// Holding sub.mu until the initial snapshot is delivered keeps a
	// concurrent tick from overtaking it.
	sub.mu.Lock()

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = sub
	initial := h.data.snapshot(key)
	h.mu.Unlock()

	fn(initial)
	sub.mu.Unlock()

	h.logger.Debug("feed subscriber added", zap.String("key", string(key)), zap.Uint64("id", id))

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.closed.Store(true)
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			h.logger.Debug("feed subscriber removed", zap.String("key", string(key)), zap.Uint64("id", id))
		})
	}, nil
}

// Snapshot returns a deep copy of the dataset for key.
func (h *Hub) Snapshot(key Key) (Snapshot, error) {
	if _, err := ParseKey(string(key)); err != nil {
		return Snapshot{}, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.data.snapshot(key), nil
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// OnChange registers a handler invoked after every tick.
func (h *Hub) OnChange(fn ChangeHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, fn)
}

// Tick applies one round of mutations and broadcasts the result.
func (h *Hub) Tick(ctx context.Context) Change {
	h.mu.Lock()
	now := h.now()

	change := Change{At: now}
	change.Log = synthesizeLog(h.rng, now)
	h.data.Logs, change.Evicted = prependLog(h.data.Logs, change.Log)
	if t, ok := advanceCommand(h.data.Commands); ok {
		change.Advanced = t
	}
	refreshStatus(&h.data.Status, h.rng, now)

	snaps := make(map[Key]Snapshot, len(Keys))
	for _, k := range Keys {
		snaps[k] = h.data.snapshot(k)
	}
	ids := slices.Sorted(maps.Keys(h.subs))
	subs := make([]*subscription, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, h.subs[id])
	}
	handlers := append([]ChangeHandler(nil), h.handlers...)
	h.mu.Unlock()

	for _, s := range subs {
		s.deliver(snaps[s.key].Clone())
	}
	for _, fn := range handlers {
		fn(ctx, change)
	}

	if change.Advanced != nil {
		h.logger.Info("command advanced",
			zap.String("command_id", change.Advanced.Command.ID),
			zap.String("from", string(change.Advanced.From)),
			zap.String("to", string(change.Advanced.Command.Status)))
	}
	return change
}

// Run ticks every interval until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	h.logger.Info("feed hub started", zap.Duration("interval", h.interval))

	timer := time.NewTimer(h.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("feed hub shutting down")
			return nil
		case <-timer.C:
			h.Tick(ctx)
			timer.Reset(h.interval)
		}
	}
}

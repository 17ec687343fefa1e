// Package anchor holds the anchor item index of each legend instance.
//
// The anchor is never written directly by the code that reads it. Page
// controls submit a [ScrollRequest] to a [Dispatcher], which applies it to
// every matching [Store] when [Dispatcher.Flush] is called between render
// passes. A pass therefore always observes a single, consistent anchor.
package anchor

import (
	"log/slog"
	"slices"
	"sync"
)

// SubTypeScrollPiecewise is the subtype of scrollable piecewise legends.
const SubTypeScrollPiecewise = "scrollPiecewise"

// ScrollRequest asks legends to scroll to an item index.
type ScrollRequest struct {
	// ScrollDataIndex is the target item index. A nil index is a no-op.
	ScrollDataIndex *int `json:"scrollDataIndex,omitempty"`
	// LegendID restricts the request to the legend with this ID. When empty,
	// all legends of the subtype match.
	LegendID string `json:"legendId,omitempty"`
	// SubType restricts the request to legends of this subtype. When empty,
	// [SubTypeScrollPiecewise] is used.
	SubType string `json:"subType,omitempty"`
}

// NewScrollRequest creates a [ScrollRequest] for a legend.
func NewScrollRequest(index int, legendID string) ScrollRequest {
	return ScrollRequest{
		ScrollDataIndex: &index,
		LegendID:        legendID,
	}
}

// Matches reports whether the request applies to s.
func (r ScrollRequest) Matches(s *Store) bool {
	subType := r.SubType
	if subType == "" {
		subType = SubTypeScrollPiecewise
	}
	if s.SubType() != subType {
		return false
	}

	return r.LegendID == "" || r.LegendID == s.ID()
}

// Store holds the anchor index of one legend.
type Store struct {
	id      string
	subType string
	index   int
	mu      sync.RWMutex
}

// StoreOpt configures a [Store].
type StoreOpt func(*Store)

// WithSubType sets the legend subtype of the store.
func WithSubType(subType string) StoreOpt {
	return func(s *Store) {
		s.subType = subType
	}
}

// WithIndex sets the initial anchor index.
func WithIndex(index int) StoreOpt {
	return func(s *Store) {
		s.index = index
	}
}

// NewStore creates a new [Store] for the legend with the given ID.
func NewStore(id string, opts ...StoreOpt) *Store {
	s := &Store{
		id:      id,
		subType: SubTypeScrollPiecewise,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ID returns the legend ID.
func (s *Store) ID() string {
	return s.id
}

// SubType returns the legend subtype.
func (s *Store) SubType() string {
	return s.subType
}

// Index returns the current anchor index.
func (s *Store) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.index
}

func (s *Store) set(index int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.index
	s.index = index

	return prev
}

// Event is sent to subscribers of a [Dispatcher].
type Event any

// EventScrolled indicates that a request changed the anchor of a legend.
type EventScrolled struct {
	LegendID string
	From     int
	To       int
}

// Dispatcher routes scroll requests to stores.
type Dispatcher struct {
	stores    []*Store
	pending   []ScrollRequest
	listeners []chan<- Event
	mu        sync.Mutex
}

// NewDispatcher creates a new [Dispatcher] with the given stores registered.
func NewDispatcher(stores ...*Store) *Dispatcher {
	return &Dispatcher{stores: stores}
}

// Register adds a store to receive requests.
func (d *Dispatcher) Register(s *Store) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stores = append(d.stores, s)
}

// Unregister removes a store. Requests flushed afterwards no longer reach it.
func (d *Dispatcher) Unregister(s *Store) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stores = slices.DeleteFunc(d.stores, func(o *Store) bool { return o == s })
}

// Subscribe registers a channel that receives an [EventScrolled] for every
// applied request. Sends are non-blocking; a full channel drops the event.
func (d *Dispatcher) Subscribe(ch chan<- Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners = append(d.listeners, ch)
}

// Submit queues a request to be applied by the next [Dispatcher.Flush]. It
// returns false for requests without an index, which are dropped.
// It is safe to call from any goroutine.
func (d *Dispatcher) Submit(req ScrollRequest) bool {
	if req.ScrollDataIndex == nil {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = append(d.pending, req)

	return true
}

// Pending reports whether requests are waiting to be applied.
func (d *Dispatcher) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.pending) > 0
}

// Flush applies all queued requests in submission order and returns the
// resulting events.
func (d *Dispatcher) Flush() []EventScrolled {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	stores := append([]*Store(nil), d.stores...)
	listeners := append([]chan<- Event(nil), d.listeners...)
	d.mu.Unlock()

	var events []EventScrolled

	for _, req := range pending {
		for _, s := range stores {
			if !req.Matches(s) {
				continue
			}

			prev := s.set(*req.ScrollDataIndex)
			events = append(events, EventScrolled{
				LegendID: s.ID(),
				From:     prev,
				To:       *req.ScrollDataIndex,
			})

			slog.Debug("applied scroll request",
				slog.String("legend", s.ID()),
				slog.Int("from", prev),
				slog.Int("to", *req.ScrollDataIndex),
			)
		}
	}

	for _, evt := range events {
		for _, ch := range listeners {
			select {
			case ch <- evt:
			default:
				slog.Warn("listener channel full, dropping scroll event",
					slog.String("legend", evt.LegendID),
				)
			}
		}
	}

	return events
}

// Package dashboard holds the per-view state of a dashboard page: the search
// query, filter chips, selected order and current page.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MakeNewCode/project-maps-webapp/internal/filter"
	"github.com/MakeNewCode/project-maps-webapp/internal/mapview"
	"github.com/MakeNewCode/project-maps-webapp/internal/models"
	"github.com/MakeNewCode/project-maps-webapp/internal/pagination"
)

// ErrUnknownRecord is returned when selecting a key that is not in the source.
var ErrUnknownRecord = errors.New("unknown record")

// Kind names which collection a board lists.
type Kind string

const (
	KindCargo    Kind = "cargo"
	KindTracking Kind = "tracking"
)

// ParseKind maps a wire value to a Kind. An empty value is KindCargo.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindCargo:
		return KindCargo, nil
	case KindTracking:
		return KindTracking, nil
	}
	return "", fmt.Errorf("unknown dashboard kind: %q", s)
}

// DefaultDateRange is the label of the tracking board's date chip.
const DefaultDateRange = "21 Jan - 1 Feb"

// Item is a listable record that can also be placed on the map.
type Item interface {
	filter.Record
	mapview.Placeable
}

// Source loads the records a board lists.
type Source func(ctx context.Context) ([]Item, error)

// State is the mutable part of a board.
type State struct {
	Query       string   `json:"query" msgpack:"query"`
	Statuses    []string `json:"statuses" msgpack:"statuses"`
	DateRange   string   `json:"dateRange,omitempty" msgpack:"dateRange,omitempty"`
	SelectedKey string   `json:"selectedId,omitempty" msgpack:"selectedId,omitempty"`
	Page        int      `json:"page" msgpack:"page"`
}

func (s State) criteria() filter.Criteria {
	return filter.Criteria{Query: s.Query, Statuses: s.Statuses}
}

func (s State) clone() State {
	s.Statuses = append([]string(nil), s.Statuses...)
	if s.Statuses == nil {
		s.Statuses = []string{}
	}
	return s
}

// ChipKind tells status chips and the date chip apart.
type ChipKind string

const (
	ChipStatus    ChipKind = "status"
	ChipDateRange ChipKind = "dateRange"
)

// Chip is one removable filter pill.
type Chip struct {
	Kind  ChipKind `json:"kind" msgpack:"kind"`
	Label string   `json:"label" msgpack:"label"`
}

// Snapshot is everything a dashboard page renders.
type Snapshot struct {
	Kind     Kind                                    `json:"kind" msgpack:"kind"`
	State    State                                   `json:"state" msgpack:"state"`
	Chips    []Chip                                  `json:"chips" msgpack:"chips"`
	Page     pagination.Page[filter.Annotated[Item]] `json:"page" msgpack:"page"`
	Selected Item                                    `json:"selected,omitempty" msgpack:"selected,omitempty"`
	Scene    mapview.Scene                           `json:"scene" msgpack:"scene"`
}

// Visible returns the records on the current page.
func (s Snapshot) Visible() []Item {
	return filter.Items(s.Page.Items)
}

// Options configures a Board.
type Options struct {
	PageSize int
	Renderer *mapview.Renderer
	Tokens   mapview.TokenSource
}

// Board is the dashboard state for one view. All methods are safe for
// concurrent use. Every mutation notifies subscribers.
type Board struct {
	kind     Kind
	source   Source
	pageSize int
	renderer *mapview.Renderer
	tokens   mapview.TokenSource

	mu      sync.Mutex
	state   State
	subs    map[int]chan struct{}
	nextSub int
	closed  bool
}

// NewBoard creates a board of the given kind with its default filters.
func NewBoard(kind Kind, source Source, opts Options) *Board {
	if opts.PageSize < 1 {
		opts.PageSize = pagination.DefaultPageSize
	}
	if opts.Renderer == nil {
		opts.Renderer = mapview.NewRenderer(nil)
	}
	if opts.Tokens == nil {
		opts.Tokens = mapview.StaticToken("")
	}
	b := &Board{
		kind:     kind,
		source:   source,
		pageSize: opts.PageSize,
		renderer: opts.Renderer,
		tokens:   opts.Tokens,
		state:    State{Statuses: []string{}, Page: 1},
		subs:     make(map[int]chan struct{}),
	}
	if kind == KindTracking {
		b.state.Statuses = []string{string(models.ShipmentChecking), string(models.ShipmentInTransit)}
		b.state.DateRange = DefaultDateRange
	}
	return b
}

// Kind returns the board kind.
func (b *Board) Kind() Kind { return b.kind }

// State returns a copy of the current state.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.clone()
}

// Subscribe returns a channel signalled after every mutation and a cancel
// function. Signals coalesce: a slow reader sees at most one pending signal.
// The channel is closed by cancel or when the board is closed.
func (b *Board) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan struct{}, 1)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(ch)
			}
		})
	}
}

// Close ends every subscription. Later subscriptions get a closed channel.
// It is safe to call more than once.
func (b *Board) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Closed reports whether Close has been called.
func (b *Board) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Refresh signals subscribers without changing the state, so they re-render
// after something outside the board changed, such as the map token.
func (b *Board) Refresh() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notifyLocked()
}

// Subscribers returns the number of live subscriptions.
func (b *Board) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// notifyLocked must be called with b.mu held.
func (b *Board) notifyLocked() {
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (b *Board) mutate(fn func(s *State)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.state)
	b.notifyLocked()
}

// SetQuery replaces the search text and returns to page 1.
func (b *Board) SetQuery(q string) {
	b.mutate(func(s *State) {
		s.Query = q
		s.Page = 1
	})
}

// SetStatuses replaces the accepted statuses and returns to page 1.
func (b *Board) SetStatuses(statuses []string) {
	b.mutate(func(s *State) {
		s.Statuses = dedupe(statuses)
		s.Page = 1
	})
}

// SetFilters replaces both chip sets and returns to page 1.
func (b *Board) SetFilters(statuses []string, dateRange string) {
	b.mutate(func(s *State) {
		s.Statuses = dedupe(statuses)
		s.DateRange = dateRange
		s.Page = 1
	})
}

// RemoveStatus drops one status chip and returns to page 1.
func (b *Board) RemoveStatus(status string) {
	b.mutate(func(s *State) {
		kept := make([]string, 0, len(s.Statuses))
		for _, st := range s.Statuses {
			if st != status {
				kept = append(kept, st)
			}
		}
		s.Statuses = kept
		s.Page = 1
	})
}

// ClearDateRange drops the date chip and returns to page 1. The chip is a
// label only; no record is filtered by it.
func (b *Board) ClearDateRange() {
	b.mutate(func(s *State) {
		s.DateRange = ""
		s.Page = 1
	})
}

// Select marks the record with key as selected.
func (b *Board) Select(ctx context.Context, key string) error {
	records, err := b.source(ctx)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	if _, ok := filter.Find(records, key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, key)
	}
	b.mutate(func(s *State) {
		s.SelectedKey = key
	})
	return nil
}

// ClearSelection deselects the current record.
func (b *Board) ClearSelection() {
	b.mutate(func(s *State) {
		s.SelectedKey = ""
	})
}

// SetPage moves to page n, clamped to the pages of the filtered set. It
// returns the page actually stored.
func (b *Board) SetPage(ctx context.Context, n int) (int, error) {
	records, err := b.source(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load records: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	total := len(filter.Apply(records, b.state.criteria(), ""))
	b.state.Page = pagination.Clamp(n, total, b.pageSize)
	b.notifyLocked()
	return b.state.Page, nil
}

// Snapshot derives the current page, chips, selection and map scene.
func (b *Board) Snapshot(ctx context.Context) (Snapshot, error) {
	records, err := b.source(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load records: %w", err)
	}
	state := b.State()

	var selected Item
	if state.SelectedKey != "" {
		if r, ok := filter.Find(records, state.SelectedKey); ok {
			selected = r
		}
	}

	annotated := filter.Apply(records, state.criteria(), state.SelectedKey)
	page := pagination.Paginate(annotated, state.Page, b.pageSize)
	state.Page = page.Page

	snap := Snapshot{
		Kind:     b.kind,
		State:    state,
		Chips:    chips(state),
		Page:     page,
		Selected: selected,
	}
	var placed mapview.Placeable
	if selected != nil {
		placed = selected
	}
	snap.Scene = b.renderer.Scene(b.tokens.Token(), mapview.Placeables(snap.Visible()), placed, false)
	return snap, nil
}

func chips(s State) []Chip {
	out := make([]Chip, 0, len(s.Statuses)+1)
	for _, st := range s.Statuses {
		out = append(out, Chip{Kind: ChipStatus, Label: st})
	}
	if s.DateRange != "" {
		out = append(out, Chip{Kind: ChipDateRange, Label: s.DateRange})
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

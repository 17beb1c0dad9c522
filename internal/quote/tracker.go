// Package quote tracks the best bid and ask per market side and detects
// changes between successive price updates.
package quote

import (
	"sync"

	"github.com/dkaplan/trade-ticket/internal/model"
)

// Change flags which prices moved for one side in the latest update.
type Change struct {
	AskChanged bool
	BidChanged bool
}

// Any reports whether either price moved.
func (c Change) Any() bool {
	return c.AskChanged || c.BidChanged
}

// ChangeSet maps side label to the price movements observed in one update.
// Sides whose prices did not move are absent.
type ChangeSet map[string]Change

// Tracker holds the last-seen best ask/bid per side.
//
// The feed goroutine writes via Apply while the UI reads via Best, so
// state is mutex-guarded. Each update replaces the stored quotes
// wholesale; sides absent from an update are dropped rather than served
// stale.
type Tracker struct {
	mu     sync.RWMutex
	quotes map[string]model.Quote
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		quotes: make(map[string]model.Quote),
	}
}

// Apply replaces the stored quotes with prices and reports which sides
// moved. Applying an identical map twice yields an empty ChangeSet.
// Sides seen for the first time are stored but not reported as changed.
func (t *Tracker) Apply(prices map[string]model.Quote) ChangeSet {
	t.mu.Lock()
	defer t.mu.Unlock()

	changes := make(ChangeSet)
	next := make(map[string]model.Quote, len(prices))

	for side, q := range prices {
		next[side] = q

		prev, seen := t.quotes[side]
		if !seen {
			continue
		}

		c := Change{
			AskChanged: !centsEqual(prev.BestAsk, q.BestAsk),
			BidChanged: !centsEqual(prev.BestBid, q.BestBid),
		}
		if c.Any() {
			changes[side] = c
		}
	}

	t.quotes = next
	return changes
}

// Best returns the last-seen quote for side. ok is false when the side
// has never been seen or was absent from the latest update.
func (t *Tracker) Best(side string) (model.Quote, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	q, ok := t.quotes[side]
	return q, ok
}

// Sides returns the side labels present in the latest update.
func (t *Tracker) Sides() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sides := make([]string, 0, len(t.quotes))
	for s := range t.quotes {
		sides = append(sides, s)
	}
	return sides
}

func centsEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

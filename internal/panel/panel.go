// Package panel holds the render targets of the dashboard list panels and the
// uniform outcome every feed fetch is reduced to.
package panel

import (
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Status is the uniform outcome of a panel fetch.
type Status int

const (
	// StatusSuccess means the fetch returned at least one item.
	StatusSuccess Status = iota
	// StatusEmpty means the fetch succeeded with no items.
	StatusEmpty
	// StatusError means the fetch failed; the panel keeps its previous content.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Classify maps a fetch result to its Status.
func Classify(n int, err error) Status {
	switch {
	case err != nil:
		return StatusError
	case n == 0:
		return StatusEmpty
	default:
		return StatusSuccess
	}
}

// Snapshot is a point-in-time copy of a List.
type Snapshot struct {
	Lines       []string  `json:"lines"`
	Placeholder bool      `json:"placeholder"`
	LastStatus  string    `json:"lastStatus"`
	UpdatedAt   time.Time `json:"updatedAt,omitzero"`
}

// List is an unordered list render target shared between fetch goroutines and readers.
type List struct {
	mu          sync.RWMutex
	name        string
	lines       []string
	placeholder bool
	lastStatus  Status
	updatedAt   time.Time
	clock       clockwork.Clock
}

// NewList creates an empty list. A nil clock means the real clock.
func NewList(name string, clock clockwork.Clock) *List {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &List{name: name, clock: clock, lastStatus: StatusEmpty}
}

// Name returns the panel name used in logs and metrics.
func (l *List) Name() string {
	return l.name
}

// Apply renders an outcome. Success replaces the content with lines, Empty replaces it
// with exactly one placeholder line, Error leaves the content untouched.
func (l *List) Apply(status Status, lines []string, placeholder string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.lastStatus = status

	switch status {
	case StatusSuccess:
		l.lines = slices.Clone(lines)
		l.placeholder = false
	case StatusEmpty:
		l.lines = []string{placeholder}
		l.placeholder = true
	case StatusError:
		return
	}

	l.updatedAt = l.clock.Now()
}

// Snapshot returns a copy of the current content.
func (l *List) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	lines := slices.Clone(l.lines)
	if lines == nil {
		lines = []string{}
	}

	return Snapshot{
		Lines:       lines,
		Placeholder: l.placeholder,
		LastStatus:  l.lastStatus.String(),
		UpdatedAt:   l.updatedAt,
	}
}

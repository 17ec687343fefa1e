package legend

import (
	"slices"
	"sync"
)

// Snapshot describes the page shown by a legend after its last pass.
type Snapshot struct {
	PageIndex    *int     `json:"pageIndex"`
	PrevIndex    *int     `json:"prevIndex,omitempty"`
	NextIndex    *int     `json:"nextIndex,omitempty"`
	LegendID     string   `json:"legendId"`
	PageText     string   `json:"pageText,omitempty"`
	Visible      []int    `json:"visibleIndices"`
	Labels       []string `json:"visibleLabels"`
	Pieces       []string `json:"pieces"`
	Anchor       int      `json:"anchor"`
	PageCount    int      `json:"pageCount"`
	ShowControls bool     `json:"showControls"`
}

// Status shares the latest [Snapshot] with other goroutines.
type Status struct {
	snap Snapshot
	mu   sync.RWMutex
}

// NewStatus creates an empty [Status].
func NewStatus() *Status {
	return &Status{}
}

// Snapshot returns a copy of the latest snapshot.
func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	snap.Visible = slices.Clone(s.snap.Visible)
	snap.Labels = slices.Clone(s.snap.Labels)
	snap.Pieces = slices.Clone(s.snap.Pieces)

	return snap
}

func (s *Status) set(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = snap
}

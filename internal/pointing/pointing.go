// Package pointing models observed fields of the DSA-110 continuum imaging
// pipeline and the client for the API that serves them.
package pointing

import (
	"sort"
	"strings"
	"time"

	"github.com/dsa110/dsa110-contimg-sub002/internal/astro"
)

// Status is the pipeline state of a pointing, a small closed set.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusScheduled Status = "scheduled"
	StatusFailed    Status = "failed"
	StatusQueued    Status = "queued"
	StatusUnknown   Status = "unknown"
)

// ParseStatus maps an API status string to a Status, case-insensitively.
// Anything outside the closed set becomes StatusUnknown.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusCompleted, StatusScheduled, StatusFailed, StatusQueued:
		return Status(strings.ToLower(strings.TrimSpace(s)))
	default:
		return StatusUnknown
	}
}

// AllStatuses lists the closed status set in display order.
func AllStatuses() []Status {
	return []Status{StatusCompleted, StatusScheduled, StatusFailed, StatusQueued, StatusUnknown}
}

// Pointing is an observed field. Instances are immutable for the lifetime
// of a render; the rendering layer never mutates them.
type Pointing struct {
	ID        string
	RAdeg     float64 // [0, 360)
	DecDeg    float64 // [-90, 90]
	RadiusDeg float64 // field-of-view radius; 0 means "use caller default"
	Label     string
	Status    Status
	Epoch     time.Time // zero when the record carries no epoch
	QAGrade   string
}

// HasEpoch reports whether the pointing carries a timeline epoch.
func (p Pointing) HasEpoch() bool {
	return !p.Epoch.IsZero()
}

// DisplayName returns the label when present, the ID otherwise.
func (p Pointing) DisplayName() string {
	if p.Label != "" {
		return p.Label
	}
	return p.ID
}

// normalize applies the coordinate invariants at the ingest boundary so the
// projection layer can assume them.
func (p Pointing) normalize() Pointing {
	p.RAdeg = astro.NormalizeRA(p.RAdeg)
	p.DecDeg = astro.ClampDec(p.DecDeg)
	if p.Status == "" {
		p.Status = StatusUnknown
	}
	return p
}

// Filter is transient view state: which pointings the user currently sees.
type Filter struct {
	// Statuses is the visible status set; nil shows everything.
	Statuses map[Status]bool

	// Search matches case-insensitively against ID, label and QA grade.
	Search string

	// EpochCut, when non-zero, keeps pointings with Epoch <= EpochCut
	// (cumulative timeline reveal). Pointings without an epoch always pass.
	EpochCut time.Time
}

// Match reports whether a pointing passes the filter.
func (f Filter) Match(p Pointing) bool {
	if f.Statuses != nil && !f.Statuses[p.Status] {
		return false
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.ID), needle) &&
			!strings.Contains(strings.ToLower(p.Label), needle) &&
			!strings.Contains(strings.ToLower(p.QAGrade), needle) {
			return false
		}
	}

	if !f.EpochCut.IsZero() && p.HasEpoch() && p.Epoch.After(f.EpochCut) {
		return false
	}

	return true
}

// Apply returns the pointings passing the filter, preserving input order
// (draw order and hit-test order both follow input order).
func Apply(pts []Pointing, f Filter) []Pointing {
	out := make([]Pointing, 0, len(pts))
	for _, p := range pts {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// DistinctEpochs returns the sorted unique epochs present in a pointing
// set. The stable ordering anchors both the timeline scrubber and the
// cyclic epoch color palette.
func DistinctEpochs(pts []Pointing) []time.Time {
	seen := make(map[time.Time]bool)
	var epochs []time.Time
	for _, p := range pts {
		if p.HasEpoch() && !seen[p.Epoch] {
			seen[p.Epoch] = true
			epochs = append(epochs, p.Epoch)
		}
	}
	sort.Slice(epochs, func(i, j int) bool { return epochs[i].Before(epochs[j]) })
	return epochs
}

// CountByStatus tallies a pointing set for status summaries.
func CountByStatus(pts []Pointing) map[Status]int {
	counts := make(map[Status]int)
	for _, p := range pts {
		counts[p.Status]++
	}
	return counts
}

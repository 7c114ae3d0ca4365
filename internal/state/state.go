// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/dsa110/dsa110-contimg-sub002/internal/pointing"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventNewPointing   EventType = "NEW_POINTING"
	EventStatusChanged EventType = "STATUS_CHANGED"
	EventPointingGone  EventType = "POINTING_GONE"
)

// Event represents an observed change in the pointing listing between two
// fetches.
type Event struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Pointing  string          `json:"pointing"`
	OldStatus pointing.Status `json:"old_status,omitempty"`
	NewStatus pointing.Status `json:"new_status,omitempty"`
}

// CountSample is a per-fetch status tally, kept for the coverage trend line.
type CountSample struct {
	Timestamp time.Time
	Counts    map[pointing.Status]int
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current       []pointing.Pointing
	dropped       int
	lastFetch     time.Time
	lastError     error
	fetchDuration time.Duration
	fetchCount    int

	// Previous statuses for event detection
	prevStatus map[string]pointing.Status

	// Count history buffer
	history       []CountSample
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Derived/cached data
	epochs []time.Time
	counts map[pointing.Status]int

	// Configuration
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120, // ~1 hour at 1 fetch/30s
		MaxEvents:       50,
		RefreshInterval: 30 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory <= 0 {
		maxHistory = 120
	}
	return &Manager{
		maxHistoryLen:   maxHistory,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
		prevStatus:      make(map[string]pointing.Status),
		counts:          make(map[pointing.Status]int),
	}
}

// Update atomically applies a fetch result. A failed fetch records the
// error and keeps the previous pointing set.
func (m *Manager) Update(result pointing.FetchResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastFetch = result.FetchedAt
	m.lastError = result.Error
	m.fetchDuration = result.Duration

	if result.Error != nil {
		return
	}
	m.fetchCount++
	m.dropped = result.Dropped

	// Detect events before replacing current state.
	m.detectEvents(result.Pointings, result.FetchedAt)

	m.current = result.Pointings

	// Update derived data.
	m.counts = pointing.CountByStatus(result.Pointings)
	m.epochs = pointing.DistinctEpochs(result.Pointings)

	// Add to count history.
	m.history = append(m.history, CountSample{
		Timestamp: result.FetchedAt,
		Counts:    m.counts,
	})
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}

	// Update prevStatus for the next comparison.
	m.prevStatus = make(map[string]pointing.Status, len(result.Pointings))
	for _, p := range result.Pointings {
		m.prevStatus[p.ID] = p.Status
	}
}

// detectEvents compares the new listing with the previous statuses and
// generates events. The first fetch is a baseline and emits nothing.
func (m *Manager) detectEvents(pts []pointing.Pointing, now time.Time) {
	if m.fetchCount <= 1 {
		return
	}

	seen := make(map[string]bool, len(pts))
	for _, p := range pts {
		seen[p.ID] = true

		prev, wasPrev := m.prevStatus[p.ID]
		if !wasPrev {
			m.addEvent(Event{
				Type:      EventNewPointing,
				Timestamp: now,
				Pointing:  p.ID,
				NewStatus: p.Status,
			})
		} else if prev != p.Status {
			m.addEvent(Event{
				Type:      EventStatusChanged,
				Timestamp: now,
				Pointing:  p.ID,
				OldStatus: prev,
				NewStatus: p.Status,
			})
		}
	}

	for id, prev := range m.prevStatus {
		if !seen[id] {
			m.addEvent(Event{
				Type:      EventPointingGone,
				Timestamp: now,
				Pointing:  id,
				OldStatus: prev,
			})
		}
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Pointings     []pointing.Pointing
	Dropped       int
	LastFetch     time.Time
	LastError     error
	FetchDuration time.Duration
	Counts        map[pointing.Status]int
	Epochs        []time.Time
	Events        []Event
	History       []CountSample
}

// Snapshot returns a consistent snapshot of current state. The returned
// slices and maps are copies; callers may hold them across renders.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pts := make([]pointing.Pointing, len(m.current))
	copy(pts, m.current)

	counts := make(map[pointing.Status]int, len(m.counts))
	for k, v := range m.counts {
		counts[k] = v
	}

	epochs := make([]time.Time, len(m.epochs))
	copy(epochs, m.epochs)

	history := make([]CountSample, len(m.history))
	for i, s := range m.history {
		c := make(map[pointing.Status]int, len(s.Counts))
		for k, v := range s.Counts {
			c[k] = v
		}
		history[i] = CountSample{Timestamp: s.Timestamp, Counts: c}
	}

	return Snapshot{
		Pointings:     pts,
		Dropped:       m.dropped,
		LastFetch:     m.lastFetch,
		LastError:     m.lastError,
		FetchDuration: m.fetchDuration,
		Counts:        counts,
		Epochs:        epochs,
		Events:        m.getEventsOrdered(),
		History:       history,
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest.
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// History returns a copy of the count history buffer.
func (m *Manager) History() []CountSample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]CountSample, len(m.history))
	copy(out, m.history)
	return out
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true if at least one fetch succeeded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fetchCount > 0
}

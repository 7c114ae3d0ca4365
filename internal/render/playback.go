package render

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// PlayState is the playback state machine: Idle until playback starts,
// Playing while the timer advances epochs, Paused when the user holds the
// current epoch. Reaching the last epoch returns the player to Idle.
type PlayState int

const (
	StateIdle PlayState = iota
	StatePlaying
	StatePaused
)

func (s PlayState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// DefaultTickInterval is the base epoch-advance interval at speed 1x.
const DefaultTickInterval = time.Second

// PlaybackStatus is a snapshot of the player for display and filtering.
type PlaybackStatus struct {
	State PlayState
	// Index into the epoch timeline; -1 when there are no epochs.
	Index  int
	Epochs int
	Speed  float64
	// Cut is the epoch at the current index; pointings at or before the
	// cut are revealed (cumulative playback).
	Cut time.Time
}

// Player drives cumulative timeline playback over a sorted epoch list. All
// methods are safe for concurrent use; Run owns the timer goroutine.
type Player struct {
	mu sync.Mutex

	clock    clockwork.Clock
	interval time.Duration

	epochs []time.Time
	index  int
	state  PlayState
	speed  float64

	resume chan struct{}
}

// NewPlayer creates a player over the given epoch timeline, expected sorted
// ascending (pointing.DistinctEpochs output).
func NewPlayer(clock clockwork.Clock, epochs []time.Time) *Player {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Player{
		clock:    clock,
		interval: DefaultTickInterval,
		epochs:   epochs,
		speed:    1.0,
		resume:   make(chan struct{}, 1),
	}
}

// SetEpochs replaces the timeline, clamping the current index.
func (p *Player) SetEpochs(epochs []time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epochs = epochs
	if p.index >= len(epochs) {
		p.index = len(epochs) - 1
		if p.index < 0 {
			p.index = 0
		}
	}
}

// Play starts or resumes playback from the current index. Playback from the
// last epoch restarts at the beginning. No-op without epochs.
func (p *Player) Play() {
	p.mu.Lock()
	if len(p.epochs) == 0 || p.state == StatePlaying {
		p.mu.Unlock()
		return
	}
	if p.state == StateIdle && p.index >= len(p.epochs)-1 {
		p.index = 0
	}
	p.state = StatePlaying
	p.mu.Unlock()

	select {
	case p.resume <- struct{}{}:
	default:
	}
}

// Pause holds the current epoch.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StatePlaying {
		p.state = StatePaused
	}
}

// Toggle flips between playing and paused/idle.
func (p *Player) Toggle() {
	if p.Status().State == StatePlaying {
		p.Pause()
	} else {
		p.Play()
	}
}

// Stop returns the player to idle without moving the index.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateIdle
}

// Seek jumps to an epoch index, clamped to the timeline.
func (p *Player) Seek(index int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.epochs) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(p.epochs) {
		index = len(p.epochs) - 1
	}
	p.index = index
}

// Step moves one epoch forward or backward without starting playback.
func (p *Player) Step(delta int) {
	p.Seek(p.Status().Index + delta)
}

// SetSpeed sets the playback speed multiplier.
func (p *Player) SetSpeed(speed float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if speed > 0 {
		p.speed = speed
	}
}

// Tick advances one epoch. At the last epoch the player stops and returns
// to idle; there is no further advancement. Returns the resulting status.
func (p *Player) Tick() PlaybackStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePlaying || len(p.epochs) == 0 {
		return p.statusUnlocked()
	}

	if p.index < len(p.epochs)-1 {
		p.index++
	}
	if p.index >= len(p.epochs)-1 {
		p.state = StateIdle
	}
	return p.statusUnlocked()
}

// Status returns a consistent snapshot of the player.
func (p *Player) Status() PlaybackStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.statusUnlocked()
}

func (p *Player) statusUnlocked() PlaybackStatus {
	st := PlaybackStatus{
		State:  p.state,
		Index:  p.index,
		Epochs: len(p.epochs),
		Speed:  p.speed,
	}
	if len(p.epochs) == 0 {
		st.Index = -1
		return st
	}
	st.Cut = p.epochs[p.index]
	return st
}

func (p *Player) tickInterval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return time.Duration(float64(p.interval) / p.speed)
}

// Run drives the playback timer until the context is cancelled. Each epoch
// advance calls onChange with the new status. Pausing or reaching the last
// epoch parks the loop until Play fires again; cancellation clears the
// timer so no callback outlives the caller.
func (p *Player) Run(ctx context.Context, onChange func(PlaybackStatus)) {
	for {
		if p.Status().State != StatePlaying {
			select {
			case <-ctx.Done():
				return
			case <-p.resume:
				continue
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-p.clock.After(p.tickInterval()):
			if st := p.Tick(); onChange != nil {
				onChange(st)
			}
		}
	}
}

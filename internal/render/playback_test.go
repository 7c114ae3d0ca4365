package render

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEpochs(n int) []time.Time {
	epochs := make([]time.Time, n)
	for i := range epochs {
		epochs[i] = time.Date(2026, 3, i+1, 0, 0, 0, 0, time.UTC)
	}
	return epochs
}

func TestPlayer_FiveEpochsFourTicks(t *testing.T) {
	p := NewPlayer(clockwork.NewFakeClock(), testEpochs(5))
	p.Play()

	for i := 0; i < 4; i++ {
		p.Tick()
	}

	st := p.Status()
	assert.Equal(t, 4, st.Index, "4 ticks from index 0 land on the last epoch")
	assert.Equal(t, StateIdle, st.State, "reaching the last epoch stops playback")

	// Further ticks do not advance.
	p.Tick()
	assert.Equal(t, 4, p.Status().Index)
}

func TestPlayer_PauseHoldsIndex(t *testing.T) {
	p := NewPlayer(clockwork.NewFakeClock(), testEpochs(5))
	p.Play()
	p.Tick()
	p.Pause()

	require.Equal(t, StatePaused, p.Status().State)
	p.Tick()
	assert.Equal(t, 1, p.Status().Index, "ticks while paused are ignored")

	p.Play()
	p.Tick()
	assert.Equal(t, 2, p.Status().Index, "resume continues from the held index")
}

func TestPlayer_PlayFromEndRestarts(t *testing.T) {
	p := NewPlayer(clockwork.NewFakeClock(), testEpochs(3))
	p.Seek(2)

	p.Play()
	assert.Equal(t, 0, p.Status().Index, "playing from the last epoch restarts")
}

func TestPlayer_SeekClamps(t *testing.T) {
	p := NewPlayer(clockwork.NewFakeClock(), testEpochs(3))

	p.Seek(99)
	assert.Equal(t, 2, p.Status().Index)
	p.Seek(-5)
	assert.Equal(t, 0, p.Status().Index)

	p.Step(1)
	assert.Equal(t, 1, p.Status().Index)
}

func TestPlayer_NoEpochs(t *testing.T) {
	p := NewPlayer(clockwork.NewFakeClock(), nil)
	p.Play()

	st := p.Status()
	assert.Equal(t, StateIdle, st.State, "nothing to play")
	assert.Equal(t, -1, st.Index)
}

func TestPlayer_CumulativeCut(t *testing.T) {
	epochs := testEpochs(3)
	p := NewPlayer(clockwork.NewFakeClock(), epochs)
	p.Play()
	st := p.Tick()

	assert.Equal(t, epochs[1], st.Cut, "cut tracks the current epoch")
}

func TestPlayer_Run(t *testing.T) {
	clock := clockwork.NewFakeClock()
	p := NewPlayer(clock, testEpochs(3))

	var advances atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		p.Run(ctx, func(PlaybackStatus) { advances.Add(1) })
		close(done)
	}()

	p.Play()
	for i := 0; i < 2; i++ {
		clock.BlockUntil(1)
		clock.Advance(DefaultTickInterval)
	}

	require.Eventually(t, func() bool {
		return advances.Load() == 2 && p.Status().State == StateIdle
	}, time.Second, time.Millisecond, "two timer fires reach the last of 3 epochs and stop")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit on cancellation")
	}
}

func TestPlayer_SpeedShortensInterval(t *testing.T) {
	p := NewPlayer(clockwork.NewFakeClock(), testEpochs(2))
	p.SetSpeed(2)
	assert.Equal(t, DefaultTickInterval/2, p.tickInterval())

	p.SetSpeed(0)
	assert.Equal(t, DefaultTickInterval/2, p.tickInterval(), "non-positive speed ignored")
}

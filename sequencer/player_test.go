package sequencer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-playerpiano/midi"
)

func TestPlayerPlaysToEnd(t *testing.T) {
	r := &recorder{}
	s := newSched(t, song(480, midi.Track{
		midi.NoteOnEvent(0, 0, 45, 100),
		midi.NoteOffEvent(48, 0, 45),
	}), r)
	p := NewPlayer(s)

	require.NoError(t, p.Run(context.Background()))

	select {
	case <-p.Done():
	default:
		t.Fatal("Done not closed after Run returned")
	}
	assert.Equal(t, []call{on(0, 45, 100), off(0, 45)}, r.Calls())
	assert.NoError(t, p.Err())

	st := p.Status()
	assert.Equal(t, Stopped, st.State)
	assert.Equal(t, 2, st.Fired)
	assert.GreaterOrEqual(t, st.Elapsed, 50*time.Millisecond)
	snap := p.Snapshot()
	assert.Empty(t, snap.Pressed())
}

func TestPlayerCancelSweeps(t *testing.T) {
	r := &recorder{}
	s := newSched(t, song(480, midi.Track{
		midi.NoteOnEvent(0, 0, 60, 100),
		midi.NoteOffEvent(480000, 0, 60),
	}), r)
	p := NewPlayer(s, WithPollInterval(2*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		snap := p.Snapshot()
		return snap[27]
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, []call{on(0, 60, 100), off(0, 60)}, r.Calls())
	snap := p.Snapshot()
	assert.Empty(t, snap.Pressed())
	assert.Equal(t, Stopped, p.Status().State)
}

func TestPlayerZeroTempo(t *testing.T) {
	s := newSched(t, song(480, midi.Track{midi.TempoEvent(0, 0)}), &recorder{})
	p := NewPlayer(s)

	err := p.Run(context.Background())
	assert.ErrorIs(t, err, ErrZeroTempo)
	assert.ErrorIs(t, p.Err(), ErrZeroTempo)
}

func TestPlayerReportsSinkErrors(t *testing.T) {
	boom := errors.New("no device")
	s := newSched(t, song(480, midi.Track{
		midi.NoteOnEvent(0, 0, 60, 100),
		midi.NoteOffEvent(0, 0, 60),
	}), &recorder{fail: boom})

	var seen atomic.Int32
	p := NewPlayer(s, WithSinkErrorHandler(func(err error) {
		assert.ErrorIs(t, err, boom)
		seen.Add(1)
	}))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, int32(1), seen.Load())

	st := p.Status()
	assert.Equal(t, 1, st.SinkErrors)
	assert.ErrorIs(t, st.LastSinkErr, boom)
}

func TestPlayerClock(t *testing.T) {
	var ms atomic.Int64
	base := time.Unix(0, 0)
	clock := func() time.Time {
		// each reading advances 100ms
		return base.Add(time.Duration(ms.Add(100)) * time.Millisecond)
	}

	r := &recorder{}
	s := newSched(t, song(480, midi.Track{
		midi.NoteOnEvent(4800, 0, 60, 100),
	}), r)
	p := NewPlayer(s, WithClock(clock))

	require.NoError(t, p.Run(context.Background()))
	assert.Equal(t, []call{on(0, 60, 100), off(0, 60)}, r.Calls())
	assert.GreaterOrEqual(t, p.Status().Elapsed, 5*time.Second)
}

func TestPlayerNotifies(t *testing.T) {
	s := newSched(t, song(480, midi.Track{midi.NoteOnEvent(0, 0, 60, 100)}), &recorder{})
	p := NewPlayer(s)
	require.NoError(t, p.Run(context.Background()))

	select {
	case <-p.UpdateChan:
	default:
		t.Fatal("no update published")
	}
}

package workflows

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
)

func TestOperation_WriteSequence(t *testing.T) {
	var seen []Transition
	op := newOperation("API_KEY", func(tr Transition) { seen = append(seen, tr) })

	op.observeStage(ghapi.StageFetchingKey)
	op.observeStage(ghapi.StageEncrypting)
	op.observeStage(ghapi.StageWriting)
	require.NoError(t, op.finish(nil))

	assert.Equal(t, StateDone, op.State())
	require.Len(t, seen, 4)
	assert.Equal(t, StateIdle, seen[0].From)
	assert.Equal(t, StateWriting, seen[3].From)
	assert.Equal(t, StateDone, seen[3].To)
}

func TestOperation_FailureFromAnyState(t *testing.T) {
	boom := errors.New("boom")
	var last Transition
	op := newOperation("API_KEY", func(tr Transition) { last = tr })

	op.observeStage(ghapi.StageFetchingKey)
	err := op.finish(boom)

	assert.Same(t, boom, err)
	assert.Equal(t, StateFailed, op.State())
	assert.Equal(t, StateFetchingKey, last.From)
	assert.Same(t, boom, last.Err)
}

func TestOperation_RejectsSkippedStates(t *testing.T) {
	op := newOperation("API_KEY", nil)

	assert.Error(t, op.advance(StateWriting, nil))
	assert.Equal(t, StateIdle, op.State())

	assert.Error(t, op.finish(nil))
}

func TestOperation_TerminalStatesAreFinal(t *testing.T) {
	op := newOperation("API_KEY", nil)
	require.NoError(t, op.advance(StateDeleting, nil))
	require.NoError(t, op.finish(nil))

	assert.Error(t, op.advance(StateFailed, errors.New("late")))
	assert.Equal(t, StateDone, op.State())
}

func TestNew_Defaults(t *testing.T) {
	c := New(nil, Options{})

	assert.Equal(t, DefaultConcurrency, c.concurrency)
	assert.Equal(t, DefaultConcurrency, c.limiter.Burst())
	assert.InDelta(t, DefaultRequestsPerSecond, float64(c.limiter.Limit()), 0.001)
}

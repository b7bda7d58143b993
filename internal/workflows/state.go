package workflows

import (
	"fmt"
	"sync"

	"github.com/PolarWolf314/ghsecrets/internal/ghapi"
)

// State is a step of a single-secret operation.
type State string

const (
	StateIdle        State = "idle"
	StateFetchingKey State = "fetching-key"
	StateEncrypting  State = "encrypting"
	StateWriting     State = "writing"
	StateDeleting    State = "deleting"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Terminal reports whether no further transition can follow s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

var transitions = map[State][]State{
	StateIdle:        {StateFetchingKey, StateDeleting},
	StateFetchingKey: {StateEncrypting},
	StateEncrypting:  {StateWriting},
	StateWriting:     {StateDone},
	StateDeleting:    {StateDone},
}

// Transition is reported to an Observer each time an operation changes state.
type Transition struct {
	Secret string
	From   State
	To     State
	// Err is set when To is StateFailed.
	Err error
}

// Observer receives transitions. Bulk workflows call it from several
// goroutines at once.
type Observer func(Transition)

// operation tracks the state of one secret write or delete.
type operation struct {
	mu       sync.Mutex
	secret   string
	state    State
	observer Observer
}

func newOperation(secret string, observer Observer) *operation {
	return &operation{secret: secret, state: StateIdle, observer: observer}
}

// advance moves to next. Moving to StateFailed is allowed from any
// non-terminal state; everything else must follow the transition table.
func (o *operation) advance(next State, err error) error {
	o.mu.Lock()
	from := o.state
	if !o.allowed(next) {
		o.mu.Unlock()
		return fmt.Errorf("invalid transition %s -> %s for %s", from, next, o.secret)
	}
	o.state = next
	o.mu.Unlock()

	if o.observer != nil {
		o.observer(Transition{Secret: o.secret, From: from, To: next, Err: err})
	}
	return nil
}

func (o *operation) allowed(next State) bool {
	if o.state.Terminal() {
		return false
	}
	if next == StateFailed {
		return true
	}
	for _, s := range transitions[o.state] {
		if s == next {
			return true
		}
	}
	return false
}

// State returns the current state.
func (o *operation) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// observeStage maps API client stages onto the state machine.
func (o *operation) observeStage(stage ghapi.Stage) {
	switch stage {
	case ghapi.StageFetchingKey:
		_ = o.advance(StateFetchingKey, nil)
	case ghapi.StageEncrypting:
		_ = o.advance(StateEncrypting, nil)
	case ghapi.StageWriting:
		_ = o.advance(StateWriting, nil)
	}
}

// finish moves to done or failed depending on err and returns err.
func (o *operation) finish(err error) error {
	if err != nil {
		_ = o.advance(StateFailed, err)
		return err
	}
	if advanceErr := o.advance(StateDone, nil); advanceErr != nil {
		return advanceErr
	}
	return nil
}

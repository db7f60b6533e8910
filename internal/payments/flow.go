package payments

import "fmt"

// FlowState tracks a single initiation attempt through its named
// transitions, so the sandbox-fallback branching is auditable instead of
// buried in conditionals.
type FlowState string

const (
	StateCreated        FlowState = "created"
	StateProviderCalled FlowState = "provider_called"
	StateSimulated      FlowState = "simulated"
	StateCompleted      FlowState = "completed"
	StateFailed         FlowState = "failed"
)

var flowTransitions = map[FlowState][]FlowState{
	StateCreated:        {StateProviderCalled, StateSimulated},
	StateProviderCalled: {StateSimulated, StateCompleted, StateFailed},
	StateSimulated:      {StateCompleted},
	StateCompleted:      {},
	StateFailed:         {},
}

type Flow struct {
	state FlowState
}

func NewFlow() *Flow {
	return &Flow{state: StateCreated}
}

func (f *Flow) State() FlowState {
	return f.state
}

// To moves the flow to the next state, rejecting transitions the machine
// does not define.
func (f *Flow) To(next FlowState) error {
	for _, allowed := range flowTransitions[f.state] {
		if allowed == next {
			f.state = next
			return nil
		}
	}
	return fmt.Errorf("invalid flow transition from %s to %s", f.state, next)
}

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/fsmcore/pkg/fsm"
)

func mustLoad(t *testing.T, raw string) *fsm.FsmModel {
	t.Helper()
	m, err := fsm.Load([]byte(raw))
	require.NoError(t, err)
	return m
}

func ev(s string) *string { return &s }

const trafficLight = `{
  "data_dictionary": [{"name": "cycles", "type": "int", "initial_value": 0}],
  "states": [
    {"name": "Red", "is_initial": true, "entry_action": "cycles = cycles + 1"},
    {"name": "Green"},
    {"name": "Yellow"}
  ],
  "transitions": [
    {"source": "Red", "target": "Green", "event": "timer"},
    {"source": "Green", "target": "Yellow", "event": "timer"},
    {"source": "Yellow", "target": "Red", "event": "timer"}
  ]
}`

func TestSimStepAdvancesState(t *testing.T) {
	s := New(mustLoad(t, trafficLight))
	assert.Equal(t, "Red", s.CurrentStateName())

	out := s.Step(ev("timer"))
	assert.Equal(t, "Green", out.CurrentState)
	assert.False(t, out.Halted)
}

func TestSimDuringActionRunsWhenNoTransitionFires(t *testing.T) {
	raw := `{
	  "data_dictionary": [{"name": "ticks", "type": "int", "initial_value": 0}],
	  "states": [
	    {"name": "Idle", "is_initial": true, "during_action": "ticks = ticks + 1"}
	  ],
	  "transitions": []
	}`
	s := New(mustLoad(t, raw))
	out := s.Step(nil)
	assert.Equal(t, "Idle", out.CurrentState)
	require.Len(t, out.Log, 1)
	assert.Equal(t, "during", out.Log[0].Kind)
}

func TestSimGuardErrorIsNonFatalAndFalls(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "B"},
	    {"name": "C"}
	  ],
	  "transitions": [
	    {"source": "A", "target": "B", "event": "e", "condition": "undeclared_var > 0"},
	    {"source": "A", "target": "C", "event": "e"}
	  ]
	}`
	s := New(mustLoad(t, raw))
	out := s.Step(ev("e"))
	assert.Equal(t, "C", out.CurrentState)
	assert.False(t, out.Halted)
	assert.Nil(t, out.FatalError)
	found := false
	for _, l := range out.Log {
		if l.Kind == "guard_error" {
			found = true
		}
	}
	assert.True(t, found, "expected a logged guard_error entry")
}

func TestSimHaltsOnFinalState(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "Done", "is_final": true}
	  ],
	  "transitions": [
	    {"source": "A", "target": "Done", "event": "finish"}
	  ]
	}`
	s := New(mustLoad(t, raw))
	out := s.Step(ev("finish"))
	assert.Equal(t, "Done", out.CurrentState)
	assert.True(t, out.Halted)
	assert.True(t, s.Halted())

	out = s.Step(ev("finish"))
	assert.True(t, out.Halted)
}

func TestSimBreakpointOnTransitionPausesThenResumes(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "B"}
	  ],
	  "transitions": [
	    {"source": "A", "target": "B", "event": "go"}
	  ]
	}`
	s := New(mustLoad(t, raw))
	s.SetBreakpointTransition(BreakpointTransition{Source: "A", Target: "B", Event: "go"}, true)

	out := s.Step(ev("go"))
	assert.True(t, out.PausedOnBreakpoint)
	assert.Equal(t, "A", out.CurrentState)

	out = s.Step(ev("go"))
	assert.False(t, out.PausedOnBreakpoint)
	assert.Equal(t, "B", out.CurrentState)
}

func TestSimBreakpointOnStateEntry(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "B"}
	  ],
	  "transitions": [
	    {"source": "A", "target": "B", "event": "go"}
	  ]
	}`
	s := New(mustLoad(t, raw))
	s.SetBreakpointState("B", true)
	out := s.Step(ev("go"))
	assert.Equal(t, "B", out.CurrentState)
	assert.True(t, out.PausedOnBreakpoint)
}

func TestSimResetRestoresInitialStateAndVariables(t *testing.T) {
	s := New(mustLoad(t, trafficLight))
	s.Step(ev("timer"))
	s.Step(ev("timer"))
	assert.NotEqual(t, "Red", s.CurrentStateName())

	s.Reset()
	assert.Equal(t, "Red", s.CurrentStateName())
	assert.False(t, s.Halted())
}

func TestSimSuperstateForwardsToSubSimulator(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "Outer", "is_initial": true, "is_superstate": true, "sub_fsm_data": {
	      "states": [
	        {"name": "Inner", "is_initial": true},
	        {"name": "InnerDone", "is_final": true}
	      ],
	      "transitions": [
	        {"source": "Inner", "target": "InnerDone", "event": "innerDone"}
	      ]
	    }},
	    {"name": "AfterOuter"}
	  ],
	  "transitions": [
	    {"source": "Outer", "target": "AfterOuter", "event": "innerDone"}
	  ]
	}`
	s := New(mustLoad(t, raw))
	assert.Equal(t, "Outer", s.CurrentStateName())

	out := s.Step(ev("innerDone"))
	// The inner sub-simulator consumes the event and reaches its own
	// final state; the outer transition does not fire in this step.
	assert.Equal(t, "Outer", out.CurrentState)
	assert.False(t, out.Halted)
}

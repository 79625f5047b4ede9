package validate

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

func hasMessage(diags []fsm.Diagnostic, severity fsm.Severity, substr string) bool {
	for _, d := range diags {
		if d.Severity == severity && contains(d.Message, substr) {
			return true
		}
	}
	return false
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && indexOf(s, substr) >= 0
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

const trafficLight = `{
  "name": "traffic_light",
  "states": [
    {"name": "Red", "is_initial": true},
    {"name": "Green"},
    {"name": "Yellow"}
  ],
  "transitions": [
    {"source": "Red", "target": "Green", "event": "timer"},
    {"source": "Green", "target": "Yellow", "event": "timer"},
    {"source": "Yellow", "target": "Red", "event": "timer"}
  ]
}`

func TestValidateTrafficLightIsClean(t *testing.T) {
	m := mustLoad(t, trafficLight)
	diags := Validate(m)
	for _, d := range diags {
		assert.NotEqual(t, fsm.SeverityError, d.Severity, "unexpected error: %s", d.Message)
	}
}

func TestValidateUnreachableState(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "B"},
	    {"name": "C"}
	  ],
	  "transitions": [
	    {"source": "A", "target": "B", "event": "e"}
	  ]
	}`
	m := mustLoad(t, raw)
	diags := Validate(m)
	assert.True(t, hasMessage(diags, fsm.SeverityError, "C is unreachable"))
}

func TestValidateFinalStateWithOutgoingTransitionIsRejected(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "Done", "is_final": true}
	  ],
	  "transitions": [
	    {"source": "A", "target": "Done", "event": "finish"},
	    {"source": "Done", "target": "A", "event": "oops"}
	  ]
	}`
	m := mustLoad(t, raw)
	diags := Validate(m)
	assert.True(t, hasMessage(diags, fsm.SeverityError, "final state Done has outgoing transitions"))
}

func TestValidateDeadEnd(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "Stuck"}
	  ],
	  "transitions": [
	    {"source": "A", "target": "Stuck", "event": "e"}
	  ]
	}`
	m := mustLoad(t, raw)
	diags := Validate(m)
	assert.True(t, hasMessage(diags, fsm.SeverityError, "dead end"))
}

func TestValidateUndeclaredVariable(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "B"}
	  ],
	  "transitions": [
	    {"source": "A", "target": "B", "event": "e", "condition": "counter > 0"}
	  ]
	}`
	m := mustLoad(t, raw)
	diags := Validate(m)
	assert.True(t, hasMessage(diags, fsm.SeverityError, "undeclared variable counter"))
}

func TestValidateDeclaredVariablePasses(t *testing.T) {
	raw := `{
	  "data_dictionary": [{"name": "counter", "type": "int", "initial_value": 0}],
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "B"}
	  ],
	  "transitions": [
	    {"source": "A", "target": "B", "event": "e", "condition": "counter > 0"}
	  ]
	}`
	m := mustLoad(t, raw)
	diags := Validate(m)
	assert.False(t, hasMessage(diags, fsm.SeverityError, "undeclared variable"))
}

func TestValidateDeterminismWarning(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "B"},
	    {"name": "C"}
	  ],
	  "transitions": [
	    {"source": "A", "target": "B", "event": "e"},
	    {"source": "A", "target": "C", "event": "e"}
	  ]
	}`
	m := mustLoad(t, raw)
	diags := Validate(m)
	assert.True(t, hasMessage(diags, fsm.SeverityWarning, "overlapping condition"))
}

func TestValidateDeterminismWarningTrivialBeforeGuarded(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "B"},
	    {"name": "C"}
	  ],
	  "transitions": [
	    {"source": "A", "target": "B", "event": "e"},
	    {"source": "A", "target": "C", "event": "e", "condition": "x > 0"}
	  ]
	}`
	m := mustLoad(t, raw)
	diags := Validate(m)
	assert.True(t, hasMessage(diags, fsm.SeverityWarning, "unreachable"))
}

func TestValidateNoInitialState(t *testing.T) {
	raw := `{
	  "states": [{"name": "A"}],
	  "transitions": []
	}`
	diags := Validate(mustLoad(t, raw))
	assert.True(t, hasMessage(diags, fsm.SeverityError, "no initial state"))
}

func TestValidateMultipleInitialStates(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "A", "is_initial": true},
	    {"name": "B", "is_initial": true}
	  ],
	  "transitions": []
	}`
	diags := Validate(mustLoad(t, raw))
	assert.True(t, hasMessage(diags, fsm.SeverityError, "more than one initial state"))
}

func TestValidateEmptyModel(t *testing.T) {
	raw := `{
	  "states": [],
	  "transitions": []
	}`
	diags := Validate(mustLoad(t, raw))
	assert.True(t, hasMessage(diags, fsm.SeverityError, "empty model"))
}

func TestValidateRecursesIntoSubFSM(t *testing.T) {
	raw := `{
	  "states": [
	    {"name": "Idle", "is_initial": true},
	    {"name": "Super", "is_superstate": true, "sub_fsm_data": {
	      "states": [
	        {"name": "Inner", "is_initial": true},
	        {"name": "Orphan"}
	      ],
	      "transitions": []
	    }}
	  ],
	  "transitions": [
	    {"source": "Idle", "target": "Super", "event": "go"}
	  ]
	}`
	m := mustLoad(t, raw)
	diags := Validate(m)
	assert.True(t, hasMessage(diags, fsm.SeverityError, "Orphan is unreachable"))
}

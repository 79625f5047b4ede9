package fsm

// Severity classifies a Diagnostic's importance.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// EntityRef is a stable, opaque handle to an IR entity a Diagnostic
// refers to, resolvable by a host UI without the core exposing its
// internal pointers.
type EntityRef struct {
	Kind string `json:"kind"` // "state", "transition", or "" for none
	// Scope is the dotted path of superstate names leading to the
	// entity's containing FsmModel ("" for the top level).
	Scope string `json:"scope,omitempty"`
	// State identifies a state entity by name.
	State string `json:"state,omitempty"`
	// Source/Target/Event identify a transition entity.
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
	Event  string `json:"event,omitempty"`
}

// Diagnostic is a structured finding produced by the validator. It is
// not an error: the validator always returns a (possibly empty) list
// of diagnostics rather than raising.
type Diagnostic struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Location EntityRef `json:"location"`
}

// StateRef builds an EntityRef pointing at a named state in scope.
func StateRef(scope, name string) EntityRef {
	return EntityRef{Kind: "state", Scope: scope, State: name}
}

// TransitionRef builds an EntityRef pointing at a transition in scope.
func TransitionRef(scope string, t *Transition) EntityRef {
	return EntityRef{Kind: "transition", Scope: scope, Source: t.Source, Target: t.Target, Event: t.Event}
}

// Package sim implements the step-driven simulation engine (§4.5):
// single-threaded, cooperative, one macro-step per Step call, with
// breakpoints, an action log, and nested sub-simulator precedence for
// superstates. The package mirrors the teacher's
// pkg/fsm/runner.go Runner shape — one mutable struct owning current
// position plus history, driven by an explicit Step call returning an
// outcome — generalized from NFA current-state-set tracking to
// hierarchical current-state + sub-simulator-stack tracking.
package sim

import (
	"github.com/ha1tch/fsmcore/pkg/eval"
	"github.com/ha1tch/fsmcore/pkg/fsm"
)

// LogEntry is one action-log line produced during a macro-step: a
// successful action execution, a non-fatal guard error, or the fatal
// action error that halted the machine.
type LogEntry struct {
	State      string
	Transition string // "source->target" for transition-scoped entries, "" otherwise
	Kind       string // "entry", "during", "exit", "action", "guard_error", "action_error"
	Message    string
}

// BreakpointTransition identifies a (source, target, event) triple.
type BreakpointTransition struct {
	Source string
	Target string
	Event  string
}

// StepOutcome is returned from every Step call (§4.5).
type StepOutcome struct {
	CurrentState      string
	Log               []LogEntry
	PausedOnBreakpoint bool
	FatalError        *eval.Error
	Halted            bool
}

// Simulator runs one FsmModel scope, recursively owning a sub-
// Simulator for the currently active superstate, if any.
type Simulator struct {
	model   *fsm.FsmModel
	current *fsm.State
	env     *eval.Env

	breakpointStates      map[string]bool
	breakpointTransitions map[BreakpointTransition]bool

	// resumeSkipBreakpoint is set right after a Step call pauses on a
	// breakpoint, so the next Step with the same arguments fires the
	// transition instead of pausing again (§4.5 step 6a).
	resumeSkipBreakpoint bool
	resumeKey            BreakpointTransition

	sub *Simulator

	halted bool
}

// New constructs a Simulator rooted at model's initial state, with
// the Data Dictionary's declared initial values loaded into the
// environment.
func New(model *fsm.FsmModel) *Simulator {
	s := &Simulator{
		model:                 model,
		breakpointStates:      make(map[string]bool),
		breakpointTransitions: make(map[BreakpointTransition]bool),
	}
	s.env = newEnvFromDictionary(model)
	s.current = model.InitialState()
	if s.current != nil && s.current.IsSuperstate && s.current.SubFSM != nil {
		s.sub = New(s.current.SubFSM)
	}
	return s
}

func newEnvFromDictionary(model *fsm.FsmModel) *eval.Env {
	vars := make(map[string]eval.Value, len(model.DataDictionary))
	for _, v := range model.DataDictionary {
		vars[v.Name] = eval.FromInitial(string(v.Type), v.InitialValue)
	}
	return eval.NewEnv(vars)
}

// Reset returns the Simulator (and any sub-simulator) to its initial
// state and re-initializes variables from the Data Dictionary.
func (s *Simulator) Reset() {
	s.env = newEnvFromDictionary(s.model)
	s.current = s.model.InitialState()
	s.halted = false
	s.resumeSkipBreakpoint = false
	if s.current != nil && s.current.IsSuperstate && s.current.SubFSM != nil {
		s.sub = New(s.current.SubFSM)
	} else {
		s.sub = nil
	}
}

// SetBreakpointState arms or disarms a breakpoint that pauses
// execution whenever stateName is entered.
func (s *Simulator) SetBreakpointState(stateName string, on bool) {
	if on {
		s.breakpointStates[stateName] = true
	} else {
		delete(s.breakpointStates, stateName)
	}
}

// SetBreakpointTransition arms or disarms a breakpoint that pauses
// execution just before a matching transition fires.
func (s *Simulator) SetBreakpointTransition(bp BreakpointTransition, on bool) {
	if on {
		s.breakpointTransitions[bp] = true
	} else {
		delete(s.breakpointTransitions, bp)
	}
}

// CurrentStateName reports the active state's name in this scope (the
// superstate's own name while a sub-simulator runs inside it), or ""
// if the machine has no current state (should not happen for a model
// that passed Load/Validate).
func (s *Simulator) CurrentStateName() string {
	if s.current == nil {
		return ""
	}
	return s.current.Name
}

// Halted reports whether the machine has stopped responding to Step
// calls (fatal action error or final state reached).
func (s *Simulator) Halted() bool {
	return s.halted
}

// Step performs exactly one macro-step per §4.5. event is nil for an
// anonymous "tick".
func (s *Simulator) Step(event *string) StepOutcome {
	if s.halted {
		return StepOutcome{CurrentState: s.CurrentStateName(), Halted: true}
	}

	// Step 2: nested precedence — forward to the active sub-simulator
	// first, and if it consumed the event, this macro-step is done.
	if s.sub != nil && !s.sub.halted {
		subOutcome := s.sub.Step(event)
		if s.subConsumed(subOutcome, event) {
			return StepOutcome{
				CurrentState:       s.CurrentStateName(),
				Log:                subOutcome.Log,
				PausedOnBreakpoint: subOutcome.PausedOnBreakpoint,
				FatalError:         subOutcome.FatalError,
				Halted:             s.halted,
			}
		}
	}

	var log []LogEntry
	fired := s.findFiringTransition(event, &log)

	if fired == nil {
		if s.current != nil && s.current.DuringAction != "" {
			if err := s.runAction(s.current.DuringAction, s.current.Name, "", "during", &log); err != nil {
				return s.haltOnFatal(log, err)
			}
		}
		s.env.Tick++
		return StepOutcome{CurrentState: s.CurrentStateName(), Log: log}
	}

	bp := BreakpointTransition{Source: fired.Source, Target: fired.Target, Event: fired.Event}
	if s.breakpointTransitions[bp] && !(s.resumeSkipBreakpoint && s.resumeKey == bp) {
		s.resumeSkipBreakpoint = true
		s.resumeKey = bp
		return StepOutcome{
			CurrentState:       s.CurrentStateName(),
			Log:                log,
			PausedOnBreakpoint: true,
		}
	}
	s.resumeSkipBreakpoint = false

	label := fired.Source + "->" + fired.Target
	if s.current.ExitAction != "" {
		if err := s.runAction(s.current.ExitAction, s.current.Name, label, "exit", &log); err != nil {
			return s.haltOnFatal(log, err)
		}
	}
	if fired.Action != "" {
		if err := s.runAction(fired.Action, s.current.Name, label, "action", &log); err != nil {
			return s.haltOnFatal(log, err)
		}
	}

	target := fired.TargetState
	s.current = target
	paused := false

	if target.IsFinal {
		s.halted = true
	}
	if target.EntryAction != "" {
		if err := s.runAction(target.EntryAction, target.Name, label, "entry", &log); err != nil {
			return s.haltOnFatal(log, err)
		}
	}
	if s.breakpointStates[target.Name] {
		paused = true
	}
	if target.IsSuperstate && target.SubFSM != nil {
		s.sub = New(target.SubFSM)
		if s.sub.current != nil && s.sub.current.EntryAction != "" {
			var subLog []LogEntry
			if err := s.sub.runAction(s.sub.current.EntryAction, s.sub.current.Name, "", "entry", &subLog); err != nil {
				log = append(log, subLog...)
				return s.haltOnFatal(log, err)
			}
			log = append(log, subLog...)
		}
	} else {
		s.sub = nil
	}

	s.env.Tick++
	return StepOutcome{
		CurrentState:       s.CurrentStateName(),
		Log:                log,
		PausedOnBreakpoint: paused,
		Halted:             s.halted,
	}
}

// subConsumed decides whether the sub-simulator's outcome should
// suppress this scope's own transition scan for the same event (§4.5
// step 2). A sub-simulator "consumes" an event if it fired a
// transition or ran a during_action (evidenced by the tick advancing,
// which Step always records even for a no-op during_action-less
// tick) — in practice this means it always consumes, matching "the
// innermost machine gets first refusal on every event" semantics; the
// outer machine only acts when the sub-simulator was already halted
// before the step (Step does not forward to a halted sub-simulator).
func (s *Simulator) subConsumed(outcome StepOutcome, event *string) bool {
	return true
}

func (s *Simulator) haltOnFatal(log []LogEntry, err *eval.Error) StepOutcome {
	s.halted = true
	log = append(log, LogEntry{
		State:   s.CurrentStateName(),
		Kind:    "action_error",
		Message: err.Error(),
	})
	return StepOutcome{
		CurrentState: s.CurrentStateName(),
		Log:          log,
		FatalError:   err,
		Halted:       true,
	}
}

// findFiringTransition implements §4.5 steps 3-4: scan current's
// outgoing transitions in declaration order, skip event mismatches,
// evaluate conditions, and return the first transition whose
// condition holds. Guard evaluation errors are logged and treated as
// a false guard, never fatal.
func (s *Simulator) findFiringTransition(event *string, log *[]LogEntry) *fsm.Transition {
	if s.current == nil {
		return nil
	}
	for _, t := range s.current.Outgoing {
		if t.Event != "" {
			if event == nil || *event != t.Event {
				continue
			}
		}
		ok, evalErr := s.evalCondition(t.Condition)
		if evalErr != nil {
			*log = append(*log, LogEntry{
				State:      s.current.Name,
				Transition: t.Source + "->" + t.Target,
				Kind:       "guard_error",
				Message:    evalErr.Error(),
			})
			continue
		}
		if ok {
			return t
		}
	}
	return nil
}

func (s *Simulator) evalCondition(src string) (bool, *eval.Error) {
	if src == "" {
		return true, nil
	}
	prog, err := eval.Parse(src, false)
	if err != nil {
		return false, err
	}
	v, err := eval.Eval(prog, s.env)
	if err != nil {
		return false, err
	}
	return v.Truthy()
}

func (s *Simulator) runAction(src, stateName, transitionLabel, kind string, log *[]LogEntry) *eval.Error {
	prog, err := eval.Parse(src, true)
	if err != nil {
		return err
	}
	if _, err := eval.Eval(prog, s.env); err != nil {
		return err
	}
	*log = append(*log, LogEntry{
		State:      stateName,
		Transition: transitionLabel,
		Kind:       kind,
		Message:    src,
	})
	return nil
}

// Package validate implements the pure structural and semantic checks
// run against a loaded fsm.FsmModel: reachability, determinism,
// structural invariants, and Data Dictionary usage (§4.4). Validate
// never mutates the model and never raises; it always returns the
// complete list of findings, mirroring the accumulate-don't-
// short-circuit style of other_examples/.../Dowwie-tasker's
// ValidationResult.
package validate

import (
	"sort"
	"strconv"

	"github.com/ha1tch/fsmcore/pkg/eval"
	"github.com/ha1tch/fsmcore/pkg/fsm"
)

// builtins are identifiers the evaluator resolves without a Data
// Dictionary entry; undeclared-variable checking must not flag these.
var builtins = map[string]bool{
	eval.BuiltinTick: true,
}

// Validate runs every check in §4.4 against model and its sub-FSMs,
// returning all findings in a stable, deterministic order.
func Validate(model *fsm.FsmModel) []fsm.Diagnostic {
	var diags []fsm.Diagnostic
	validateScope(model, "", &diags)
	return diags
}

func validateScope(m *fsm.FsmModel, scope string, diags *[]fsm.Diagnostic) {
	checkNonEmpty(m, scope, diags)
	checkInitialState(m, scope, diags)
	checkFinalStateOutgoing(m, scope, diags)
	reachable := checkReachability(m, scope, diags)
	checkDeadEnds(m, scope, reachable, diags)
	checkTransitionEndpoints(m, scope, diags)
	checkUndeclaredVariables(m, scope, diags)
	checkDeterminism(m, scope, diags)

	for _, s := range m.States {
		if s.IsSuperstate && s.SubFSM != nil {
			childScope := scopeFor(scope, s.Name)
			validateScope(s.SubFSM, childScope, diags)
		}
	}
}

func scopeFor(scope, stateName string) string {
	if scope == "" {
		return stateName
	}
	return scope + "." + stateName
}

// checkNonEmpty implements rule 1: at least one state. Orphan
// transitions (endpoints that resolve to no state) are reported by
// checkTransitionEndpoints, not here.
func checkNonEmpty(m *fsm.FsmModel, scope string, diags *[]fsm.Diagnostic) {
	if len(m.States) == 0 {
		*diags = append(*diags, fsm.Diagnostic{
			Severity: fsm.SeverityError,
			Message:  "empty model",
			Location: fsm.EntityRef{Kind: "", Scope: scope},
		})
	}
}

// checkInitialState implements rule 2.
func checkInitialState(m *fsm.FsmModel, scope string, diags *[]fsm.Diagnostic) {
	count := 0
	for _, s := range m.States {
		if s.IsInitial {
			count++
		}
	}
	switch {
	case count == 0:
		*diags = append(*diags, fsm.Diagnostic{
			Severity: fsm.SeverityError,
			Message:  "no initial state declared in this scope",
			Location: fsm.EntityRef{Kind: "", Scope: scope},
		})
	case count > 1:
		*diags = append(*diags, fsm.Diagnostic{
			Severity: fsm.SeverityError,
			Message:  "more than one initial state declared in this scope",
			Location: fsm.EntityRef{Kind: "", Scope: scope},
		})
	}
}

// checkFinalStateOutgoing implements rule 3.
func checkFinalStateOutgoing(m *fsm.FsmModel, scope string, diags *[]fsm.Diagnostic) {
	for _, s := range m.States {
		if !s.IsFinal || len(s.Outgoing) == 0 {
			continue
		}
		*diags = append(*diags, fsm.Diagnostic{
			Severity: fsm.SeverityError,
			Message:  "final state " + s.Name + " has outgoing transitions",
			Location: fsm.StateRef(scope, s.Name),
		})
		for _, t := range s.Outgoing {
			*diags = append(*diags, fsm.Diagnostic{
				Severity: fsm.SeverityError,
				Message:  "transition leaves final state " + s.Name,
				Location: fsm.TransitionRef(scope, t),
			})
		}
	}
}

// checkReachability implements rule 4, a BFS worklist from the
// initial state, grounded on Dowwie-tasker's computeReachable.
func checkReachability(m *fsm.FsmModel, scope string, diags *[]fsm.Diagnostic) map[string]bool {
	reachable := make(map[string]bool)
	init := m.InitialState()
	if init == nil {
		return reachable
	}
	queue := []*fsm.State{init}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if reachable[cur.Name] {
			continue
		}
		reachable[cur.Name] = true
		for _, t := range cur.Outgoing {
			if t.TargetState != nil && !reachable[t.TargetState.Name] {
				queue = append(queue, t.TargetState)
			}
		}
	}
	for _, s := range m.States {
		if !reachable[s.Name] {
			*diags = append(*diags, fsm.Diagnostic{
				Severity: fsm.SeverityError,
				Message:  "state " + s.Name + " is unreachable from the initial state",
				Location: fsm.StateRef(scope, s.Name),
			})
		}
	}
	return reachable
}

// checkDeadEnds implements rule 5.
func checkDeadEnds(m *fsm.FsmModel, scope string, reachable map[string]bool, diags *[]fsm.Diagnostic) {
	for _, s := range m.States {
		if !reachable[s.Name] || s.IsFinal || len(s.Outgoing) > 0 {
			continue
		}
		if s.IsSuperstate && s.SubFSM != nil && len(s.SubFSM.States) > 0 {
			continue
		}
		*diags = append(*diags, fsm.Diagnostic{
			Severity: fsm.SeverityError,
			Message:  "state " + s.Name + " is a dead end: reachable, non-final, and has no outgoing transitions",
			Location: fsm.StateRef(scope, s.Name),
		})
	}
}

// checkTransitionEndpoints implements rule 6. Load already rejects
// dangling endpoints at parse time, so in practice this only fires
// for models constructed directly via the fsm package rather than
// through Load; it is kept to satisfy the validator's own contract
// independent of how the IR was built.
func checkTransitionEndpoints(m *fsm.FsmModel, scope string, diags *[]fsm.Diagnostic) {
	for _, t := range m.Transitions {
		if t.SourceState == nil {
			*diags = append(*diags, fsm.Diagnostic{
				Severity: fsm.SeverityError,
				Message:  "transition source " + t.Source + " does not resolve to a state",
				Location: fsm.TransitionRef(scope, t),
			})
		}
		if t.TargetState == nil {
			*diags = append(*diags, fsm.Diagnostic{
				Severity: fsm.SeverityError,
				Message:  "transition target " + t.Target + " does not resolve to a state",
				Location: fsm.TransitionRef(scope, t),
			})
		}
	}
}

// checkUndeclaredVariables implements rule 7: every action/condition
// string in the scope is parsed and run through eval.StaticScan; any
// identifier not in the Data Dictionary and not a built-in is an
// error. Parse errors are reported as errors too, since a malformed
// action can't be scanned at all.
func checkUndeclaredVariables(m *fsm.FsmModel, scope string, diags *[]fsm.Diagnostic) {
	declared := make(map[string]bool, len(m.DataDictionary))
	for _, v := range m.DataDictionary {
		declared[v.Name] = true
	}

	checkSource := func(src string, inAction bool, loc fsm.EntityRef, what string) {
		if src == "" {
			return
		}
		prog, err := eval.Parse(src, inAction)
		if err != nil {
			*diags = append(*diags, fsm.Diagnostic{
				Severity: fsm.SeverityError,
				Message:  what + " failed to parse: " + err.Error(),
				Location: loc,
			})
			return
		}
		result := eval.StaticScan(prog)
		offenders := undeclaredIdentifiers(result, declared)
		for _, name := range offenders {
			*diags = append(*diags, fsm.Diagnostic{
				Severity: fsm.SeverityError,
				Message:  what + " references undeclared variable " + name,
				Location: loc,
			})
		}
	}

	for _, s := range m.States {
		loc := fsm.StateRef(scope, s.Name)
		checkSource(s.EntryAction, true, loc, "entry action of "+s.Name)
		checkSource(s.DuringAction, true, loc, "during action of "+s.Name)
		checkSource(s.ExitAction, true, loc, "exit action of "+s.Name)
	}
	for _, t := range m.Transitions {
		loc := fsm.TransitionRef(scope, t)
		checkSource(t.Condition, false, loc, "condition on transition "+t.Source+"->"+t.Target)
		checkSource(t.Action, true, loc, "action on transition "+t.Source+"->"+t.Target)
	}
}

func undeclaredIdentifiers(result *eval.ScanResult, declared map[string]bool) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if builtins[name] || declared[name] || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for name := range result.Reads {
		add(name)
	}
	for name := range result.Writes {
		add(name)
	}
	sort.Strings(names)
	return names
}

// checkDeterminism implements rule 8: for transitions sharing a source
// state and the same event (anonymous transitions form one group of
// their own), warn if two or more have
// syntactically identical conditions, or if any has an empty
// (trivially-true) condition while sharing the event with at least one
// other transition. Per §4.5's declaration-order firing, a trivially-
// true transition makes every transition declared after it on that
// event permanently dead, regardless of the later transition's own
// guard, so it is grouped with every other transition on the event,
// not just other empty-condition ones.
func checkDeterminism(m *fsm.FsmModel, scope string, diags *[]fsm.Diagnostic) {
	for _, s := range m.States {
		byEvent := make(map[string][]*fsm.Transition)
		for _, t := range s.Outgoing {
			byEvent[t.Event] = append(byEvent[t.Event], t)
		}
		events := make([]string, 0, len(byEvent))
		for event := range byEvent {
			events = append(events, event)
		}
		sort.Strings(events)
		for _, event := range events {
			group := byEvent[event]
			if len(group) < 2 {
				continue
			}
			byCondition := make(map[string][]*fsm.Transition)
			var trivial []*fsm.Transition
			for _, t := range group {
				byCondition[t.Condition] = append(byCondition[t.Condition], t)
				if t.Condition == "" {
					trivial = append(trivial, t)
				}
			}
			reported := make(map[*fsm.Transition]bool)
			warn := func(conflicting []*fsm.Transition, msg string) {
				for _, t := range conflicting {
					if reported[t] {
						continue
					}
					reported[t] = true
					*diags = append(*diags, fsm.Diagnostic{
						Severity: fsm.SeverityWarning,
						Message:  msg,
						Location: fsm.TransitionRef(scope, t),
					})
				}
			}
			conds := make([]string, 0, len(byCondition))
			for cond := range byCondition {
				conds = append(conds, cond)
			}
			sort.Strings(conds)
			for _, cond := range conds {
				conflicting := byCondition[cond]
				if len(conflicting) < 2 {
					continue
				}
				label := cond
				if label == "" {
					label = "<empty, trivially true>"
				}
				msg := "state " + s.Name + " has " + strconv.Itoa(len(conflicting)) +
					" outgoing transitions on event " + eventLabel(event) +
					" with overlapping condition " + label
				warn(conflicting, msg)
			}
			if len(trivial) > 0 && len(group) > 1 {
				msg := "state " + s.Name + " has a trivially-true transition on event " +
					eventLabel(event) + " declared alongside " + strconv.Itoa(len(group)-len(trivial)) +
					" other transition(s) on the same event; declaration order makes any transition" +
					" after the trivially-true one unreachable"
				warn(group, msg)
			}
		}
	}
}

func eventLabel(event string) string {
	if event == "" {
		return "<anonymous>"
	}
	return event
}

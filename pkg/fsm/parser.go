package fsm

import (
	"encoding/json"
	"fmt"
)

// rawModel mirrors the published JSON schema loosely: fields land in
// these intermediate structs first, then Load's lowering pass builds the
// strongly-typed IR and checks structural invariants. This mirrors the
// teacher's jsonFSM/jsonTransition "decode loose, then convert" shape
// in pkg/fsmfile/json.go.
type rawModel struct {
	Name           string          `json:"name"`
	States         []rawState      `json:"states"`
	Transitions    []rawTransition `json:"transitions"`
	Comments       []rawComment    `json:"comments"`
	DataDictionary []rawVariable   `json:"data_dictionary"`
}

type rawState struct {
	Name           string                  `json:"name"`
	IsInitial      bool                    `json:"is_initial"`
	IsFinal        bool                    `json:"is_final"`
	EntryAction    string                  `json:"entry_action"`
	DuringAction   string                  `json:"during_action"`
	ExitAction     string                  `json:"exit_action"`
	ActionLanguage string                  `json:"action_language"`
	IsSuperstate   bool                    `json:"is_superstate"`
	SubFSM         *rawModel               `json:"sub_fsm_data"`
	Visual         map[string]interface{}  `json:"visual"`
}

type rawTransition struct {
	Source         string `json:"source"`
	Target         string `json:"target"`
	Event          string `json:"event"`
	Condition      string `json:"condition"`
	Action         string `json:"action"`
	ActionLanguage string `json:"action_language"`
}

type rawComment struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type rawVariable struct {
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	InitialValue interface{} `json:"initial_value"`
}

// Load validates raw bytes against the published schema, then lowers
// them into an immutable IR. Construction is total once schema
// validation passes: any remaining failure is a structural LoadError
// (duplicate names, dangling endpoints), not a panic. An empty scope or
// a scope with zero or multiple initial states still lowers
// successfully; Validate reports those (§4.4 rules 1-2).
func Load(raw []byte) (*FsmModel, error) {
	if err := ValidateSchema(raw); err != nil {
		return nil, err
	}

	var rm rawModel
	if err := json.Unmarshal(raw, &rm); err != nil {
		// Schema validation already accepted this document, so a
		// decode failure here would mean the schema and the Go
		// struct tags have drifted apart — a programmer error, not a
		// caller error, but still reported as a value per §6.
		return nil, &LoadError{Message: fmt.Sprintf("internal: decode after schema validation: %v", err)}
	}

	return lower(&rm, "")
}

// lower converts a schema-valid rawModel into IR, resolving transition
// endpoints and enforcing the invariants of §4.1: unique state names
// per scope and resolvable transition endpoints, recursively for every
// sub-FSM. It does not check state count or initial-state count — that
// is left to the validator (§4.4 rules 1-2) so a zero-state or wrong-
// initial-state-count diagram still produces an IR to validate.
func lower(rm *rawModel, scope string) (*FsmModel, error) {
	m := &FsmModel{
		Name:   rm.Name,
		ByName: make(map[string]*State, len(rm.States)),
	}

	for _, rs := range rm.States {
		if rs.Name == "" {
			return nil, newLoadError(scope, "state with empty name")
		}
		if _, dup := m.ByName[rs.Name]; dup {
			return nil, newLoadError(scope, "duplicate state name %q", rs.Name)
		}

		st := &State{
			Name:           rs.Name,
			IsInitial:      rs.IsInitial,
			IsFinal:        rs.IsFinal,
			EntryAction:    rs.EntryAction,
			DuringAction:   rs.DuringAction,
			ExitAction:     rs.ExitAction,
			ActionLanguage: rs.ActionLanguage,
			IsSuperstate:   rs.IsSuperstate,
			Visual:         rs.Visual,
		}

		if rs.IsSuperstate && rs.SubFSM != nil {
			childScope := scope + "/" + rs.Name
			sub, err := lower(rs.SubFSM, childScope)
			if err != nil {
				return nil, err
			}
			st.SubFSM = sub
			for _, childState := range sub.States {
				childState.Parent = st
			}
		}

		m.States = append(m.States, st)
		m.ByName[st.Name] = st
	}

	// Non-empty-model and single-initial-state are validator checks
	// (§4.4 rules 1-2), not construction invariants (§4.1): lower only
	// enforces name uniqueness and transition endpoint resolution here,
	// so a zero-state or wrong-initial-state-count diagram still loads
	// into IR and reaches Validate.

	for _, rt := range rm.Transitions {
		src, ok := m.ByName[rt.Source]
		if !ok {
			return nil, newLoadError(scope, "transition source %q does not resolve", rt.Source)
		}
		tgt, ok := m.ByName[rt.Target]
		if !ok {
			return nil, newLoadError(scope, "transition target %q does not resolve", rt.Target)
		}
		t := &Transition{
			Source:         rt.Source,
			Target:         rt.Target,
			Event:          rt.Event,
			Condition:      rt.Condition,
			Action:         rt.Action,
			ActionLanguage: rt.ActionLanguage,
			SourceState:    src,
			TargetState:    tgt,
		}
		m.Transitions = append(m.Transitions, t)
		src.Outgoing = append(src.Outgoing, t)
	}

	for _, rc := range rm.Comments {
		m.Comments = append(m.Comments, &Comment{ID: rc.ID, Text: rc.Text})
	}

	for _, rv := range rm.DataDictionary {
		m.DataDictionary = append(m.DataDictionary, &Variable{
			Name:         rv.Name,
			Type:         VarType(rv.Type),
			InitialValue: rv.InitialValue,
		})
	}

	return m, nil
}

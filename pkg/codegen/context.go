package codegen

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ha1tch/fsmcore/pkg/fsm"
)

// Target identifies one code generation backend (§4.6).
type Target string

const (
	TargetGenericC    Target = "c"
	TargetCStateTable Target = "c_table"
	TargetArduino     Target = "arduino"
	TargetESPIDF      Target = "espidf"
	TargetPicoSDK     Target = "pico_sdk"
	TargetSTM32HAL    Target = "stm32_hal"
	TargetPython      Target = "python"
	TargetVHDL        Target = "vhdl"
	TargetVerilog     Target = "verilog"
	TargetPlantUML    Target = "plantuml"
	TargetMermaid     Target = "mermaid"
)

// GenOptions controls generation beyond the choice of target.
type GenOptions struct {
	// IncludeTestbench requests an additional testbench artifact for C
	// family targets, mirroring original_source's
	// generate_c_testbench_content.
	IncludeTestbench bool
}

// stateCtx is one state as seen by a template.
type stateCtx struct {
	Name         string
	Ident        string
	Index        int
	IsInitial    bool
	IsFinal      bool
	EntryAction  string
	DuringAction string
	ExitAction   string
	Transitions  []transitionCtx
}

// transitionCtx is one transition as seen by a template.
type transitionCtx struct {
	SourceIdent string
	TargetIdent string
	TargetName  string
	Event       string
	EventIdent  string
	Condition   string
	Action      string
}

// variableCtx is one Data Dictionary entry as seen by a template.
type variableCtx struct {
	Name  string
	Ident string
	Type  string
}

// eventCtx is one distinct event name as seen by a template.
type eventCtx struct {
	Name  string
	Ident string
}

// cContext is the shared render context for the C-family templates
// (generic C, state table, Arduino, ESP-IDF, Pico SDK, STM32 HAL),
// grounded on original_source/utils/c_code_generator.py's
// _prepare_template_context.
type cContext struct {
	FSMName           string
	FSMNameUpper      string
	HeaderGuard       string
	States            []stateCtx
	Events            []eventCtx
	InitialStateIdent string
	Variables         []variableCtx
	StateCount        int
}

// buildCContext flattens model's top-level scope (code generation
// operates on one flat scope at a time; callers generate once per
// sub-FSM when a nested machine needs its own standalone artifact).
func buildCContext(model *fsm.FsmModel, fsmName string) (*cContext, *Error) {
	if len(model.States) == 0 {
		return nil, newError(EmptyModel, "model has no states")
	}
	init := model.InitialState()
	if init == nil {
		return nil, newError(NoInitialState, "model has no initial state")
	}

	ids := newIdentSet()
	name := ids.resolve(sanitizeIdent(fsmName, "fsm"))

	stateIdent := make(map[string]string, len(model.States))
	stateIdx := make(map[string]int, len(model.States))
	idents := newIdentSet()
	for i, s := range model.States {
		stateIdent[s.Name] = idents.resolve(sanitizeIdent(s.Name, "STATE_UNNAMED"))
		stateIdx[s.Name] = i
	}

	eventSet := map[string]bool{}
	for _, t := range model.Transitions {
		if t.Event != "" {
			eventSet[t.Event] = true
		}
	}
	var eventNames []string
	for e := range eventSet {
		eventNames = append(eventNames, e)
	}
	sort.Strings(eventNames)
	eventIdents := newIdentSet()
	eventIdent := make(map[string]string, len(eventNames))
	events := make([]eventCtx, 0, len(eventNames))
	for _, e := range eventNames {
		ident := eventIdents.resolve(strings.ToUpper(sanitizeIdent(e, "EVENT_UNNAMED")))
		eventIdent[e] = ident
		events = append(events, eventCtx{Name: e, Ident: ident})
	}

	states := make([]stateCtx, 0, len(model.States))
	for i, s := range model.States {
		sc := stateCtx{
			Name:         s.Name,
			Ident:        stateIdent[s.Name],
			Index:        i,
			IsInitial:    s.IsInitial,
			IsFinal:      s.IsFinal,
			EntryAction:  s.EntryAction,
			DuringAction: s.DuringAction,
			ExitAction:   s.ExitAction,
		}
		for _, t := range s.Outgoing {
			sc.Transitions = append(sc.Transitions, transitionCtx{
				SourceIdent: stateIdent[t.Source],
				TargetIdent: stateIdent[t.Target],
				TargetName:  t.Target,
				Event:       t.Event,
				EventIdent:  eventIdent[t.Event],
				Condition:   t.Condition,
				Action:      t.Action,
			})
		}
		states = append(states, sc)
	}

	vars := make([]variableCtx, 0, len(model.DataDictionary))
	varIdents := newIdentSet()
	for _, v := range model.DataDictionary {
		vars = append(vars, variableCtx{
			Name:  v.Name,
			Ident: varIdents.resolve(sanitizeIdent(v.Name, "var")),
			Type:  string(v.Type),
		})
	}

	return &cContext{
		FSMName:           name,
		FSMNameUpper:      strings.ToUpper(name),
		HeaderGuard:       "FSM_" + strings.ToUpper(name) + "_H",
		States:            states,
		Events:            events,
		InitialStateIdent: stateIdent[init.Name],
		Variables:         vars,
		StateCount:        len(states),
	}, nil
}

// pythonContext is the render context for the Python class target,
// grounded on original_source/utils/python_code_generator.py.
type pythonContext struct {
	ClassName string
	States    []stateCtx
	Events    []eventCtx
	Variables []variableCtx
}

func buildPythonContext(model *fsm.FsmModel, className string) (*pythonContext, *Error) {
	cctx, err := buildCContext(model, className)
	if err != nil {
		return nil, err
	}
	return &pythonContext{
		ClassName: pythonClassName(className),
		States:    cctx.States,
		Events:    cctx.Events,
		Variables: cctx.Variables,
	}, nil
}

func pythonClassName(name string) string {
	ident := sanitizeIdent(name, "UnnamedFSM")
	parts := strings.FieldsFunc(ident, func(r rune) bool { return r == '_' })
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		sb.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	if sb.Len() == 0 {
		return "UnnamedFSM"
	}
	return sb.String()
}

// identLikeVarPattern extracts bare identifiers out of a condition
// string, mirroring original_source/utils/hdl_code_generator.py's
// re.findall(r'\b([a-zA-Z_][a-zA-Z0-9_]*)\b', condition) use for
// discovering HDL input signals referenced only inside guards.
var identLikeVarPattern = regexp.MustCompile(`\b[a-zA-Z_][a-zA-Z0-9_]*\b`)

// hdlKeywords is the condition-scan exclusion list from the same
// original_source function, extended with this evaluator's own
// boolean literals.
var hdlKeywords = map[string]bool{
	"true": true, "false": true, "high": true, "low": true,
	"and": true, "or": true, "not": true, "std_logic_vector": true,
	"unsigned": true, "signed": true, "others": true, "to_unsigned": true,
	"reg": true, "wire": true,
}

// hdlContext is the render context shared by the VHDL and Verilog
// generators, grounded on _prepare_hdl_context.
type hdlContext struct {
	EntityName       string
	States           []stateCtx
	InitialStateIdent string
	StateBits        int
	InputSignals     []string
}

func buildHDLContext(model *fsm.FsmModel, entityName string, lang string) (*hdlContext, *Error) {
	if len(model.States) == 0 {
		return nil, newError(EmptyModel, "model has no states")
	}
	init := model.InitialState()
	if init == nil {
		return nil, newError(NoInitialState, "model has no initial state")
	}

	sanitize := sanitizeVHDLIdent
	if lang == "verilog" {
		sanitize = sanitizeVerilogIdent
	}

	idents := newIdentSet()
	stateIdent := make(map[string]string, len(model.States))
	for _, s := range model.States {
		stateIdent[s.Name] = idents.resolve(sanitize(s.Name))
	}

	inputSignals := map[string]bool{}
	for _, t := range model.Transitions {
		event := t.Event
		if event == "" {
			event = "transition_event"
		}
		inputSignals[sanitize(event)] = true
		for _, v := range identLikeVarPattern.FindAllString(t.Condition, -1) {
			if hdlKeywords[strings.ToLower(v)] {
				continue
			}
			inputSignals[sanitize(v)] = true
		}
	}
	var signals []string
	for s := range inputSignals {
		signals = append(signals, s)
	}
	sort.Strings(signals)

	states := make([]stateCtx, 0, len(model.States))
	for i, s := range model.States {
		sc := stateCtx{Name: s.Name, Ident: stateIdent[s.Name], Index: i, IsInitial: s.IsInitial, IsFinal: s.IsFinal}
		for _, t := range s.Outgoing {
			event := t.Event
			if event == "" {
				event = "transition_event"
			}
			sc.Transitions = append(sc.Transitions, transitionCtx{
				SourceIdent: stateIdent[t.Source],
				TargetIdent: stateIdent[t.Target],
				Event:       t.Event,
				EventIdent:  sanitize(event),
				Condition:   t.Condition,
			})
		}
		states = append(states, sc)
	}

	// state_bits = max(1, (len(states)-1).bit_length()) — the original
	// Python's exact formula, ported verbatim (bit_length of n is the
	// index of its highest set bit plus one; Go has no bit_length on
	// int, so it is computed with a shift loop below).
	return &hdlContext{
		EntityName:        sanitize(entityName),
		States:            states,
		InitialStateIdent: stateIdent[init.Name],
		StateBits:         stateBits(len(model.States)),
		InputSignals:      signals,
	}, nil
}

func stateBits(numStates int) int {
	n := numStates - 1
	bits := 0
	for n > 0 {
		bits++
		n >>= 1
	}
	if bits < 1 {
		return 1
	}
	return bits
}

func sanitizeVHDLIdent(name string) string {
	if name == "" {
		return "unnamed_fsm"
	}
	s := sanitizeIdent(name, "unnamed_fsm")
	if s == "" || !isAlpha(rune(s[0])) {
		s = "fsm_" + s
	}
	return strings.ToLower(s)
}

func sanitizeVerilogIdent(name string) string {
	if name == "" {
		return "unnamed_fsm"
	}
	s := sanitizeIdent(name, "unnamed_fsm")
	if s == "" || !isAlpha(rune(s[0])) {
		s = "fsm_" + s
	}
	return s
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

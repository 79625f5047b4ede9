package codegen

import (
	"fmt"
	"strings"

	"github.com/ha1tch/fsmcore/pkg/artifact"
	"github.com/ha1tch/fsmcore/pkg/fsm"
)

// generatePlantUML renders a @startuml/@enduml state diagram, grounded
// on the teacher's manual strings.Builder idiom in pkg/codegen/c.go —
// diagrams have no fixed multi-section file skeleton worth templating,
// unlike the C/HDL/Python targets, so they are hand-built rather than
// routed through text/template.
func generatePlantUML(model *fsm.FsmModel, name string) (*artifact.Bundle, error) {
	if len(model.States) == 0 {
		return nil, newError(EmptyModel, "model has no states")
	}
	if model.InitialState() == nil {
		return nil, newError(NoInitialState, "model has no initial state")
	}
	var sb strings.Builder
	sb.WriteString("@startuml\n")
	writePlantUMLScope(&sb, model, 0)
	sb.WriteString("@enduml\n")
	fileName := sanitizeIdent(name, "fsm") + ".puml"
	return artifact.NewBundle(
		artifact.Artifact{Name: fileName, Content: sb.String(), Extension: ".puml", Target: string(TargetPlantUML)},
	), nil
}

func writePlantUMLScope(sb *strings.Builder, model *fsm.FsmModel, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, s := range model.States {
		if s.IsInitial {
			fmt.Fprintf(sb, "%s[*] --> %s\n", indent, plantUMLState(s.Name))
		}
	}
	for _, s := range model.States {
		if s.IsSuperstate && s.SubFSM != nil {
			fmt.Fprintf(sb, "%sstate %s {\n", indent, plantUMLState(s.Name))
			writePlantUMLScope(sb, s.SubFSM, depth+1)
			fmt.Fprintf(sb, "%s}\n", indent)
		}
		if s.IsFinal {
			fmt.Fprintf(sb, "%s%s --> [*]\n", indent, plantUMLState(s.Name))
		}
	}
	for _, t := range model.Transitions {
		label := t.Event
		if t.Condition != "" {
			if label != "" {
				label += " "
			}
			label += "[" + t.Condition + "]"
		}
		if t.Action != "" {
			label += " / " + t.Action
		}
		if label == "" {
			fmt.Fprintf(sb, "%s%s --> %s\n", indent, plantUMLState(t.Source), plantUMLState(t.Target))
		} else {
			fmt.Fprintf(sb, "%s%s --> %s : %s\n", indent, plantUMLState(t.Source), plantUMLState(t.Target), label)
		}
	}
}

func plantUMLState(name string) string {
	if strings.ContainsAny(name, " \t") {
		return strings.ReplaceAll(name, " ", "_")
	}
	return name
}

// generateMermaid renders a stateDiagram-v2 document.
func generateMermaid(model *fsm.FsmModel, name string) (*artifact.Bundle, error) {
	if len(model.States) == 0 {
		return nil, newError(EmptyModel, "model has no states")
	}
	if model.InitialState() == nil {
		return nil, newError(NoInitialState, "model has no initial state")
	}
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")
	writeMermaidScope(&sb, model, 1)
	fileName := sanitizeIdent(name, "fsm") + ".mmd"
	return artifact.NewBundle(
		artifact.Artifact{Name: fileName, Content: sb.String(), Extension: ".mmd", Target: string(TargetMermaid)},
	), nil
}

func writeMermaidScope(sb *strings.Builder, model *fsm.FsmModel, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, s := range model.States {
		if s.IsInitial {
			fmt.Fprintf(sb, "%s[*] --> %s\n", indent, mermaidState(s.Name))
		}
	}
	for _, s := range model.States {
		if s.IsSuperstate && s.SubFSM != nil {
			fmt.Fprintf(sb, "%sstate %s {\n", indent, mermaidState(s.Name))
			writeMermaidScope(sb, s.SubFSM, depth+1)
			fmt.Fprintf(sb, "%s}\n", indent)
		}
		if s.IsFinal {
			fmt.Fprintf(sb, "%s%s --> [*]\n", indent, mermaidState(s.Name))
		}
	}
	for _, t := range model.Transitions {
		label := t.Event
		if t.Condition != "" {
			if label != "" {
				label += " "
			}
			label += "[" + t.Condition + "]"
		}
		if t.Action != "" {
			label += " / " + t.Action
		}
		if label == "" {
			fmt.Fprintf(sb, "%s%s --> %s\n", indent, mermaidState(t.Source), mermaidState(t.Target))
		} else {
			fmt.Fprintf(sb, "%s%s --> %s : %s\n", indent, mermaidState(t.Source), mermaidState(t.Target), label)
		}
	}
}

func mermaidState(name string) string {
	if strings.ContainsAny(name, " \t") {
		return strings.ReplaceAll(name, " ", "_")
	}
	return name
}

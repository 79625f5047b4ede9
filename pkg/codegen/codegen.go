// Package codegen implements the multi-target code generation
// backend (§4.6): a (context-builder, template-set) pair per target,
// rendered with text/template against an embed.FS, grounded on
// original_source's Jinja2 template_map dispatch and the teacher's
// pkg/codegen/c.go enum-per-state/switch-per-state shape.
package codegen

import (
	"github.com/ha1tch/fsmcore/pkg/artifact"
	"github.com/ha1tch/fsmcore/pkg/fsm"
)

// Generate dispatches to the (context-builder, template-set) pair for
// target and returns the resulting Bundle. It never materializes any
// artifact before every check has passed (§4.6 Failures).
func Generate(model *fsm.FsmModel, name string, target Target, opts GenOptions) (*artifact.Bundle, error) {
	switch target {
	case TargetGenericC:
		return generateGenericC(model, name, opts)
	case TargetCStateTable:
		return generateTableC(model, name, opts)
	case TargetArduino:
		return generateArduino(model, name, opts)
	case TargetESPIDF:
		return generateEmbedded(model, name, "fsm_espidf_main_c.tmpl", "main.c", opts)
	case TargetPicoSDK:
		return generateEmbedded(model, name, "fsm_pico_sdk_main_c.tmpl", "main.c", opts)
	case TargetSTM32HAL:
		return generateEmbedded(model, name, "fsm_stm32_hal_snippet_c.tmpl", "stm32_snippet.c", opts)
	case TargetPython:
		return generatePython(model, name)
	case TargetVHDL:
		return generateVHDL(model, name)
	case TargetVerilog:
		return generateVerilog(model, name)
	case TargetPlantUML:
		return generatePlantUML(model, name)
	case TargetMermaid:
		return generateMermaid(model, name)
	default:
		return nil, newError(UnsupportedTarget, "unsupported code generation target: "+string(target))
	}
}

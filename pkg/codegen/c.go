package codegen

import (
	"github.com/ha1tch/fsmcore/pkg/artifact"
	"github.com/ha1tch/fsmcore/pkg/fsm"
)

// generateGenericC renders the plain switch-on-state/switch-on-event C
// target (fsm_h.tmpl + fsm_c.tmpl), grounded on the teacher's original
// pkg/codegen/c.go GenerateC (enum-per-state, switch-per-state dispatch)
// adapted from input-alphabet dispatch to named-event dispatch and from
// one flat DFA to a hierarchical FSM's actions and guards.
func generateGenericC(model *fsm.FsmModel, name string, opts GenOptions) (*artifact.Bundle, error) {
	ctx, err := buildCContext(model, name)
	if err != nil {
		return nil, err
	}
	header, terr := render("fsm_h.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	src, terr := render("fsm_c.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	items := []artifact.Artifact{
		{Name: ctx.FSMName + ".h", Content: header, Extension: ".h", Target: string(TargetGenericC)},
		{Name: ctx.FSMName + ".c", Content: src, Extension: ".c", Target: string(TargetGenericC)},
	}
	if opts.IncludeTestbench {
		tb, terr := render("testbench_c.tmpl", ctx)
		if terr != nil {
			return nil, terr
		}
		items = append(items, artifact.Artifact{Name: ctx.FSMName + "_test.c", Content: tb, Extension: ".c", Target: string(TargetGenericC)})
	}
	return artifact.NewBundle(items...), nil
}

// generateTableC renders the function-pointer transition-table C
// target (fsm_table_h.tmpl + fsm_table_c.tmpl).
func generateTableC(model *fsm.FsmModel, name string, opts GenOptions) (*artifact.Bundle, error) {
	ctx, err := buildCContext(model, name)
	if err != nil {
		return nil, err
	}
	header, terr := render("fsm_table_h.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	src, terr := render("fsm_table_c.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	items := []artifact.Artifact{
		{Name: ctx.FSMName + ".h", Content: header, Extension: ".h", Target: string(TargetCStateTable)},
		{Name: ctx.FSMName + ".c", Content: src, Extension: ".c", Target: string(TargetCStateTable)},
	}
	if opts.IncludeTestbench {
		tb, terr := render("testbench_c.tmpl", ctx)
		if terr != nil {
			return nil, terr
		}
		items = append(items, artifact.Artifact{Name: ctx.FSMName + "_test.c", Content: tb, Extension: ".c", Target: string(TargetCStateTable)})
	}
	return artifact.NewBundle(items...), nil
}

// generateArduino renders the .h/.c pair plus an .ino sketch wrapper
// calling setup()/loop().
func generateArduino(model *fsm.FsmModel, name string, opts GenOptions) (*artifact.Bundle, error) {
	ctx, err := buildCContext(model, name)
	if err != nil {
		return nil, err
	}
	header, terr := render("fsm_h.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	src, terr := render("fsm_c.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	ino, terr := render("fsm_arduino_ino.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	return artifact.NewBundle(
		artifact.Artifact{Name: ctx.FSMName + ".h", Content: header, Extension: ".h", Target: string(TargetArduino)},
		artifact.Artifact{Name: ctx.FSMName + ".c", Content: src, Extension: ".c", Target: string(TargetArduino)},
		artifact.Artifact{Name: ctx.FSMName + ".ino", Content: ino, Extension: ".ino", Target: string(TargetArduino)},
	), nil
}

// generateEmbedded renders the .h/.c pair plus a platform-specific main
// snippet, shared by the ESP-IDF, Pico SDK and STM32 HAL targets which
// all reuse the same switch-based fsm_c.tmpl core and differ only in
// their application entry point.
func generateEmbedded(model *fsm.FsmModel, name, mainTmpl, mainName string, opts GenOptions) (*artifact.Bundle, error) {
	ctx, err := buildCContext(model, name)
	if err != nil {
		return nil, err
	}
	header, terr := render("fsm_h.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	src, terr := render("fsm_c.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	main, terr := render(mainTmpl, ctx)
	if terr != nil {
		return nil, terr
	}
	var target string
	switch mainTmpl {
	case "fsm_espidf_main_c.tmpl":
		target = string(TargetESPIDF)
	case "fsm_pico_sdk_main_c.tmpl":
		target = string(TargetPicoSDK)
	case "fsm_stm32_hal_snippet_c.tmpl":
		target = string(TargetSTM32HAL)
	}
	return artifact.NewBundle(
		artifact.Artifact{Name: ctx.FSMName + ".h", Content: header, Extension: ".h", Target: target},
		artifact.Artifact{Name: ctx.FSMName + ".c", Content: src, Extension: ".c", Target: target},
		artifact.Artifact{Name: mainName, Content: main, Extension: ".c", Target: target},
	), nil
}

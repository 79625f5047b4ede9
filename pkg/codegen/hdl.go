package codegen

import (
	"github.com/ha1tch/fsmcore/pkg/artifact"
	"github.com/ha1tch/fsmcore/pkg/fsm"
)

// generateVHDL renders the two-process synchronous VHDL target
// (fsm_vhd.tmpl), grounded on
// original_source/utils/hdl_code_generator.py's generate_vhdl_content.
func generateVHDL(model *fsm.FsmModel, name string) (*artifact.Bundle, error) {
	ctx, err := buildHDLContext(model, name, "vhdl")
	if err != nil {
		return nil, err
	}
	src, terr := render("fsm_vhd.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	return artifact.NewBundle(
		artifact.Artifact{Name: ctx.EntityName + ".vhd", Content: src, Extension: ".vhd", Target: string(TargetVHDL)},
	), nil
}

// generateVerilog renders the two-process synchronous Verilog target
// (fsm_v.tmpl), grounded on the same original_source module's
// generate_verilog_content.
func generateVerilog(model *fsm.FsmModel, name string) (*artifact.Bundle, error) {
	ctx, err := buildHDLContext(model, name, "verilog")
	if err != nil {
		return nil, err
	}
	src, terr := render("fsm_v.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	return artifact.NewBundle(
		artifact.Artifact{Name: ctx.EntityName + ".v", Content: src, Extension: ".v", Target: string(TargetVerilog)},
	), nil
}

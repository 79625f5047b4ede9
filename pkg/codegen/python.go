package codegen

import (
	"github.com/ha1tch/fsmcore/pkg/artifact"
	"github.com/ha1tch/fsmcore/pkg/fsm"
)

// generatePython renders the Python class target (python_fsm.tmpl),
// grounded on original_source/utils/python_code_generator.py.
func generatePython(model *fsm.FsmModel, name string) (*artifact.Bundle, error) {
	ctx, err := buildPythonContext(model, name)
	if err != nil {
		return nil, err
	}
	src, terr := render("python_fsm.tmpl", ctx)
	if terr != nil {
		return nil, terr
	}
	fileName := sanitizeIdent(name, "fsm") + ".py"
	return artifact.NewBundle(
		artifact.Artifact{Name: fileName, Content: src, Extension: ".py", Target: string(TargetPython)},
	), nil
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsmcore/pkg/fsm"
	"github.com/ha1tch/fsmcore/pkg/validate"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <diagram.json>",
		Short: "Run the schema and structural checks against a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			path := args[0]

			model, err := loadModel(path)
			if err != nil {
				return err
			}

			diags := validate.Validate(model)
			log.Debugw("validation complete", "path", path, "diagnostics", len(diags))

			errCount := 0
			for _, d := range diags {
				fmt.Printf("[%s] %s (%s)\n", d.Severity, d.Message, describeLocation(d.Location))
				if d.Severity == fsm.SeverityError {
					errCount++
				}
			}
			if len(diags) == 0 {
				fmt.Println("no issues found")
			}
			if errCount > 0 {
				os.Exit(1)
			}
			return nil
		},
	}
}

func describeLocation(loc fsm.EntityRef) string {
	switch loc.Kind {
	case "state":
		if loc.Scope != "" {
			return fmt.Sprintf("state %s in %s", loc.State, loc.Scope)
		}
		return fmt.Sprintf("state %s", loc.State)
	case "transition":
		return fmt.Sprintf("transition %s -> %s on %q", loc.Source, loc.Target, loc.Event)
	default:
		return "model"
	}
}

func loadModel(path string) (*fsm.FsmModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	model, err := fsm.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return model, nil
}

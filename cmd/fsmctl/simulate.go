package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsmcore/pkg/sim"
)

func newSimulateCmd() *cobra.Command {
	var events []string

	cmd := &cobra.Command{
		Use:   "simulate <diagram.json>",
		Short: "Step a diagram through a sequence of events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			model, err := loadModel(args[0])
			if err != nil {
				return err
			}

			s := sim.New(model)
			fmt.Printf("initial state: %s\n", s.CurrentStateName())

			steps := events
			if len(steps) == 0 {
				steps = []string{""}
			}
			for _, e := range steps {
				var ev *string
				if e != "" {
					ev = &e
				}
				outcome := s.Step(ev)
				for _, entry := range outcome.Log {
					fmt.Printf("  [%s] %s: %s\n", entry.Kind, entry.State, entry.Message)
				}
				fmt.Printf("-> %s\n", outcome.CurrentState)
				if outcome.FatalError != nil {
					log.Errorw("fatal evaluation error", "kind", outcome.FatalError.Kind, "message", outcome.FatalError.Message)
				}
				if outcome.Halted {
					fmt.Println("machine halted")
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&events, "event", "e", nil, "event to fire, repeatable; omit for a tick with no event")
	return cmd
}

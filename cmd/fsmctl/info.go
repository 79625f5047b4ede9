package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsmcore/pkg/fsm"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <diagram.json>",
		Short: "Print a summary of a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := loadModel(args[0])
			if err != nil {
				return err
			}
			printInfo(model, "")
			return nil
		},
	}
}

func printInfo(model *fsm.FsmModel, indent string) {
	name := model.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("%sname:        %s\n", indent, name)
	fmt.Printf("%sstates:      %d\n", indent, len(model.States))
	fmt.Printf("%stransitions: %d\n", indent, len(model.Transitions))
	fmt.Printf("%svariables:   %d\n", indent, len(model.DataDictionary))
	if init := model.InitialState(); init != nil {
		fmt.Printf("%sinitial:     %s\n", indent, init.Name)
	}
	for _, s := range model.States {
		if s.IsSuperstate && s.SubFSM != nil {
			fmt.Printf("%ssub-FSM in state %s:\n", indent, s.Name)
			printInfo(s.SubFSM, indent+"  ")
		}
	}
}

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ha1tch/fsmcore/internal/applog"
)

var verbose bool

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fsmctl",
		Short:         "Load, validate, simulate and generate code from FSM diagrams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newValidateCmd(),
		newSimulateCmd(),
		newGenerateCmd(),
		newInfoCmd(),
		newVersionCmd(),
	)
	return root
}

func logger() *zap.SugaredLogger {
	return applog.New(verbose)
}

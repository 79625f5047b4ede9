package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ha1tch/fsmcore/pkg/codegen"
)

func newGenerateCmd() *cobra.Command {
	var (
		target    string
		name      string
		outDir    string
		testbench bool
	)

	cmd := &cobra.Command{
		Use:   "generate <diagram.json>",
		Short: "Generate target-language source from a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger()
			model, err := loadModel(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = filepathBase(args[0])
			}

			bundle, err := codegen.Generate(model, name, codegen.Target(target), codegen.GenOptions{IncludeTestbench: testbench})
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}
			log.Infow("generated", "target", target, "artifacts", len(bundle.Items))

			if outDir == "" {
				for _, item := range bundle.Items {
					fmt.Printf("// ---- %s ----\n", item.Name)
					fmt.Println(item.Content)
				}
				return nil
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", outDir, err)
			}
			for _, item := range bundle.Items {
				dest := filepath.Join(outDir, item.Name)
				if err := os.WriteFile(dest, []byte(item.Content), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", dest, err)
				}
				fmt.Printf("wrote %s\n", dest)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", string(codegen.TargetGenericC), "code generation target")
	cmd.Flags().StringVarP(&name, "name", "n", "", "generated FSM/entity/class name (default: input file base name)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default: print to stdout)")
	cmd.Flags().BoolVar(&testbench, "testbench", false, "also emit a C testbench (generic C and C state-table targets only)")
	return cmd
}

func filepathBase(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return base[:len(base)-len(ext)]
}

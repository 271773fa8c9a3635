package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-schema",
		Short: "validate source and report per-gen findings",
	}
	file := addFileFlag(cmd)
	strict := cmd.Flags().Bool("strict", false, "also run the strict checks (missing id, counter bounds, set bounds)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(file)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		callArgs := map[string]string{"source": src}
		if *strict {
			callArgs["strict"] = "true"
		}
		if !dispatch("validate_schema", callArgs) {
			exitCode = 1
		}
		return nil
	}
	return cmd
}

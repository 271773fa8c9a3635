package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTypecheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "typecheck",
		Short: "run the scope/type validator and CRDT checker",
	}
	file := addFileFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(file)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		if !dispatch("typecheck", map[string]string{"source": src}) {
			exitCode = 1
		}
		return nil
	}
	return cmd
}

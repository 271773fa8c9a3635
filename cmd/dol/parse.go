package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "parse source and report diagnostics",
	}
	file := addFileFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(file)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		if !dispatch("parse", map[string]string{"source": src}) {
			exitCode = 1
		}
		return nil
	}
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReflectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reflect <qname>",
		Short: "describe a declaration by its qualified name",
		Args:  cobra.ExactArgs(1),
	}
	file := addFileFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(file)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		if !dispatch("reflect", map[string]string{"source": src, "qname": args[0]}) {
			exitCode = 1
		}
		return nil
	}
	return cmd
}

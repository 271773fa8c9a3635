package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compileToolNames = map[string]string{
	"rust":       "compile_rust",
	"typescript": "compile_typescript",
	"wasm":       "compile_wasm",
}

func newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <target>",
		Short: "render source to one of rust, typescript, wasm",
		Args:  cobra.ExactArgs(1),
	}
	file := addFileFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		tool, ok := compileToolNames[args[0]]
		if !ok {
			return fmt.Errorf("unknown compile target %q (want rust, typescript or wasm)", args[0])
		}
		src, err := loadSource(file)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		if !dispatch(tool, map[string]string{"source": src}) {
			exitCode = 1
		}
		return nil
	}
	return cmd
}

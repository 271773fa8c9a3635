package main

import "github.com/spf13/cobra"

// addFileFlag adds the --file/-f flag shared by every subcommand that
// needs source text, defaulting to "-" for stdin.
func addFileFlag(cmd *cobra.Command) *string {
	file := cmd.Flags().StringP("file", "f", "-", "input file, or - for stdin")
	return file
}

func loadSource(file *string) (string, error) {
	return readSource(*file)
}

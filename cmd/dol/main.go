// Command dol is the reference driver for the compiler pipeline: a thin
// cobra CLI over the same internal/tool dispatcher an MCP-style transport
// would sit on top of, following cmd/cue's shape of a root command that
// wires global flags once and delegates everything else to subcommands.
package main

import "os"

func main() {
	os.Exit(Execute())
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/univrs/dol/internal/tool"
)

// verbose raises the logger to debug level, the same shape
// theRebelliousNerd-codenerd's cmd/nerd/main.go uses for its own
// --verbose flag: a zap.NewProductionConfig() swapped to
// zapcore.DebugLevel rather than a second logger construction path.
var verbose bool

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dol",
		Short:         "reference driver for the DOL compiler pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newParseCmd(),
		newTypecheckCmd(),
		newCompileCmd(),
		newFormatCmd(),
		newReflectCmd(),
		newRecommendCrdtCmd(),
		newExplainStrategyCmd(),
		newValidateSchemaCmd(),
		newManifestCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code: 0 on success,
// non-zero when the aggregated diagnostics contain any error (spec.md 6).
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dol:", err)
		return 1
	}
	return exitCode
}

// exitCode is set by a subcommand's RunE before returning, since cobra's
// own Execute only distinguishes "err != nil" from success and the
// diagnostics-contain-an-error case needs a non-zero exit without cobra
// itself printing a second error.
var exitCode int

func readSource(path string) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// dispatch runs one tool call and prints its result, then returns whether
// the pipeline reported success so the caller can set the process exit
// code accordingly. Tools that return a bare text result (format, eval,
// expand_macro, the compile_* tools, ...) are always treated as successful.
func dispatch(name string, args map[string]string) bool {
	d := tool.NewDispatcher(newLogger())
	res, err := d.Call(name, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dol:", err)
		return false
	}
	if !res.IsJSON {
		fmt.Println(res.Text)
		return true
	}
	printJSON(res.JSON)
	if m, ok := res.JSON.(map[string]interface{}); ok {
		if ok, present := m["ok"]; present {
			if b, isBool := ok.(bool); isBool {
				return b
			}
		}
	}
	return true
}

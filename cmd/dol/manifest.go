package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/univrs/dol/manifest"
)

// manifestYAML mirrors manifest.Manifest with yaml struct tags, since the
// parsed type's fields (version.Version, manifest.Path, ...) carry no
// yaml tags of their own and a round-trip tool is easier to reason about
// against a flat, purely-for-display shape than against the parser's
// internal representation.
type manifestYAML struct {
	Name     string       `yaml:"name"`
	Version  string       `yaml:"version"`
	Docs     string       `yaml:"docs,omitempty"`
	Spirits  []spiritYAML `yaml:"spirits,omitempty"`
	Config   configYAML   `yaml:"config"`
	Bindings []string     `yaml:"bindings,omitempty"`
}

type spiritYAML struct {
	Name       string `yaml:"name"`
	Path       string `yaml:"path"`
	Constraint string `yaml:"constraint"`
}

type configYAML struct {
	Entry        string   `yaml:"entry"`
	Runtime      string   `yaml:"runtime"`
	Memory       string   `yaml:"memory,omitempty"`
	Capabilities []string `yaml:"capabilities,omitempty"`
}

func toManifestYAML(m *manifest.Manifest) manifestYAML {
	out := manifestYAML{
		Name:    m.Name,
		Version: m.Version.String(),
		Docs:    m.Docs,
		Config: configYAML{
			Entry:        m.Config.Entry,
			Runtime:      m.Config.Runtime,
			Memory:       m.Config.Memory,
			Capabilities: m.Config.Capabilities,
		},
	}
	for _, s := range m.Spirits {
		out.Spirits = append(out.Spirits, spiritYAML{
			Name:       s.Name,
			Path:       s.Path.String(),
			Constraint: fmt.Sprintf("%s %s", s.Constraint.Op, s.Constraint.Version),
		})
	}
	for _, b := range m.Bindings {
		out.Bindings = append(out.Bindings, fmt.Sprintf("%s -> %s", b.From, b.To))
	}
	return out
}

func newManifestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "parse a system manifest and emit it as YAML",
	}
	file := addFileFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(file)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		m, errs := manifest.ParseManifest(*file, []byte(src))
		if errs.HasErrors() {
			fmt.Fprintln(os.Stderr, errs)
			exitCode = 1
			return nil
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(toManifestYAML(m))
	}
	return cmd
}

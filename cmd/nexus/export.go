package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/Nexus/internal/knowledge"
)

// Export formats.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func newExportCmd(gf *globalFlags) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the knowledge graph as JSON or YAML",
		Long: `Write every node and link of the stored knowledge graph to stdout or a
file. The server does not need to be running; close it first when using the
json backend so the export sees its last save.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatYAML {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatJSON, formatYAML)
			}
			cfg, err := loadConfig(cmd, gf, nil)
			if err != nil {
				return err
			}

			store, closer, err := knowledge.NewPersister(cfg.Storage, cfg.DataDir)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			snap, err := store.Load()
			if err != nil {
				return fmt.Errorf("loading knowledge graph: %w", err)
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			return writeSnapshot(w, snap, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func writeSnapshot(w io.Writer, snap knowledge.Snapshot, format string) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}

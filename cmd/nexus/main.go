// Nexus: structured reasoning and knowledge graph MCP server
//
// Records reasoning steps as a dependency graph with branches, and keeps a
// durable knowledge graph of typed entities and relations, both exposed as
// MCP tools to any AI coding tool that speaks MCP over stdio.
//
// Usage:
//
//	nexus serve                 # Start MCP server (stdio transport)
//	nexus export --format yaml  # Dump the knowledge graph
//	nexus version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HendryAvila/Nexus/internal/config"
	nexusserver "github.com/HendryAvila/Nexus/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are the persistent flags every subcommand reads its
// configuration through.
type globalFlags struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	var gf globalFlags

	root := &cobra.Command{
		Use:   "nexus",
		Short: "Structured reasoning and knowledge graph MCP server",
		Long: fmt.Sprintf(`Nexus v%s: structured reasoning and knowledge graph MCP server

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "nexus": {
        "command": "nexus",
        "args": ["serve"]
      }
    }
  }

Settings come from flags, NEXUS_* environment variables (e.g.
NEXUS_DATA_DIR, NEXUS_LOG_LEVEL) and an optional nexus.yaml in the
working directory or ~/.nexus.`, nexusserver.Version),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&gf.configFile, "config", "", "config file (default: ./nexus.yaml or ~/.nexus/nexus.yaml)")
	pf.String("data-dir", "", "directory holding the knowledge graph (default: ~/.nexus)")
	pf.String("storage", "", "knowledge graph backend: sqlite or json (default: sqlite)")
	pf.String("log-level", "", "debug, info, warn or error (default: info)")

	root.AddCommand(
		newServeCmd(&gf),
		newExportCmd(&gf),
		newVersionCmd(),
	)
	return root
}

// loadConfig resolves the configuration for cmd, letting explicitly set
// flags win over environment and file values.
func loadConfig(cmd *cobra.Command, gf *globalFlags, extra map[string]string) (config.Config, error) {
	v := config.New(gf.configFile)

	bindings := map[string]string{
		config.KeyDataDir:  "data-dir",
		config.KeyStorage:  "storage",
		config.KeyLogLevel: "log-level",
	}
	for key, flag := range extra {
		bindings[key] = flag
	}
	if err := bindFlags(v, cmd, bindings); err != nil {
		return config.Config{}, err
	}
	return config.Load(v)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) error {
	for key, name := range bindings {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			f = cmd.Root().PersistentFlags().Lookup(name)
		}
		if f == nil {
			return fmt.Errorf("unknown flag %q", name)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nexus v%s\n", nexusserver.Version)
		},
	}
}

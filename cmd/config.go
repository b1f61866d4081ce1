package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"ebp-replay-analyzer/domain/game"
	"ebp-replay-analyzer/infrastructure/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput io.Writer = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
	Long: `Show the effective configuration, the known maps, or export the screen layout.

Examples:
  ebp-replay-analyzer config show
  ebp-replay-analyzer config maps
  ebp-replay-analyzer config layout config/layout.yaml`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	// Add subcommands
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configMapsCmd)
	configCmd.AddCommand(configLayoutCmd)
}

// --- SHOW command ---

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return RunConfigShowWithDependencies(cfg, cfgFile, DefaultOutput)
	},
}

// RunConfigShowWithDependencies prints cfg with injected dependencies
func RunConfigShowWithDependencies(cfg *config.Config, configPath string, out io.Writer) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if _, statErr := os.Stat(configPath); statErr != nil {
		fmt.Fprintf(out, "# %s not found, showing defaults\n", configPath)
	} else {
		fmt.Fprintf(out, "# %s\n", configPath)
	}
	_, err = out.Write(data)
	return err
}

// --- MAPS command ---

var configMapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List the maps and the keywords that identify them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunConfigMapsWithDependencies(DefaultOutput)
	},
}

// RunConfigMapsWithDependencies lists the map table
func RunConfigMapsWithDependencies(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MAP\tKEYWORDS")
	for _, m := range game.Maps {
		fmt.Fprintf(w, "%s\t%s\n", m.Name, strings.Join(m.Keywords, ", "))
	}
	return w.Flush()
}

// --- LAYOUT command ---

var configLayoutCmd = &cobra.Command{
	Use:   "layout <path>",
	Short: "Write the screen layout to a YAML file",
	Long: `Write the probe positions, colors and text regions used for detection.

Edit the file and point layout_file at it in config.yaml to adapt detection
to another capture setup.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return RunConfigLayoutWithDependencies(cfg, args[0], DefaultOutput)
	},
}

// RunConfigLayoutWithDependencies exports the active layout to path
func RunConfigLayoutWithDependencies(cfg *config.Config, path string, out io.Writer) error {
	layout, err := cfg.Layout()
	if err != nil {
		return fmt.Errorf("failed to load layout: %w", err)
	}

	if err := config.SaveLayout(layout, path); err != nil {
		return err
	}

	fmt.Fprintf(out, "Layout for %dx%d written to %s\n", layout.Width, layout.Height, path)
	return nil
}

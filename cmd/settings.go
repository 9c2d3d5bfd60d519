package cmd

import (
	"fmt"
	"os"
	"strings"

	"data-importer/core/mapping"
	"data-importer/feature/product"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect import settings blobs",
}

var bareSettings bool

// settingsCheckCmd validates a settings blob and prints the resolved mappings.
var settingsCheckCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a settings blob and print the resulting mappings",
	Long: `Overlay a key=value settings blob on the product defaults (or on an
empty registry with --bare) and print the mappings every header resolves against.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		blob, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		var settings *mapping.Settings
		if bareSettings {
			settings, err = mapping.ParseSettingsBlob(string(blob))
		} else {
			settings = product.DefaultSettings()
			err = settings.Apply(string(blob))
		}
		if err != nil {
			return fmt.Errorf("invalid settings: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "encoding: %s\n", orDefault(settings.Encoding(), "(detect)"))
		fmt.Fprintf(out, "timezone: %s\n\n", settings.Location())
		for _, m := range settings.Registry.Mappings() {
			fmt.Fprintf(out, "%-16s aliases=%s formats=%s\n",
				m.Property,
				orDefault(strings.Join(m.Aliases, ", "), "-"),
				orDefault(strings.Join(m.Formats, ", "), "-"),
			)
		}
		fmt.Fprintf(out, "\n%s", settings.Blob())
		return nil
	},
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func init() {
	settingsCheckCmd.Flags().BoolVar(&bareSettings, "bare", false, "Start from an empty registry instead of the product defaults")
	settingsCmd.AddCommand(settingsCheckCmd)
	RootCmd.AddCommand(settingsCmd)
}

// Package cli defines the cobra command tree for estateview.
package cli

import (
	"io"

	"github.com/spf13/cobra"
)

var (
	flagFormat string
	flagDB     string
	flagConfig string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ev",
		Short:         "Browse, filter and save real-estate listings",
		Long:          "A tool to browse real-estate listings. Import listing records, search and filter them, save favorites, send inquiries, and serve the JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: ~/.config/ev/estateview.db)")
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default: ~/.config/ev/config.yaml)")

	root.AddCommand(
		newImportCmd(),
		newBrowseCmd(),
		newShowCmd(),
		newRemoveCmd(),
		newSavedCmd(),
		newFavoriteCmd(),
		newFilterCmd(),
		newSortCmd(),
		newInquireCmd(),
		newServeCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// out returns the writer command output goes to.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/estateview/internal/listing"
)

func newFilterCmd() *cobra.Command {
	keys := make([]string, len(listing.FilterKeys))
	for i, k := range listing.FilterKeys {
		keys[i] = string(k)
	}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Show or change the saved filters",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the saved filters",
			Args:  cobra.NoArgs,
			RunE:  runFilterShow,
		},
		&cobra.Command{
			Use:       "set <key> <value>",
			Short:     "Set one saved filter",
			Long:      "Set one saved filter. An empty value unsets it. Keys: " + strings.Join(keys, ", "),
			Args:      cobra.ExactArgs(2),
			ValidArgs: keys,
			RunE:      runFilterSet,
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Clear every saved filter",
			Args:  cobra.NoArgs,
			RunE:  runFilterClear,
		},
	)

	return cmd
}

func runFilterShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if isJSON() {
		return printJSON(out(cmd), a.prefs.Filters())
	}
	return printFilters(out(cmd), a.prefs.Filters())
}

func runFilterSet(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.prefs.UpdateFilter(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), a.prefs.Filters())
	}
	_, err = fmt.Fprintf(out(cmd), "Filter %s set to %q.\n", args[0], args[1])
	return err
}

func runFilterClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.prefs.ClearFilters(cmd.Context()); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), a.prefs.Filters())
	}
	_, err = fmt.Fprintln(out(cmd), "Filters cleared.")
	return err
}

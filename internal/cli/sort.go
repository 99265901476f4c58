package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/estateview/internal/listing"
)

func newSortCmd() *cobra.Command {
	keys := make([]string, len(listing.SortKeys))
	for i, k := range listing.SortKeys {
		keys[i] = string(k)
	}

	return &cobra.Command{
		Use:       "sort [key]",
		Short:     "Show or change the saved sort order",
		Long:      "Without an argument, show the saved sort order and the choices. With a key, save it.",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: keys,
		RunE:      runSort,
	}
}

func runSort(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		if err := a.prefs.SetSort(cmd.Context(), args[0]); err != nil {
			return err
		}
	}

	current := a.prefs.Sort()
	if isJSON() {
		return printJSON(out(cmd), map[string]listing.SortKey{"sort": current})
	}

	if len(args) == 1 {
		_, err = fmt.Fprintf(out(cmd), "Sort set to %s.\n", current.Label())
		return err
	}

	for _, k := range listing.SortKeys {
		mark := " "
		if k == current {
			mark = "*"
		}
		fmt.Fprintf(out(cmd), "%s %-11s %s\n", mark, k, k.Label())
	}
	return nil
}

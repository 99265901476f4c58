package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/estateview/internal/listing"
)

func newSavedCmd() *cobra.Command {
	var sortKey string

	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List saved listings",
		Long:  "List the listings you have saved as favorites.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaved(cmd, sortKey)
		},
	}

	cmd.Flags().StringVar(&sortKey, "sort", "", "sort order (default: saved sort)")

	return cmd
}

func runSaved(cmd *cobra.Command, sortKey string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	key := a.prefs.Sort()
	if sortKey != "" {
		k, ok := listing.ParseSortKey(sortKey)
		if !ok {
			return fmt.Errorf("invalid sort %q", sortKey)
		}
		key = k
	}

	listings, err := a.browse.Saved(cmd.Context(), key)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), listings)
	}

	if len(listings) == 0 {
		_, err := fmt.Fprintln(out(cmd), "No saved listings yet. Use 'ev favorite add <id>' to save one.")
		return err
	}
	return printListingTable(out(cmd), listings, favoriteSet(a.favorites.IDs()))
}

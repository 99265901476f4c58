package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/estateview/internal/listing"
)

// filterFlags maps command-line flag names to filter keys.
var filterFlags = []struct {
	flag  string
	key   listing.FilterKey
	usage string
}{
	{"search", listing.KeySearchTerm, "text to match in title, address, city or state"},
	{"type", listing.KeyPropertyType, "exact property type"},
	{"min-price", listing.KeyMinPrice, "minimum price"},
	{"max-price", listing.KeyMaxPrice, "maximum price"},
	{"beds", listing.KeyBedrooms, "minimum bedrooms"},
	{"baths", listing.KeyBathrooms, "minimum bathrooms"},
	{"min-sqft", listing.KeyMinSquareFeet, "minimum square feet"},
	{"max-sqft", listing.KeyMaxSquareFeet, "maximum square feet"},
	{"city", listing.KeyCity, "text to match in city"},
	{"state", listing.KeyState, "text to match in state"},
}

func newBrowseCmd() *cobra.Command {
	var (
		sortKey string
		local   bool
		values  = make(map[listing.FilterKey]*string, len(filterFlags))
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "List listings",
		Long:  "List listings using the saved filters and sort. Filter flags and --sort apply to this run only; use 'ev filter' and 'ev sort' to change the saved values.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, values, sortKey, local)
		},
	}

	for _, ff := range filterFlags {
		values[ff.key] = cmd.Flags().String(ff.flag, "", ff.usage)
	}
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort order (newest|oldest|price-low|price-high|largest|smallest)")
	cmd.Flags().BoolVar(&local, "local", false, "fetch everything and filter in process")

	return cmd
}

func runBrowse(cmd *cobra.Command, values map[listing.FilterKey]*string, sortKey string, local bool) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	f := a.prefs.Filters()
	for _, ff := range filterFlags {
		if cmd.Flags().Changed(ff.flag) {
			if err := f.Set(ff.key, *values[ff.key]); err != nil {
				return err
			}
		}
	}

	key := a.prefs.Sort()
	if sortKey != "" {
		k, ok := listing.ParseSortKey(sortKey)
		if !ok {
			return fmt.Errorf("invalid sort %q", sortKey)
		}
		key = k
	}

	run := a.browse.Browse
	if local {
		run = a.browse.BrowseLocal
	}
	listings, err := run(cmd.Context(), f, key)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), listings)
	}

	if active := f.Values(); len(active) > 0 {
		fmt.Fprintf(out(cmd), "Filters: %d active. ", len(active))
	}
	fmt.Fprintf(out(cmd), "Sorted by %s.\n\n", key.Label())
	return printListingTable(out(cmd), listings, favoriteSet(a.favorites.IDs()))
}

func favoriteSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

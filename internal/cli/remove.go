package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a listing",
		Long:  "Remove a listing along with its inquiries, and unsave it.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRemove,
	}
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.listings.Delete(cmd.Context(), id); err != nil {
		return err
	}
	if _, err := a.favorites.Remove(cmd.Context(), id); err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), map[string]interface{}{
			"id":      id,
			"removed": true,
		})
	}

	_, err = fmt.Fprintf(out(cmd), "Listing #%d removed.\n", id)
	return err
}

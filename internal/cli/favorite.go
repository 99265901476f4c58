package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newFavoriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorite",
		Short: "Manage saved listings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <id>",
			Short: "Save a listing",
			Args:  cobra.ExactArgs(1),
			RunE:  runFavoriteAdd,
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Unsave a listing",
			Args:  cobra.ExactArgs(1),
			RunE:  runFavoriteRemove,
		},
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Save a listing, or unsave it if already saved",
			Args:  cobra.ExactArgs(1),
			RunE:  runFavoriteToggle,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List saved listing IDs",
			Args:  cobra.NoArgs,
			RunE:  runFavoriteList,
		},
	)

	return cmd
}

func runFavoriteAdd(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	added, err := a.favorites.Add(cmd.Context(), id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), map[string]interface{}{"id": id, "favorite": true, "added": added})
	}
	if !added {
		_, err = fmt.Fprintf(out(cmd), "Listing #%d is already saved.\n", id)
		return err
	}
	_, err = fmt.Fprintf(out(cmd), "Saved listing #%d.\n", id)
	return err
}

func runFavoriteRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.favorites.Remove(cmd.Context(), id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), map[string]interface{}{"id": id, "favorite": false, "removed": removed})
	}
	if !removed {
		_, err = fmt.Fprintf(out(cmd), "Listing #%d was not saved.\n", id)
		return err
	}
	_, err = fmt.Fprintf(out(cmd), "Removed listing #%d from saved.\n", id)
	return err
}

func runFavoriteToggle(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	on, err := a.favorites.Toggle(cmd.Context(), id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), map[string]interface{}{"id": id, "favorite": on})
	}
	state := "Removed listing #%d from saved.\n"
	if on {
		state = "Saved listing #%d.\n"
	}
	_, err = fmt.Fprintf(out(cmd), state, id)
	return err
}

func runFavoriteList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	entries := a.favorites.Entries()
	if isJSON() {
		return printJSON(out(cmd), entries)
	}
	printFavorites(out(cmd), entries)
	return nil
}

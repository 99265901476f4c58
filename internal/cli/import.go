package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/evcraddock/estateview/internal/listing"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import listing records",
		Long:  "Import a JSON array of raw listing records into the local listing source. Existing records with the same Id are replaced. Use - to read from stdin.",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	recs, err := listing.ParseRecords(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.listings.Upsert(cmd.Context(), recs); err != nil {
		return err
	}

	total, err := a.listings.Count(cmd.Context())
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), map[string]int{"imported": len(recs), "total": total})
	}

	_, err = fmt.Fprintf(out(cmd), "Imported %d listings (%d total).\n", len(recs), total)
	return err
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

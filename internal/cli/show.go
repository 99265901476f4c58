package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/evcraddock/estateview/internal/browse"
	"github.com/evcraddock/estateview/internal/inquiry"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show listing details",
		Long:  "Show full details for a listing, including inquiries sent about it.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	d, err := a.browse.Detail(cmd.Context(), id)
	if err != nil {
		return err
	}

	inquiries, err := a.inquiries.ListByListingID(cmd.Context(), id)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), struct {
			browse.Detail
			Inquiries []*inquiry.Inquiry `json:"inquiries"`
		}{d, inquiries})
	}

	printListingDetail(out(cmd), d)
	fmt.Fprintln(out(cmd))
	if len(inquiries) > 0 {
		fmt.Fprintf(out(cmd), "Inquiries (%d):\n", len(inquiries))
	}
	printInquiryList(out(cmd), inquiries)

	return nil
}

// parseID parses a positive listing ID argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid listing ID: %s", s)
	}
	return id, nil
}

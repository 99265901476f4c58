package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/estateview/internal/inquiry"
)

func newInquireCmd() *cobra.Command {
	var in inquiry.Input

	cmd := &cobra.Command{
		Use:   "inquire <id>",
		Short: "Send an inquiry about a listing",
		Long:  "Record a contact request about a listing. Without --message, a default message naming the listing is used.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInquire(cmd, args[0], in)
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "your name (required)")
	cmd.Flags().StringVar(&in.Email, "email", "", "your email address (required)")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "your phone number")
	cmd.Flags().StringVar(&in.Message, "message", "", "message to send")

	return cmd
}

func runInquire(cmd *cobra.Command, arg string, in inquiry.Input) error {
	id, err := parseID(arg)
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
	if strings.TrimSpace(in.Message) == "" {
		in.Message = inquiry.DefaultMessage(d.Listing)
	}

	q, err := a.inquiries.Add(cmd.Context(), id, in)
	if err != nil {
		return err
	}

	if isJSON() {
		return printJSON(out(cmd), q)
	}
	printInquiryList(out(cmd), []*inquiry.Inquiry{q})
	return nil
}

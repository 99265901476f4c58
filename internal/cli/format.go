package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/estateview/internal/browse"
	"github.com/evcraddock/estateview/internal/favorites"
	"github.com/evcraddock/estateview/internal/inquiry"
	"github.com/evcraddock/estateview/internal/listing"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printListingTable prints listings as a formatted table.
func printListingTable(w io.Writer, listings []listing.Listing, favs map[int64]bool) error {
	if len(listings) == 0 {
		_, err := fmt.Fprintln(w, "No listings found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\t\tTITLE\tCITY\tPRICE\tBED\tBATH\tSQFT\tLISTED"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(tw, "--\t\t-----\t----\t-----\t---\t----\t----\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, l := range listings {
		mark := ""
		if favs[l.ID] {
			mark = "♥"
		}
		city := l.City
		if l.State != "" {
			city += ", " + l.State
		}

		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t$%s\t%g\t%g\t%s\t%s\n",
			l.ID, mark, truncate(l.Title, 32), truncate(city, 24), formatPrice(l.Price),
			l.Bedrooms, l.Bathrooms, formatPrice(l.SquareFeet), formatDate(l.ListingDate)); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\nTotal: %d listings\n", len(listings))
	return err
}

// printListingDetail prints a single listing in text format.
func printListingDetail(w io.Writer, d browse.Detail) {
	l := d.Listing
	fmt.Fprintf(w, "Listing #%d", l.ID)
	if d.Favorite {
		fmt.Fprint(w, " ♥ saved")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Title:    %s\n", l.Title)
	fmt.Fprintf(w, "  Address:  %s\n", formatAddress(l))
	fmt.Fprintf(w, "  Price:    $%s\n", formatPrice(l.Price))
	fmt.Fprintf(w, "  Beds:     %g\n", l.Bedrooms)
	fmt.Fprintf(w, "  Baths:    %g\n", l.Bathrooms)
	fmt.Fprintf(w, "  Sqft:     %s\n", formatPrice(l.SquareFeet))
	if l.YearBuilt > 0 {
		fmt.Fprintf(w, "  Built:    %d\n", l.YearBuilt)
	}
	if l.PropertyType != "" {
		fmt.Fprintf(w, "  Type:     %s\n", l.PropertyType)
	}
	fmt.Fprintf(w, "  Status:   %s\n", l.Status)
	fmt.Fprintf(w, "  Listed:   %s\n", formatDate(l.ListingDate))

	if len(l.Features) > 0 {
		fmt.Fprintf(w, "  Features: %s\n", strings.Join(l.Features, ", "))
	}
	if len(l.Images) > 0 {
		fmt.Fprintf(w, "  Images (%d):\n", len(l.Images))
		for _, img := range l.Images {
			fmt.Fprintf(w, "    %s\n", img)
		}
	}
	if l.Description != "" {
		fmt.Fprintf(w, "\n%s\n", l.Description)
	}
}

// printInquiryList prints inquiries in text format.
func printInquiryList(w io.Writer, inquiries []*inquiry.Inquiry) {
	if len(inquiries) == 0 {
		fmt.Fprintln(w, "No inquiries.")
		return
	}

	for _, q := range inquiries {
		fmt.Fprintf(w, "[%s] #%d %s <%s>\n  %s\n\n",
			q.CreatedAt.Format("2006-01-02 15:04"), q.ID, q.Name, q.Email, q.Message)
	}
}

// printFavorites prints saved entries in text format.
func printFavorites(w io.Writer, entries []favorites.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No saved listings.")
		return
	}

	for _, e := range entries {
		fmt.Fprintf(w, "#%d  saved %s\n", e.PropertyID, e.SavedAt.Local().Format("2006-01-02 15:04"))
	}
}

// printFilters prints every filter key with its value.
func printFilters(w io.Writer, f listing.FilterState) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, key := range listing.FilterKeys {
		v := f.Get(key)
		if strings.TrimSpace(v) == "" {
			v = "-"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", key, v); err != nil {
			return fmt.Errorf("writing filter row: %w", err)
		}
	}
	return tw.Flush()
}

// formatPrice formats an amount rounded to whole units with commas.
func formatPrice(amount float64) string {
	n := int64(math.Round(amount))
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)

	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}

	if neg {
		return "-" + s
	}
	return s
}

// formatDate shows the date part of a listing date.
func formatDate(s string) string {
	t := listing.ParseListingDate(s)
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatAddress(l listing.Listing) string {
	parts := []string{}
	for _, p := range []string{l.Address, l.City, strings.TrimSpace(l.State + " " + l.ZipCode)} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

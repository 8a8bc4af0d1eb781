package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/davicafu/makethechange/internal/listing"
)

// listingView es lo que imprime browse.
type listingView struct {
	View        listing.ViewMode `json:"view"`
	Query       string           `json:"query"`
	Filtered    bool             `json:"filtered"`
	Total       int              `json:"total"`
	TotalPages  int              `json:"total_pages"`
	CurrentPage int              `json:"current_page"`
	NextCursor  string           `json:"next_cursor,omitempty"`
	Cards       []listing.Card   `json:"cards"`
}

func printJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func printListing(out io.Writer, v listingView) error {
	if jsonOutput {
		return printJSON(out, v)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if v.View == listing.ViewMap {
		fmt.Fprintln(w, "ID\tTITLE\tLAT\tLNG\tBADGES")
		for _, c := range v.Cards {
			if c.Location == nil {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%s\n", shortID(c.ID), c.Title, c.Location.Lat, c.Location.Lng, badges(c))
		}
	} else {
		fmt.Fprintln(w, "ID\tTITLE\tSUBTITLE\tBADGES\tCONTROLS")
		for _, c := range v.Cards {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(c.ID), c.Title, c.Subtitle, badges(c), controls(c))
			if v.View == listing.ViewList && c.Description != "" {
				fmt.Fprintf(w, "\t  %s\t\t\t\n", c.Description)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	footer := fmt.Sprintf("\n%d resultados · página %d/%d", v.Total, v.CurrentPage, v.TotalPages)
	if v.Filtered {
		footer += " · filtros activos"
	}
	if v.NextCursor != "" {
		footer += " · --cursor " + v.NextCursor
	}
	_, err := fmt.Fprintln(out, footer)
	return err
}

func printCard(out io.Writer, c listing.Card) error {
	if jsonOutput {
		return printJSON(out, c)
	}
	fmt.Fprintf(out, "ID:        %s\n", c.ID)
	fmt.Fprintf(out, "Title:     %s\n", c.Title)
	if c.Subtitle != "" {
		fmt.Fprintf(out, "Subtitle:  %s\n", c.Subtitle)
	}
	if b := badges(c); b != "" {
		fmt.Fprintf(out, "Badges:    %s\n", b)
	}
	_, err := fmt.Fprintf(out, "Controls:  %s\n", controls(c))
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func badges(c listing.Card) string {
	parts := make([]string, 0, len(c.Badges))
	for _, b := range c.Badges {
		parts = append(parts, "["+b.Label+"]")
	}
	return strings.Join(parts, " ")
}

func controls(c listing.Card) string {
	var parts []string
	for _, t := range c.Toggles {
		state := "off"
		if t.On {
			state = "on"
		}
		parts = append(parts, t.Field+"="+state)
	}
	for _, n := range c.Counters {
		parts = append(parts, fmt.Sprintf("%s=%g", n.Field, n.Value))
	}
	return strings.Join(parts, " ")
}

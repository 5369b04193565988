package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/thehive/hive-events/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteOutput writes the run summary in the specified format
func WriteOutput(w io.Writer, summary *pipeline.Summary, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, summary)
	case FormatText:
		return writeText(w, summary, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs the summary as JSON
func writeJSON(w io.Writer, summary *pipeline.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

// writeText outputs the summary as human-readable text
func writeText(w io.Writer, summary *pipeline.Summary, verbose bool) error {
	for _, item := range summary.Items {
		if item.Candidate == nil {
			if verbose {
				fmt.Fprintf(w, "  %s: %s\n", item.Verdict, item.PostID)
			}
			continue
		}

		label := string(item.Outcome)
		if label == "" {
			label = "accepted"
		}
		if item.Error != "" {
			label = "FAILED"
		}

		fmt.Fprintf(w, "%s: %s", label, item.Candidate.Title)
		if item.Candidate.EventDate != "" {
			fmt.Fprintf(w, " (%s)", item.Candidate.EventDate)
		}
		if item.Club != "" {
			fmt.Fprintf(w, " [%s]", item.Club)
		}
		fmt.Fprintln(w)

		if verbose {
			if item.Candidate.Location != "" {
				fmt.Fprintf(w, "     Location: %s\n", item.Candidate.Location)
			}
			if item.Candidate.Category != "" {
				fmt.Fprintf(w, "     Category: %s\n", item.Candidate.Category)
			}
			fmt.Fprintf(w, "     Tier: %s\n", item.Tier)
			if item.Error != "" {
				fmt.Fprintf(w, "     Error: %s\n", item.Error)
			}
		}
	}

	fmt.Fprintf(w, "\nScanned %d posts: %d events, %d created, %d duplicates, %d rejected, %d failures\n",
		summary.Scanned, summary.Accepted, summary.Created, summary.Duplicates, summary.Rejected, summary.Failures)
	if summary.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d already-seen posts\n", summary.Skipped)
	}
	if summary.Interrupted {
		fmt.Fprintln(w, "Run interrupted; results above are partial")
	}
	return nil
}

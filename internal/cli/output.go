// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-secretshare.
//
// go-secretshare is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.


package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jeremyhahn/go-secretshare/pkg/secretsharing"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatTable OutputFormat = "table"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(strings.ToLower(format)),
		writer: writer,
	}
}

// PrintBundle prints a share bundle. The JSON form is the bundle itself so
// it can be piped into sample or combine.
func (p *Printer) PrintBundle(b *secretsharing.Bundle) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(b)
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "Bundle %s (%d-of-%d)\n", b.ID, b.Threshold, b.TotalShares)
		fmt.Fprintf(p.writer, "%-8s %-24s\n", "INDEX", "VALUE")
		fmt.Fprintln(p.writer, strings.Repeat("-", 33))
		for _, share := range b.Shares {
			fmt.Fprintf(p.writer, "%-8d %-24d\n", share.Index, share.Value)
		}
		return nil
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Bundle:    %s\n", b.ID)
		fmt.Fprintf(p.writer, "Threshold: %d\n", b.Threshold)
		fmt.Fprintf(p.writer, "Total:     %d\n", b.TotalShares)
		fmt.Fprintln(p.writer, "Shares:")
		for _, share := range b.Shares {
			fmt.Fprintf(p.writer, "  %d: %d\n", share.Index, share.Value)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSecret prints a reconstructed secret with the indices it came from
func (p *Printer) PrintSecret(secret int64, indices []int) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"secret":  secret,
			"indices": indices,
		})
	case OutputFormatTable:
		fmt.Fprintf(p.writer, "%-24s %s\n", "SECRET", "INDICES")
		fmt.Fprintf(p.writer, "%-24d %s\n", secret, joinInts(indices))
		return nil
	case OutputFormatText:
		fmt.Fprintln(p.writer, secret)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// DemoResult captures one generate, sample and reconstruct run
type DemoResult struct {
	Secret        int64                 `json:"secret"`
	Threshold     int                   `json:"threshold"`
	TotalShares   int                   `json:"total_shares"`
	Shares        []secretsharing.Share `json:"shares"`
	Sampled       []secretsharing.Share `json:"sampled"`
	Reconstructed int64                 `json:"reconstructed"`
	Match         bool                  `json:"match"`
}

// PrintDemo prints the result of the demo command
func (p *Printer) PrintDemo(r *DemoResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(r)
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintf(p.writer, "Secret:  %d (%d-of-%d)\n", r.Secret, r.Threshold, r.TotalShares)
		fmt.Fprintln(p.writer, "Shares:")
		for _, share := range r.Shares {
			fmt.Fprintf(p.writer, "  %d: %d\n", share.Index, share.Value)
		}
		fmt.Fprintln(p.writer, "Sampled:")
		for _, share := range r.Sampled {
			fmt.Fprintf(p.writer, "  %d: %d\n", share.Index, share.Value)
		}
		fmt.Fprintf(p.writer, "Reconstructed: %d\n", r.Reconstructed)
		fmt.Fprintf(p.writer, "Match:         %t\n", r.Match)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatTable, OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	default:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	}
}

func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ",")
}

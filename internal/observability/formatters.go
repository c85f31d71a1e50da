// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/lead-intel/internal/leadstore"
	"github.com/jonathan/lead-intel/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// summaryWidth is the maximum summary length in the lead table
	summaryWidth = 36
)

// Printer handles formatted CLI output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", inner, truncate(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		line = truncate(line, inner)
		pad := inner - utf8.RuneCountInString(line)
		fmt.Fprintf(p.out, "│ %s%s │\n", line, strings.Repeat(" ", pad))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// PrintLeadScore outputs the score for a lead that was not saved.
func (p *Printer) PrintLeadScore(data types.LeadFormData, result types.LeadScoreResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", data.Name))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", orDash(data.Company)))
	sb.WriteString(fmt.Sprintf("Budget:   %s\n", orDash(data.Budget)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Score:    %d/100\n", result.Score))
	sb.WriteString(fmt.Sprintf("Priority: %s\n", result.Priority))
	sb.WriteString(wrap("Summary:  ", result.Summary, boxWidth-4))

	p.printBox("LEAD SCORE", sb.String())
}

// PrintLead outputs a stored lead in full.
func (p *Printer) PrintLead(lead types.PersistedLead) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:       %s\n", lead.ID))
	sb.WriteString(fmt.Sprintf("Received: %s\n", lead.CreatedAt.Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("Name:     %s\n", lead.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", orDash(lead.Email)))
	sb.WriteString(fmt.Sprintf("Company:  %s\n", orDash(lead.Company)))
	sb.WriteString(fmt.Sprintf("Budget:   %s\n", orDash(lead.Budget)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Score:    %d/100\n", lead.Score))
	sb.WriteString(fmt.Sprintf("Priority: %s\n", lead.Priority))
	sb.WriteString(wrap("Summary:  ", lead.Summary, boxWidth-4))

	p.printBox("LEAD", sb.String())
}

// wrap word-wraps text under a hanging label.
func wrap(label, text string, width int) string {
	indent := strings.Repeat(" ", utf8.RuneCountInString(label))
	var lines []string
	line := label
	for _, word := range strings.Fields(text) {
		candidate := line + word
		if line != label && line != indent {
			candidate = line + " " + word
		}
		if utf8.RuneCountInString(candidate) > width && line != label && line != indent {
			lines = append(lines, line)
			line = indent + word
			continue
		}
		line = candidate
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// PrintLeads outputs the lead table, newest first.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintLeads(leads []types.PersistedLead) {
	if len(leads) == 0 {
		fmt.Fprintln(p.out, "No leads found.")
		return
	}

	fmt.Fprintf(p.out, "%-16s  %-20s  %-16s  %5s  %-6s  %s\n", "DATE", "NAME", "COMPANY", "SCORE", "PRIO", "SUMMARY")
	for _, lead := range leads {
		fmt.Fprintf(p.out, "%-16s  %-20s  %-16s  %5d  %-6s  %s\n",
			lead.CreatedAt.Format("2006-01-02 15:04"),
			truncate(lead.Name, 20),
			truncate(orDash(lead.Company), 16),
			lead.Score,
			lead.Priority,
			truncate(lead.Summary, summaryWidth),
		)
	}
	fmt.Fprintf(p.out, "\n%d lead(s)\n", len(leads))
}

// PrintStats outputs the dashboard counters.
func (p *Printer) PrintStats(stats leadstore.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total leads:    %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("High priority:  %d\n", stats.HighPriority))
	sb.WriteString(fmt.Sprintf("Medium:         %d\n", stats.MediumPriority))
	sb.WriteString(fmt.Sprintf("Low:            %d\n", stats.LowPriority))
	sb.WriteString(fmt.Sprintf("In pipeline:    %d\n", stats.InPipeline))
	sb.WriteString(fmt.Sprintf("Average score:  %.0f", stats.AverageScore))

	p.printBox("LEAD STATS", sb.String())
}

// PrintBatchSummary outputs one line per scored lead plus priority counts.
func (p *Printer) PrintBatchSummary(leads []types.LeadFormData, results []types.LeadScoreResult) {
	var sb strings.Builder
	counts := map[types.Priority]int{}
	for i, result := range results {
		counts[result.Priority]++
		name := ""
		if i < len(leads) {
			name = leads[i].Name
		}
		sb.WriteString(fmt.Sprintf("%3d  %-6s  %s\n", result.Score, result.Priority, truncate(name, boxWidth-18)))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("HIGH %d · MEDIUM %d · LOW %d",
		counts[types.PriorityHigh], counts[types.PriorityMedium], counts[types.PriorityLow]))

	p.printBox(fmt.Sprintf("SCORED %d LEADS", len(results)), sb.String())
}

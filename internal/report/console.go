// Package report renders an analysis report as console text.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"returnscli/pkg/contracts"
	"returnscli/pkg/contracts/domain"
)

// Printer writes human-readable reports.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes totals, both summary tables, join diagnostics, unrecognized
// statuses and top keywords.
func (p *Printer) Print(r *domain.AnalysisReport) error {
	ew := &errWriter{w: p.w}

	ew.printf("%s\n", contracts.GetVersionString())
	ew.printf("Run %s at %s\n\n", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	ew.printf("Total orders:        %s\n", humanize.Comma(int64(r.TotalOrders)))
	ew.printf("Total returns:       %s\n", humanize.Comma(int64(r.TotalReturns)))
	ew.printf("Overall return rate: %s\n", percentOrNA(r.OverallReturnRate))
	if r.MissingPrices > 0 {
		ew.printf("Orders without price: %s\n", humanize.Comma(int64(r.MissingPrices)))
	}

	if len(r.Categories) > 0 {
		ew.printf("\nReturns by category\n")
		p.groupTable(ew, "Category", r.Categories)
	}
	if len(r.PriceRanges) > 0 {
		ew.printf("\nReturns by price range\n")
		p.groupTable(ew, "Price range", r.PriceRanges)
	}

	j := r.Join
	ew.printf("\nJoin: %s of %s fulfillment rows matched %s order rows, %s joined\n",
		humanize.Comma(int64(j.LeftRows-j.UnmatchedLeft-j.EmptyKeyLeft)),
		humanize.Comma(int64(j.LeftRows)),
		humanize.Comma(int64(j.RightRows)),
		humanize.Comma(int64(j.JoinedRows)))
	if j.Dropped() > 0 {
		ew.printf("  unmatched fulfillment rows: %d%s\n", j.UnmatchedLeft, samples(j.UnmatchedLeftKeys))
		ew.printf("  unmatched order rows:       %d%s\n", j.UnmatchedRight, samples(j.UnmatchedRightKeys))
		ew.printf("  rows with empty key:        %d\n", j.EmptyKeyLeft+j.EmptyKeyRight)
	}
	if j.DuplicateRightKeys > 0 {
		ew.printf("  order keys with duplicates: %d\n", j.DuplicateRightKeys)
	}

	if len(r.UnknownStatuses) > 0 {
		statuses := make([]string, 0, len(r.UnknownStatuses))
		for s := range r.UnknownStatuses {
			statuses = append(statuses, s)
		}
		sort.Strings(statuses)
		ew.printf("\nUnrecognized statuses (counted as other):\n")
		for _, s := range statuses {
			ew.printf("  %-20s %d\n", s, r.UnknownStatuses[s])
		}
	}

	if len(r.TopKeywords) > 0 {
		words := make([]string, len(r.TopKeywords))
		for i, k := range r.TopKeywords {
			words[i] = fmt.Sprintf("%s (%d)", k.Word, k.Count)
		}
		ew.printf("\nTop keywords: %s\n", strings.Join(words, ", "))
	}
	return ew.err
}

func (p *Printer) groupTable(ew *errWriter, key string, groups []domain.GroupSummary) {
	table := tablewriter.NewWriter(ew)
	table.SetHeader([]string{key, "Orders", "Returns", "Return rate", "% of orders", "% of returns", "Avg price"})
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, g := range groups {
		avg := "n/a"
		if g.AvgPrice.Valid {
			avg = humanize.CommafWithDigits(g.AvgPrice.Value, 2)
		}
		table.Append([]string{
			g.Key,
			humanize.Comma(int64(g.TotalOrders)),
			humanize.Comma(int64(g.Returns)),
			fmt.Sprintf("%.2f%%", g.ReturnRate),
			fmt.Sprintf("%.2f%%", g.PctOfTotalOrders),
			fmt.Sprintf("%.2f%%", g.PctOfTotalReturns),
			avg,
		})
	}
	table.Render()
}

func percentOrNA(n domain.NullFloat) string {
	if !n.Valid {
		return "n/a (no orders)"
	}
	return n.Format(2) + "%"
}

func samples(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return " (e.g. " + strings.Join(keys, ", ") + ")"
}

// errWriter keeps the first write error so Print can check once.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(b []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(b)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(e, format, args...)
}

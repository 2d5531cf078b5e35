package notifier

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"RiskSentinel/internal/model"
)

// FormatRanking renders the top rows of a ranking as an aligned text table.
// top <= 0 renders every row.
func FormatRanking(runID string, at time.Time, rows []model.RiskScore, top int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("RiskSentinel ranking | %s | run %s\n\n", at.Format("2006-01-02 15:04"), runID))
	if len(rows) == 0 {
		b.WriteString("no countries scored\n")
		return b.String()
	}

	n := len(rows)
	if top > 0 && top < n {
		n = top
	}

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tcountry\tregion\trisk\tgdp\tinfl\tdebt\tfx\tdd\tvar\tarima\ttrend\tca\tsent\t")
	for _, r := range rows[:n] {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s", r.Rank, r.Country, r.Region, formatScore(r.RiskScore))
		for _, c := range model.Components {
			fmt.Fprintf(tw, "\t%s", formatScore(r.Score(c)))
		}
		fmt.Fprintln(tw, "\t")
	}
	tw.Flush()

	if n < len(rows) {
		b.WriteString(fmt.Sprintf("... %d more\n", len(rows)-n))
	}
	if u := unscored(rows); u > 0 {
		b.WriteString(fmt.Sprintf("\n%d countries have an undefined component and are not ranked\n", u))
	}
	return b.String()
}

// FormatFailures lists the pairs with estimator failures, one line per pair.
func FormatFailures(records []model.RiskMetricsRecord) string {
	var b strings.Builder
	for _, r := range records {
		if len(r.Failures) == 0 {
			continue
		}
		ests := make([]string, 0, len(r.Failures))
		for est := range r.Failures {
			ests = append(ests, est)
		}
		sort.Strings(ests)
		parts := make([]string, len(ests))
		for i, est := range ests {
			parts[i] = est + ": " + r.Failures[est]
		}
		b.WriteString(fmt.Sprintf("  %s (%d obs) %s\n", r.Pair, r.Observations, strings.Join(parts, ", ")))
	}
	if b.Len() == 0 {
		return ""
	}
	return "Estimator failures:\n" + b.String()
}

func formatScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}

func unscored(rows []model.RiskScore) int {
	n := 0
	for _, r := range rows {
		if r.RiskScore == nil {
			n++
		}
	}
	return n
}

package bench

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/iterpool/internal/history"
)

// Render writes results as a table, fastest speedup first. results is not
// modified.
func Render(w io.Writer, results []Result) error {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b Result) int {
		return cmp.Compare(b.Speedup, a.Speedup)
	})

	table := tablewriter.NewWriter(w)
	table.Header("Rank", "Case", "Parallel", "Sequential", "Speedup")

	for i, r := range sorted {
		if err := table.Append(
			fmt.Sprintf("%d", i+1),
			r.Case,
			FormatLatency(r.Parallel),
			FormatLatency(r.Sequential),
			fmt.Sprintf("%.2fx", r.Speedup),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderHistory writes stored runs, newest first, as returned by the store.
func RenderHistory(w io.Writer, runs []history.Run) error {
	table := tablewriter.NewWriter(w)
	table.Header("When", "Case", "Threads", "Parts", "Size", "Parallel", "Sequential", "Speedup")

	for _, r := range runs {
		if err := table.Append(
			r.CreatedAt.Local().Format(time.DateTime),
			r.Algorithm,
			fmt.Sprintf("%d", r.Threads),
			fmt.Sprintf("%d", r.Parts),
			FormatNumber(r.Size),
			FormatLatency(r.Parallel),
			FormatLatency(r.Sequential),
			fmt.Sprintf("%.2fx", r.Speedup),
		); err != nil {
			return err
		}
	}
	return table.Render()
}

// FormatNumber formats an integer with comma separators.
func FormatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}

	var sb strings.Builder
	sb.WriteString(sign)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// FormatLatency formats a duration in the most readable unit.
func FormatLatency(d time.Duration) string {
	ns := d.Nanoseconds()
	switch {
	case ns == 0:
		return "0"
	case ns < 1_000:
		return fmt.Sprintf("%dns", ns)
	case ns < 1_000_000:
		return fmt.Sprintf("%.1fµs", float64(ns)/1e3)
	case ns < 1_000_000_000:
		return fmt.Sprintf("%.2fms", float64(ns)/1e6)
	default:
		return fmt.Sprintf("%.2fs", float64(ns)/1e9)
	}
}

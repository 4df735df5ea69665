package notifier

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"

	"PriceScan/internal/collector"
	"PriceScan/internal/model"
)

// NoDataMessage is reported instead of statistics when a scan has no points.
const NoDataMessage = "No valid data found!"

var (
	upColor   = color.New(color.FgGreen)
	downColor = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
)

// paintFunc decorates a report line for a transition with the given change.
type paintFunc func(change float64, s string) string

func plain(_ float64, s string) string { return s }

func terminal(change float64, s string) string {
	switch {
	case math.IsNaN(change):
		return warnColor.Sprint(s)
	case change >= 0:
		return upColor.Sprint(s)
	default:
		return downColor.Sprint(s)
	}
}

// FormatScanReport renders a scan result as plain text.
func FormatScanReport(res *model.ScanResult) string {
	return formatScanReport(res, plain)
}

// WriteScanReport writes the report to w, coloring significant moves green
// (up) or red (down). Colors follow color.NoColor, which is set when stdout
// is not a terminal.
func WriteScanReport(w io.Writer, res *model.ScanResult) error {
	_, err := io.WriteString(w, formatScanReport(res, terminal))
	return err
}

// FormatNoData returns the message shown for an empty dataset.
func FormatNoData() string {
	return NoDataMessage + "\n"
}

func formatScanReport(res *model.ScanResult, paint paintFunc) string {
	var b strings.Builder
	s := res.Summary

	b.WriteString("Data Summary:\n")
	b.WriteString(fmt.Sprintf("Total points: %d\n", s.Count))
	b.WriteString(fmt.Sprintf("Average price: $%.2f\n", s.Average))
	b.WriteString(fmt.Sprintf("Median price: $%.2f\n", s.Median))
	b.WriteString(fmt.Sprintf("Price range: $%.2f to $%.2f\n", s.Min, s.Max))

	if len(res.Significant) > 0 {
		b.WriteString(fmt.Sprintf("\nFound %d significant price changes (>%g%%):\n", len(res.Significant), res.Threshold))
		for _, tr := range res.Significant {
			line := fmt.Sprintf("At %s: %+.2f%% ($%.2f -> $%.2f)", tr.Timestamp, tr.PctChange, tr.PrevPrice, tr.CurrPrice)
			b.WriteString(paint(tr.PctChange, line))
			b.WriteString("\n")
		}
	}

	if len(res.Undefined) > 0 {
		b.WriteString(fmt.Sprintf("\nSkipped %d transitions with zero previous price:\n", len(res.Undefined)))
		for _, tr := range res.Undefined {
			line := fmt.Sprintf("At %s: ($%.2f -> $%.2f)", tr.Timestamp, tr.PrevPrice, tr.CurrPrice)
			b.WriteString(paint(tr.PctChange, line))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatFetchSummary describes a downloaded series: where it was saved, how
// many records it holds, its time range and the first rows.
func FormatFetchSummary(res *collector.Result) string {
	var b strings.Builder

	label, rangeLabel := res.Interval+" intraday", "Timestamp range"
	if res.Interval == collector.IntervalDaily {
		label, rangeLabel = "daily", "Date range"
	}

	b.WriteString(fmt.Sprintf("%s data saved to %s\n", strings.ToUpper(label[:1])+label[1:], res.Path))
	b.WriteString(fmt.Sprintf("Total records: %d\n", len(res.Bars)))
	if len(res.Bars) == 0 {
		return b.String()
	}
	b.WriteString(fmt.Sprintf("%s: %s to %s\n", rangeLabel, res.First(), res.Last()))

	n := len(res.Bars)
	if n > 5 {
		n = 5
	}
	b.WriteString(fmt.Sprintf("\nFirst %d rows of %s data:\n", n, label))
	for _, bar := range res.Bars[:n] {
		b.WriteString(fmt.Sprintf("%s: Close = $%g, Volume = %d\n", bar.Timestamp, bar.Close, bar.Volume))
	}
	return b.String()
}

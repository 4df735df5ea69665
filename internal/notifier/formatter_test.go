package notifier

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/fatih/color"

	"PriceScan/internal/collector"
	"PriceScan/internal/model"
)

func sampleResult() *model.ScanResult {
	return &model.ScanResult{
		Summary:   model.Summary{Count: 3, Average: 311.0 / 3, Median: 105, Min: 100, Max: 106},
		Threshold: 5,
		Compared:  2,
		Significant: []model.Transition{
			{Timestamp: "t2", PctChange: 6.000000000000001, PrevPrice: 100, CurrPrice: 106},
		},
	}
}

func TestFormatScanReport(t *testing.T) {
	got := FormatScanReport(sampleResult())
	want := "Data Summary:\n" +
		"Total points: 3\n" +
		"Average price: $103.67\n" +
		"Median price: $105.00\n" +
		"Price range: $100.00 to $106.00\n" +
		"\n" +
		"Found 1 significant price changes (>5%):\n" +
		"At t2: +6.00% ($100.00 -> $106.00)\n"
	if got != want {
		t.Errorf("unexpected report:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatScanReport_NoSignificant(t *testing.T) {
	res := sampleResult()
	res.Significant = nil
	got := FormatScanReport(res)
	if strings.Contains(got, "Found") {
		t.Errorf("expected no significant block, got:\n%s", got)
	}
}

func TestFormatScanReport_NegativeAndUndefined(t *testing.T) {
	res := &model.ScanResult{
		Summary:   model.Summary{Count: 3, Average: 50, Median: 50, Min: 0, Max: 100},
		Threshold: 2.5,
		Significant: []model.Transition{
			{Timestamp: "t2", PctChange: -100, PrevPrice: 100, CurrPrice: 0},
		},
		Undefined: []model.Transition{
			{Timestamp: "t3", PctChange: math.NaN(), PrevPrice: 0, CurrPrice: 50},
		},
	}
	got := FormatScanReport(res)
	for _, want := range []string{
		"Found 1 significant price changes (>2.5%):\n",
		"At t2: -100.00% ($100.00 -> $0.00)\n",
		"Skipped 1 transitions with zero previous price:\n",
		"At t3: ($0.00 -> $50.00)\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestWriteScanReport_Colors(t *testing.T) {
	prev := color.NoColor
	defer func() { color.NoColor = prev }()

	color.NoColor = false
	var buf bytes.Buffer
	if err := WriteScanReport(&buf, sampleResult()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\x1b[32m") {
		t.Errorf("expected green escape sequence, got %q", buf.String())
	}

	color.NoColor = true
	buf.Reset()
	if err := WriteScanReport(&buf, sampleResult()); err != nil {
		t.Fatal(err)
	}
	if buf.String() != FormatScanReport(sampleResult()) {
		t.Errorf("expected plain output with colors disabled, got %q", buf.String())
	}
}

func TestFormatNoData(t *testing.T) {
	if FormatNoData() != "No valid data found!\n" {
		t.Errorf("unexpected message: %q", FormatNoData())
	}
}

func TestFormatFetchSummary(t *testing.T) {
	bars := make([]model.Bar, 7)
	for i := range bars {
		bars[i] = model.Bar{Timestamp: "2023-01-0" + string(rune('1'+i)), Close: 14.5, Volume: 100}
	}
	got := FormatFetchSummary(&collector.Result{Interval: collector.IntervalDaily, Path: "/tmp/nvda_daily_data.csv", Bars: bars})
	for _, want := range []string{
		"Daily data saved to /tmp/nvda_daily_data.csv\n",
		"Total records: 7\n",
		"Date range: 2023-01-01 to 2023-01-07\n",
		"First 5 rows of daily data:\n",
		"2023-01-05: Close = $14.5, Volume = 100\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "2023-01-06:") {
		t.Errorf("expected only 5 rows:\n%s", got)
	}

	got = FormatFetchSummary(&collector.Result{Interval: "15min", Path: "x.csv"})
	if !strings.HasPrefix(got, "15min intraday data saved to x.csv\nTotal records: 0\n") {
		t.Errorf("unexpected empty summary:\n%s", got)
	}
}

package collector

import (
	"context"
	"errors"
	"fmt"
	"log"

	"PriceScan/internal/dataset"
	"PriceScan/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	Count     int
	DailyData []model.Bar
	// IntradayData is keyed by interval.
	IntradayData map[string][]model.Bar
	Err          error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	return generateMockBars(m.Price, m.count(), "2023-01-%02d"), nil
}

func (m *MockFetcher) FetchIntradayBars(_ context.Context, _ string, interval string) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.IntradayData[interval]; ok {
		return bars, nil
	}
	return generateMockBars(m.Price, m.count(), "2024-01-02 09:%02d:00"), nil
}

func (m *MockFetcher) count() int {
	if m.Count > 0 {
		return m.Count
	}
	return 20
}

func generateMockBars(basePrice float64, count int, tsFormat string) []model.Bar {
	if basePrice == 0 {
		basePrice = 100
	}
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Timestamp: fmt.Sprintf(tsFormat, i+1),
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    1000000,
		}
	}
	return bars
}

// Job describes one series to download.
type Job struct {
	Interval string // IntervalDaily or an intraday interval such as "15min"
	Since    string // daily bars dated before this label are dropped; empty keeps all
	Path     string // output CSV; derived from OutputDir when empty
}

// Result summarizes one downloaded series.
type Result struct {
	Interval string
	Path     string
	Bars     []model.Bar
}

// First returns the earliest timestamp, or "" when no bars were written.
func (r *Result) First() string {
	if len(r.Bars) == 0 {
		return ""
	}
	return r.Bars[0].Timestamp
}

// Last returns the latest timestamp, or "" when no bars were written.
func (r *Result) Last() string {
	if len(r.Bars) == 0 {
		return ""
	}
	return r.Bars[len(r.Bars)-1].Timestamp
}

// Collector downloads series through a Fetcher and writes them as CSV.
type Collector struct {
	Fetcher   Fetcher
	Symbol    string
	OutputDir string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol, outputDir string) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, OutputDir: outputDir}
}

// Collect fetches a single series and saves it.
func (c *Collector) Collect(ctx context.Context, job Job) (*Result, error) {
	var (
		bars []model.Bar
		err  error
	)
	timeColumn := dataset.TimeColumn(job.Interval)
	if job.Interval == IntervalDaily {
		bars, err = c.Fetcher.FetchDailyBars(ctx, c.Symbol)
	} else {
		bars, err = c.Fetcher.FetchIntradayBars(ctx, c.Symbol, job.Interval)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s bars: %w", job.Interval, err)
	}

	if job.Since != "" && job.Interval == IntervalDaily {
		bars = filterSince(bars, job.Since)
	}

	path := job.Path
	if path == "" {
		path = dataset.SeriesPath(c.OutputDir, c.Symbol, job.Interval)
	}
	if err := dataset.SaveBars(path, bars, timeColumn); err != nil {
		return nil, fmt.Errorf("save %s bars: %w", job.Interval, err)
	}
	return &Result{Interval: job.Interval, Path: path, Bars: bars}, nil
}

// CollectAll runs every job in order. A failing job is logged and does not
// stop the remaining ones; all failures are returned joined.
func (c *Collector) CollectAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	var (
		results []*Result
		errs    []error
	)
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		log.Printf("[INFO] fetching %s %s data from %s", c.Symbol, job.Interval, c.Fetcher.Name())
		res, err := c.Collect(ctx, job)
		if err != nil {
			log.Printf("[ERROR] %s: %v", job.Interval, err)
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// filterSince keeps bars whose label sorts at or after since. Date labels are
// ISO formatted, so string comparison is chronological.
func filterSince(bars []model.Bar, since string) []model.Bar {
	out := make([]model.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Timestamp >= since {
			out = append(out, b)
		}
	}
	return out
}

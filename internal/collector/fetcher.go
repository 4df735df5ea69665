package collector

import (
	"context"

	"PriceScan/internal/dataset"
	"PriceScan/internal/model"
)

// IntervalDaily names the daily series.
const IntervalDaily = dataset.IntervalDaily

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string) ([]model.Bar, error)
	FetchIntradayBars(ctx context.Context, symbol, interval string) ([]model.Bar, error)
	Name() string
}

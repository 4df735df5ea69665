package model

// Bar represents a single OHLCV row of a fetched series.
// Timestamp is the label returned by the data source ("2024-01-02" for daily
// bars, "2024-01-02 15:45:00" for intraday ones) and is kept as-is.
type Bar struct {
	Timestamp string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// TimePoint is one (timestamp, price) observation read from a clean series.
type TimePoint struct {
	Timestamp string
	Price     float64
}

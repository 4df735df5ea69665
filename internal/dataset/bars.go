package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"PriceScan/internal/model"
)

// Time column names used in bar files.
const (
	ColumnDate      = "date"
	ColumnTimestamp = "timestamp"
)

// IntervalDaily names the daily series.
const IntervalDaily = "daily"

// SeriesPath returns where a fetched series is stored, e.g.
// public/nvda_daily_data.csv or public/nvda-intraday_15min_data.csv.
func SeriesPath(dir, symbol, interval string) string {
	sym := strings.ToLower(symbol)
	name := fmt.Sprintf("%s-intraday_%s_data.csv", sym, interval)
	if interval == IntervalDaily {
		name = fmt.Sprintf("%s_daily_data.csv", sym)
	}
	return filepath.Join(dir, name)
}

// TimeColumn returns the name of the time column used for interval.
func TimeColumn(interval string) string {
	if interval == IntervalDaily {
		return ColumnDate
	}
	return ColumnTimestamp
}

// WriteBars writes bars as CSV with the header
// <timeColumn>,open,high,low,close,volume.
func WriteBars(w io.Writer, bars []model.Bar, timeColumn string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{timeColumn, "open", "high", "low", "close", "volume"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range bars {
		rec := []string{
			b.Timestamp,
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			strconv.FormatInt(b.Volume, 10),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %s: %w", b.Timestamp, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveBars writes bars to path, creating the parent directory if needed.
func SaveBars(path string, bars []model.Bar, timeColumn string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteBars(f, bars, timeColumn); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadBars parses a bar CSV written by WriteBars (or by the data provider).
// Columns are located by header name, so their order does not matter.
func ReadBars(r io.Reader) ([]model.Bar, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header, "open", "high", "low", "close", "volume")
	if err != nil {
		return nil, err
	}
	timeIdx, err := timeColumnIndex(header)
	if err != nil {
		return nil, err
	}

	var bars []model.Bar
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rec) < len(header) {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", line, len(header), len(rec))
		}
		var b model.Bar
		b.Timestamp = rec[timeIdx]
		for i, dst := range []*float64{&b.Open, &b.High, &b.Low, &b.Close} {
			if *dst, err = strconv.ParseFloat(rec[idx[i]], 64); err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, header[idx[i]], err)
			}
		}
		if b.Volume, err = strconv.ParseInt(rec[idx[4]], 10, 64); err != nil {
			return nil, fmt.Errorf("line %d: volume: %w", line, err)
		}
		bars = append(bars, b)
	}
	return bars, nil
}

func timeColumnIndex(header []string) (int, error) {
	for _, name := range []string{ColumnTimestamp, ColumnDate} {
		if idx, err := columnIndex(header, name); err == nil {
			return idx[0], nil
		}
	}
	return 0, fmt.Errorf("%w: %s or %s", ErrColumnNotFound, ColumnTimestamp, ColumnDate)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"PriceScan/internal/model"
)

// RowError describes an input row that was skipped.
type RowError struct {
	Line int
	Raw  string
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Raw)
}

func (e RowError) Unwrap() error { return e.Err }

const maxLineSize = 1 << 20

var (
	errTooFewColumns = errors.New("expected at least 2 columns")
	errBadPrice      = errors.New("invalid price")
)

// ReadPoints parses a two-column (timestamp, price) table. The first line is a
// header and is always skipped. Each line is parsed on its own, so a malformed
// row (stray quote included) never affects the rows after it. Malformed rows
// are skipped and returned as RowErrors; extra columns and blank lines are
// ignored.
func ReadPoints(r io.Reader) ([]model.TimePoint, []RowError, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		points  []model.TimePoint
		skipped []RowError
		line    int
	)
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if line == 1 || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		if len(parts) < 2 {
			skipped = append(skipped, RowError{Line: line, Raw: raw, Err: errTooFewColumns})
			continue
		}
		price, err := parsePrice(parts[1])
		if err != nil {
			skipped = append(skipped, RowError{Line: line, Raw: raw, Err: err})
			continue
		}
		points = append(points, model.TimePoint{
			Timestamp: strings.TrimSpace(parts[0]),
			Price:     price,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read line %d: %w", line+1, err)
	}
	return points, skipped, nil
}

// LoadPoints opens path and parses it with ReadPoints.
func LoadPoints(path string) ([]model.TimePoint, []RowError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPoints(f)
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errBadPrice
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errBadPrice
	}
	return v, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr
}

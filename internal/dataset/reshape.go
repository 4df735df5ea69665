package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrColumnNotFound is returned when a required column is missing from the header.
var ErrColumnNotFound = errors.New("column not found")

// ReshapeOptions selects the columns copied into the clean series.
type ReshapeOptions struct {
	TimeColumn  string // default "timestamp"
	PriceColumn string // default "close"
}

func (o ReshapeOptions) withDefaults() ReshapeOptions {
	if o.TimeColumn == "" {
		o.TimeColumn = ColumnTimestamp
	}
	if o.PriceColumn == "" {
		o.PriceColumn = "close"
	}
	return o
}

// Reshape copies the time and price columns of a bar table into a two-column
// "timestamp,price" table sorted by timestamp. Values are copied verbatim.
// It returns the number of data rows written.
func Reshape(r io.Reader, w io.Writer, opts ReshapeOptions) (int, error) {
	opts = opts.withDefaults()

	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header, opts.TimeColumn, opts.PriceColumn)
	if err != nil {
		return 0, err
	}
	ti, pi := idx[0], idx[1]

	var rows [][2]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read row: %w", err)
		}
		if ti >= len(rec) || pi >= len(rec) {
			line, _ := cr.FieldPos(0)
			return 0, fmt.Errorf("line %d: expected %d columns, got %d", line, len(header), len(rec))
		}
		rows = append(rows, [2]string{rec[ti], rec[pi]})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnTimestamp, "price"}); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row[:]); err != nil {
			return 0, fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush: %w", err)
	}
	return len(rows), nil
}

// ReshapeFile runs Reshape from inPath to outPath.
func ReshapeFile(inPath, outPath string, opts ReshapeOptions) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", inPath, err)
	}
	defer in.Close()

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("create dir: %w", err)
		}
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", outPath, err)
	}
	n, err := Reshape(in, out, opts)
	if err != nil {
		out.Close()
		return 0, err
	}
	return n, out.Close()
}

// columnIndex returns the position of each named column in header.
// Matching ignores case and surrounding whitespace.
func columnIndex(header []string, names ...string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}
	idx := make([]int, len(names))
	for i, name := range names {
		p, ok := pos[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
		idx[i] = p
	}
	return idx, nil
}

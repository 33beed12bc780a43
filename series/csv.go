package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulhankin/chartapprox/approx"
)

// CSVOptions controls ReadCSV.
type CSVOptions struct {
	// XColumn names the column holding x values. Empty means the first column.
	XColumn string
	// Comma is the field separator. Zero means ','.
	Comma rune
}

// ReadCSV reads series from a table with a header row. One column holds
// the x values; every other column becomes a series named by its header.
// An empty cell skips that sample for that column's series.
func ReadCSV(r io.Reader, opt CSVOptions) ([]*Series, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	xcol := 0
	if opt.XColumn != "" {
		xcol = -1
		for i, h := range header {
			if strings.TrimSpace(h) == opt.XColumn {
				xcol = i
				break
			}
		}
		if xcol < 0 {
			return nil, fmt.Errorf("csv: no column named %q", opt.XColumn)
		}
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("csv: need an x column and at least one series column, got %d columns", len(header))
	}

	var ss []*Series
	cols := make([]*Series, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if i == xcol {
			continue
		}
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, fmt.Errorf("csv line 1 column %d: empty series name", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("csv line 1 column %d: duplicate series name %q", i+1, name)
		}
		seen[name] = true
		cols[i] = &Series{Name: name}
		ss = append(ss, cols[i])
	}

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		x, err := strconv.ParseFloat(strings.TrimSpace(rec[xcol]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d column %q: %w", line, header[xcol], err)
		}
		for i, cell := range rec {
			cell = strings.TrimSpace(cell)
			if i == xcol || cell == "" {
				continue
			}
			y, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d column %q: %w", line, header[i], err)
			}
			cols[i].Points = append(cols[i].Points, approx.Point{X: x, Y: y})
		}
	}
	return ss, nil
}

// WriteCSV writes s as a two column table headed "x,<name>".
func WriteCSV(w io.Writer, s *Series) error {
	cw := csv.NewWriter(w)
	name := s.Name
	if name == "" {
		name = "y"
	}
	if err := cw.Write([]string{"x", name}); err != nil {
		return err
	}
	for _, p := range s.Points {
		rec := []string{
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

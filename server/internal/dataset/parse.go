package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Column headers of the launch table.
const (
	ColSite            = "Launch Site"
	ColPayload         = "Payload Mass (kg)"
	ColClass           = "class"
	ColBoosterVersion  = "Booster Version"
	ColBoosterCategory = "Booster Version Category"
	ColFlightNumber    = "Flight Number"
)

// RequiredColumns lists the headers Parse refuses to load without.
var RequiredColumns = []string{ColSite, ColPayload, ColClass, ColBoosterVersion, ColBoosterCategory}

// Load opens src through opener and parses it.
func Load(ctx context.Context, src string, opener Opener) (*Dataset, error) {
	rc, err := opener.Open(ctx, src)
	if err != nil {
		return nil, &LoadError{Source: src, Err: err}
	}
	defer rc.Close()
	return Parse(rc, src)
}

// Parse reads a launch table in CSV form. name is only used in errors.
func Parse(r io.Reader, name string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &LoadError{Source: name, Err: errors.New("empty file: no header row")}
	}
	if err != nil {
		return nil, &LoadError{Source: name, Err: fmt.Errorf("read header: %w", err)}
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &LoadError{Source: name, Err: fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	flightIdx, hasFlight := idx[ColFlightNumber]

	var records []LaunchRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, &LoadError{Source: name, Line: pe.Line, Err: pe.Err}
			}
			return nil, &LoadError{Source: name, Err: err}
		}
		line, _ := cr.FieldPos(0)

		cell := func(col string) string { return strings.TrimSpace(row[idx[col]]) }
		cellErr := func(col string, err error) error {
			return &LoadError{Source: name, Line: line, Column: col, Err: err}
		}

		rec := LaunchRecord{
			Site:            cell(ColSite),
			BoosterVersion:  cell(ColBoosterVersion),
			BoosterCategory: cell(ColBoosterCategory),
		}
		if rec.Site == "" {
			return nil, cellErr(ColSite, errors.New("empty launch site"))
		}
		if rec.PayloadMassKg, err = parsePayload(cell(ColPayload)); err != nil {
			return nil, cellErr(ColPayload, err)
		}
		if rec.Class, err = parseClass(cell(ColClass)); err != nil {
			return nil, cellErr(ColClass, err)
		}
		if hasFlight {
			if v := strings.TrimSpace(row[flightIdx]); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil {
					return nil, cellErr(ColFlightNumber, fmt.Errorf("not an integer: %q", v))
				}
				rec.FlightNumber = n
			}
		}
		records = append(records, rec)
	}

	return New(name, records), nil
}

func parsePayload(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("payload mass must be a non-negative finite number, got %q", s)
	}
	return v, nil
}

func parseClass(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	switch v {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	default:
		return 0, fmt.Errorf("class must be 0 or 1, got %q", s)
	}
}

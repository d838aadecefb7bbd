package panelsrc

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/oncomark/internal/marker"
)

// patientColumns are the header names accepted for the patient label.
var patientColumns = map[string]bool{"patient": true, "name": true, "id": true}

// ReadCSV reads records from CSV. The header row names the columns: marker
// names (HE4, AFP, CA19-9) and optionally patient/name/id. Blank cells leave
// the marker out of the panel.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: missing header row")
		}
		return nil, fmt.Errorf("csv header: %w", err)
	}

	patientCol := -1
	markerCols := make(map[int]marker.Type)
	for i, h := range header {
		name := strings.TrimSpace(h)
		if patientColumns[strings.ToLower(name)] {
			patientCol = i
			continue
		}
		m, err := marker.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("csv header column %d: %w", i+1, err)
		}
		for _, seen := range markerCols {
			if seen == m {
				return nil, fmt.Errorf("csv header column %d: duplicate marker %s", i+1, m)
			}
		}
		markerCols[i] = m
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		panel := make(marker.Panel, len(markerCols))
		for i, cell := range row {
			m, ok := markerCols[i]
			if !ok {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("csv line %d: %s: %w", line, m, err)
			}
			panel[m] = v
		}

		patient := ""
		if patientCol >= 0 && patientCol < len(row) {
			patient = strings.TrimSpace(row[patientCol])
		}
		records = append(records, NewRecord(patient, panel))
	}
	return records, nil
}

func readFile(path string, read func(io.Reader) ([]Record, error)) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}

package panelsrc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/oncomark/internal/marker"
)

// Record is one patient's panel as read from an input source. Markers that
// were blank or NULL in the source are absent from Panel.
type Record struct {
	ID      string       `json:"id"`
	Patient string       `json:"patient,omitempty"`
	Panel   marker.Panel `json:"panel"`
}

// NewRecord wraps a panel in a record with a fresh ID.
func NewRecord(patient string, panel marker.Panel) Record {
	return Record{
		ID:      uuid.New().String(),
		Patient: patient,
		Panel:   panel,
	}
}

// Name returns the patient label, or the record ID when there is none.
func (r Record) Name() string {
	if r.Patient != "" {
		return r.Patient
	}
	return r.ID
}

// FromValues builds a single record from explicit readings.
func FromValues(patient string, he4, afp, ca199 float64) Record {
	return NewRecord(patient, marker.NewPanel(he4, afp, ca199))
}

// Options tunes Open.
type Options struct {
	// Table is the SQLite table to read. Default: "panels".
	Table string
}

// Open reads every record from path, choosing the reader by file extension:
// .csv, .json, .jsonl/.ndjson, or .db/.sqlite/.sqlite3.
func Open(ctx context.Context, path string, opts Options) ([]Record, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return readFile(path, ReadCSV)
	case ".json", ".jsonl", ".ndjson":
		return readFile(path, ReadJSON)
	case ".db", ".sqlite", ".sqlite3":
		table := opts.Table
		if table == "" {
			table = DefaultTable
		}
		return ReadSQLite(ctx, path, table)
	default:
		return nil, fmt.Errorf("unsupported input %q: want .csv, .json, .jsonl or .db", path)
	}
}

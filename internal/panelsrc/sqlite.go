package panelsrc

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/oncomark/internal/marker"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// DefaultTable is the table ReadSQLite scans when none is given.
const DefaultTable = "panels"

// Column names in a lab-results table. Readings are nullable REAL columns.
const (
	colPatient = "patient"
	colHE4     = "he4"
	colAFP     = "afp"
	colCA199   = "ca19_9"
)

// ReadSQLite scans a lab-results table in a SQLite file. The database is
// opened read-only; a NULL reading leaves that marker out of the panel.
func ReadSQLite(ctx context.Context, path, table string) ([]Record, error) {
	dsn := "file:" + path + "?mode=ro"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return queryPanels(ctx, db, table)
}

func queryPanels(ctx context.Context, db *sql.DB, table string) ([]Record, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(colPatient, colHE4, colAFP, colCA199).
		From(entsql.Table(table)).
		Query()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			patient         sql.NullString
			he4, afp, ca199 sql.NullFloat64
		)
		if err := rows.Scan(&patient, &he4, &afp, &ca199); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}

		panel := make(marker.Panel, 3)
		for m, v := range map[marker.Type]sql.NullFloat64{marker.HE4: he4, marker.AFP: afp, marker.CA199: ca199} {
			if v.Valid {
				panel[m] = v.Float64
			}
		}
		records = append(records, NewRecord(patient.String, panel))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return records, nil
}

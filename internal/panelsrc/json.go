package panelsrc

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/abhisek/oncomark/internal/marker"
)

// jsonPatient is the input shape: marker readings are top-level keys next
// to the patient name, e.g. {"name": "Alice", "HE4": 180, "AFP": 6, "CA19-9": 22}.
// A null reading counts as missing.
type jsonPatient map[string]json.RawMessage

// ReadJSON reads either a JSON array of patients or one patient object per line.
func ReadJSON(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	dec := json.NewDecoder(br)
	var patients []jsonPatient
	if first == '[' {
		if err := dec.Decode(&patients); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
	} else {
		for {
			var p jsonPatient
			err := dec.Decode(&p)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("json record %d: %w", len(patients)+1, err)
			}
			patients = append(patients, p)
		}
	}

	records := make([]Record, 0, len(patients))
	for i, p := range patients {
		rec, err := p.record()
		if err != nil {
			return nil, fmt.Errorf("json record %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (p jsonPatient) record() (Record, error) {
	var patient string
	panel := make(marker.Panel, 3)
	spelled := make(map[marker.Type]string, 3)
	for _, key := range slices.Sorted(maps.Keys(p)) {
		raw := p[key]
		if patientColumns[strings.ToLower(key)] {
			if err := json.Unmarshal(raw, &patient); err != nil {
				return Record{}, fmt.Errorf("%s: %w", key, err)
			}
			continue
		}
		m, err := marker.Parse(key)
		if err != nil {
			return Record{}, err
		}
		if prev, ok := spelled[m]; ok {
			return Record{}, fmt.Errorf("duplicate marker %s (%q and %q)", m, prev, key)
		}
		spelled[m] = key
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return Record{}, fmt.Errorf("%s: %w", m, err)
		}
		panel[m] = v
	}
	return NewRecord(patient, panel), nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

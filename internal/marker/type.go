package marker

import (
	"fmt"
	"strings"
)

// Type identifies a serum tumor marker.
type Type int

const (
	HE4 Type = iota
	AFP
	CA199
)

// All returns every marker type in canonical order.
func All() []Type {
	return []Type{HE4, AFP, CA199}
}

// String returns the clinical name of the marker.
func (t Type) String() string {
	switch t {
	case HE4:
		return "HE4"
	case AFP:
		return "AFP"
	case CA199:
		return "CA19-9"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Valid reports whether t is one of the known marker types.
func (t Type) Valid() bool {
	return t >= HE4 && t <= CA199
}

// Unit returns the customary reporting unit for the marker.
func (t Type) Unit() string {
	switch t {
	case HE4:
		return "pmol/L"
	case AFP:
		return "ng/mL"
	case CA199:
		return "U/mL"
	default:
		return ""
	}
}

// Parse resolves a marker name. Matching ignores case, and "CA199"/"CA19_9"
// are accepted for CA19-9 since column names rarely allow a dash.
func Parse(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HE4":
		return HE4, nil
	case "AFP":
		return AFP, nil
	case "CA19-9", "CA199", "CA19_9":
		return CA199, nil
	}
	return 0, fmt.Errorf("unknown marker %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid marker type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

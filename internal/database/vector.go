package database

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Vector wraps a float64 slice for use as an embedding column value. It
// implements sql.Scanner and driver.Valuer for the bracketed text format
// "[1.0,2.0,3.0]", which is both the pgvector wire format and the JSON
// array representation used for SQLite columns.
type Vector struct {
	floats []float64
}

// NewVector creates a Vector from a float64 slice. The input is copied so
// later mutations of the source slice have no effect.
func NewVector(floats []float64) Vector {
	cp := make([]float64, len(floats))
	copy(cp, floats)
	return Vector{floats: cp}
}

// Floats returns a copy of the underlying float64 slice, or nil if the
// vector was scanned from NULL.
func (v Vector) Floats() []float64 {
	if v.floats == nil {
		return nil
	}
	cp := make([]float64, len(v.floats))
	copy(cp, v.floats)
	return cp
}

// Dimension returns the number of elements in the vector.
func (v Vector) Dimension() int {
	return len(v.floats)
}

// Scan implements sql.Scanner. It parses "[1.0,2.0,3.0]" from either a
// string or []byte value.
func (v *Vector) Scan(value any) error {
	if value == nil {
		v.floats = nil
		return nil
	}

	var raw string
	switch val := value.(type) {
	case string:
		raw = val
	case []byte:
		raw = string(val)
	default:
		return fmt.Errorf("cannot scan %T into Vector", value)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		v.floats = []float64{}
		return nil
	}
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return fmt.Errorf("malformed vector value %q", truncateSQL(raw))
	}

	parts := strings.Split(raw[1:len(raw)-1], ",")
	floats := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("parse vector element %d: %w", i, err)
		}
		floats[i] = f
	}
	v.floats = floats
	return nil
}

// Value implements driver.Valuer, rendering the bracketed text format.
func (v Vector) Value() (driver.Value, error) {
	if v.floats == nil {
		return nil, nil
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v.floats {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	}
	b.WriteByte(']')
	return b.String(), nil
}

// GormDataType tells GORM the column type for migrations. SQLite stores the
// bracketed text as-is; the Postgres schema owns the real vector(n) type.
func (Vector) GormDataType() string {
	return "text"
}

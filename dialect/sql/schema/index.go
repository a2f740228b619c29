// Package schema provides index metadata for the statement compiler and the
// introspectors that read it from a database catalog.
package schema

import (
	"fmt"
	"slices"
	"strings"
)

// IndexType classifies an index.
type IndexType uint8

// Index types.
const (
	Plain IndexType = iota
	Unique
	Primary
)

// String implements fmt.Stringer.
func (t IndexType) String() string {
	switch t {
	case Plain:
		return "plain"
	case Unique:
		return "unique"
	case Primary:
		return "primary"
	default:
		return fmt.Sprintf("IndexType(%d)", t)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t IndexType) MarshalText() ([]byte, error) {
	if t > Primary {
		return nil, fmt.Errorf("schema: invalid index type %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Catalog spellings
// ("PRIMARY", "UNIQUE", "INDEX") are accepted in any letter case.
func (t *IndexType) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "plain", "index", "":
		*t = Plain
	case "unique":
		*t = Unique
	case "primary":
		*t = Primary
	default:
		return fmt.Errorf("schema: unknown index type %q", text)
	}
	return nil
}

// Index describes one index of a table.
type Index struct {
	Name   string    `yaml:"name" msgpack:"name"`
	Type   IndexType `yaml:"type" msgpack:"type"`
	Fields []string  `yaml:"fields" msgpack:"fields"`
}

// IsKey reports if the index enforces uniqueness.
func (i *Index) IsKey() bool {
	return i.Type == Primary || i.Type == Unique
}

// Covers reports if every field of the index satisfies has.
func (i *Index) Covers(has func(field string) bool) bool {
	if len(i.Fields) == 0 {
		return false
	}
	for _, f := range i.Fields {
		if !has(f) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the index.
func (i *Index) Clone() *Index {
	return &Index{Name: i.Name, Type: i.Type, Fields: slices.Clone(i.Fields)}
}

// HasPrimaryKey reports if any of the indexes is a primary key.
func HasPrimaryKey(indexes []*Index) bool {
	return slices.ContainsFunc(indexes, func(i *Index) bool {
		return i != nil && i.Type == Primary
	})
}

package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/stmtc"
)

// Kind is the operation a Descriptor describes.
type Kind uint8

// Statement kinds.
const (
	Insert Kind = iota + 1
	BatchInsert
	Upsert
	Update
	Delete
	Truncate
	Select
)

var kindNames = [...]string{
	Insert:      "insert",
	BatchInsert: "batch_insert",
	Upsert:      "upsert",
	Update:      "update",
	Delete:      "delete",
	Truncate:    "truncate",
	Select:      "select",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k == 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("compiler: invalid kind %d", k)
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. "replace" is accepted
// as an alias of upsert.
func (k *Kind) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	if s == "replace" {
		*k = Upsert
		return nil
	}
	for i, name := range kindNames {
		if i > 0 && name == s {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("compiler: unknown statement kind %q", text)
}

// Assignment is one SET item of an UPDATE.
type Assignment struct {
	Column string `yaml:"column"`
	Value  string `yaml:"value"`
}

// AssignmentsFromMap converts a column to value mapping into assignments
// ordered by column name, so the compiled SET clause is deterministic.
func AssignmentsFromMap(m map[string]string) []Assignment {
	as := make([]Assignment, 0, len(m))
	for col, v := range m {
		as = append(as, Assignment{Column: col, Value: v})
	}
	slices.SortFunc(as, func(a, b Assignment) int {
		return strings.Compare(a.Column, b.Column)
	})
	return as
}

// Descriptor is the dialect-neutral shape of one pending statement. Only the
// fields relevant to Kind are read.
//
// Table is used verbatim and is expected to be quoted by the caller. Columns
// and assignment columns may be given quoted or unquoted. Values, Rows, Where,
// OrderBy and Select are opaque SQL fragments that are already safely
// encoded; the compiler never inspects their contents beyond surrounding
// parentheses and a leading WHERE or ORDER BY keyword.
type Descriptor struct {
	Kind  Kind   `yaml:"kind"`
	Table string `yaml:"table"`
	// Columns lists the inserted columns of Insert, BatchInsert and Upsert.
	Columns []string `yaml:"columns"`
	// Values holds one literal per column for Insert and Upsert.
	Values []string `yaml:"values"`
	// Rows holds one parenthesized literal row per inserted row for BatchInsert.
	Rows        []string     `yaml:"rows"`
	Assignments []Assignment `yaml:"assignments"`
	Where       string       `yaml:"where"`
	OrderBy     string       `yaml:"order_by"`
	// Limit and Offset are row counts. Zero means absent.
	Limit  int `yaml:"limit"`
	Offset int `yaml:"offset"`
	// IgnoreOnConflict turns constraint violations into no-ops where the
	// dialect permits it.
	IgnoreOnConflict bool `yaml:"ignore_on_conflict"`
	// Select is the compiled inner query paged by a Select descriptor. A
	// non-empty OrderBy reports that the query is already ordered.
	Select string `yaml:"select"`
}

// Validate checks that the descriptor is complete and consistent for its
// kind. Errors are of type *stmtc.DescriptorError.
func (d *Descriptor) Validate() error {
	kind := d.Kind.String()
	if d.Kind == 0 || int(d.Kind) >= len(kindNames) {
		return stmtc.NewDescriptorError(kind, "Kind", "unknown statement kind")
	}
	if d.Limit < 0 {
		return stmtc.NewDescriptorError(kind, "Limit", "must not be negative")
	}
	if d.Offset < 0 {
		return stmtc.NewDescriptorError(kind, "Offset", "must not be negative")
	}
	if d.Kind == Select {
		if strings.TrimSpace(d.Select) == "" {
			return stmtc.NewDescriptorError(kind, "Select", "missing inner query")
		}
		return nil
	}
	if strings.TrimSpace(d.Table) == "" {
		return stmtc.NewDescriptorError(kind, "Table", "missing table")
	}
	switch d.Kind {
	case Insert, Upsert:
		if err := d.validateColumns(kind); err != nil {
			return err
		}
		if len(d.Values) == 0 {
			return stmtc.NewDescriptorError(kind, "Values", "no values")
		}
		if len(d.Values) != len(d.Columns) {
			return stmtc.NewDescriptorError(kind, "Values",
				fmt.Sprintf("%d values for %d columns", len(d.Values), len(d.Columns)))
		}
	case BatchInsert:
		if err := d.validateColumns(kind); err != nil {
			return err
		}
		if len(d.Rows) == 0 {
			return stmtc.NewDescriptorError(kind, "Rows", "no rows to insert")
		}
		for i, r := range d.Rows {
			inner, ok := unwrapRow(r)
			if !ok || inner == "" {
				return stmtc.NewDescriptorError(kind, "Rows",
					fmt.Sprintf("row %d is not a parenthesized value list", i))
			}
			n, ok := rowArity(inner)
			if !ok {
				return stmtc.NewDescriptorError(kind, "Rows",
					fmt.Sprintf("row %d has unbalanced quotes or parentheses", i))
			}
			if n != len(d.Columns) {
				return stmtc.NewDescriptorError(kind, "Rows",
					fmt.Sprintf("row %d has %d values for %d columns", i, n, len(d.Columns)))
			}
		}
	case Update:
		if len(d.Assignments) == 0 {
			return stmtc.NewDescriptorError(kind, "Assignments", "no assignments")
		}
		seen := make(map[string]bool, len(d.Assignments))
		for _, a := range d.Assignments {
			if strings.TrimSpace(a.Column) == "" {
				return stmtc.NewDescriptorError(kind, "Assignments", "assignment without column")
			}
			if seen[a.Column] {
				return stmtc.NewDescriptorError(kind, "Assignments",
					fmt.Sprintf("column %s assigned twice", a.Column))
			}
			seen[a.Column] = true
		}
	}
	return nil
}

func (d *Descriptor) validateColumns(kind string) error {
	if len(d.Columns) == 0 {
		return stmtc.NewDescriptorError(kind, "Columns", "no columns")
	}
	seen := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		if strings.TrimSpace(c) == "" {
			return stmtc.NewDescriptorError(kind, "Columns", "empty column name")
		}
		if seen[c] {
			return stmtc.NewDescriptorError(kind, "Columns", fmt.Sprintf("duplicate column %s", c))
		}
		seen[c] = true
	}
	return nil
}

// unwrapRow strips the parentheses surrounding a row literal.
func unwrapRow(row string) (string, bool) {
	row = strings.TrimSpace(row)
	if len(row) < 2 || row[0] != '(' || row[len(row)-1] != ')' {
		return "", false
	}
	return strings.TrimSpace(row[1 : len(row)-1]), true
}

// rowArity counts the top-level values of an unwrapped row. Commas inside
// quoted literals or nested parentheses do not separate values. It reports
// false if quotes or parentheses are unbalanced.
func rowArity(inner string) (int, bool) {
	var (
		n     = 1
		depth int
		quote byte
	)
	for i := 0; i < len(inner); i++ {
		ch := inner[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'', ch == '"', ch == '`':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			if depth--; depth < 0 {
				return 0, false
			}
		case ch == ',' && depth == 0:
			n++
		}
	}
	return n, quote == 0 && depth == 0
}

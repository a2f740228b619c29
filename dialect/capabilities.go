package dialect

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/hashicorp/go-version"
)

// Pagination is the syntax a dialect uses to page through a SELECT.
type Pagination uint8

const (
	// LimitOffset appends "LIMIT n OFFSET m".
	LimitOffset Pagination = iota
	// OffsetFetch appends "OFFSET m ROWS FETCH NEXT n ROWS ONLY".
	OffsetFetch
)

// String implements fmt.Stringer.
func (p Pagination) String() string {
	switch p {
	case LimitOffset:
		return "limit-offset"
	case OffsetFetch:
		return "offset-fetch"
	default:
		return fmt.Sprintf("Pagination(%d)", p)
	}
}

// BatchStyle is the syntax a dialect uses to insert several rows at once.
type BatchStyle uint8

const (
	// MultiValues lists rows in a single VALUES clause.
	MultiValues BatchStyle = iota
	// InsertAll emits one INTO clause per row under an INSERT ALL header.
	InsertAll
	// UnionSelect selects every row from the empty-row source joined by UNION ALL.
	UnionSelect
)

// String implements fmt.Stringer.
func (s BatchStyle) String() string {
	switch s {
	case MultiValues:
		return "multi-values"
	case InsertAll:
		return "insert-all"
	case UnionSelect:
		return "union-select"
	default:
		return fmt.Sprintf("BatchStyle(%d)", s)
	}
}

// Capabilities holds the static facts about one target dialect.
// Values returned by Lookup are copies and may be modified freely.
type Capabilities struct {
	// Name is the dialect name, e.g. "oracle".
	Name string
	// QuoteChar is the identifier quoting character.
	QuoteChar byte
	// Pagination is the native paging syntax.
	Pagination Pagination
	// NativeLimitOffset reports if the dialect can page natively at all.
	NativeLimitOffset bool
	// MinVersionForNativeLimitOffset is the first server version with native
	// paging. Nil means every version.
	MinVersionForNativeLimitOffset *version.Version
	// SupportsMerge reports if a MERGE statement exists.
	SupportsMerge bool
	// MinVersionForMerge is the first server version with MERGE. Nil means every version.
	MinVersionForMerge *version.Version
	// SupportsTruncate reports if TRUNCATE TABLE exists. When false the
	// caller substitutes an unconditional DELETE.
	SupportsTruncate bool
	// RowLimitedWrites reports if UPDATE and DELETE accept a LIMIT clause.
	RowLimitedWrites bool
	// OrderedWrites reports if UPDATE and DELETE accept a trailing ORDER BY.
	OrderedWrites bool
	// BatchStyle is the multi-row INSERT syntax.
	BatchStyle BatchStyle
	// EmptyRowSource is the one-row table literal rows are selected from,
	// e.g. "DUAL". Empty when SELECT without FROM is allowed.
	EmptyRowSource string
	// InsertIgnore and UpdateIgnore are the modifiers that turn constraint
	// violations into no-ops. Empty when the dialect has none.
	InsertIgnore string
	UpdateIgnore string
	// RowIdentity is the pseudo-column identifying a physical row
	// (e.g. "ctid", "rowid"), used to emulate row-limited writes.
	RowIdentity string
	// CaseInsensitiveIdents reports if quoted identifiers compare case-insensitively.
	CaseInsensitiveIdents bool
	// TracksInsertTable reports if fetching the last generated identifier
	// requires knowing the table targeted by the previous INSERT.
	TracksInsertTable bool
	// InsertOutputBinding is the output bind name the INSERT statement uses to
	// return the generated row identifier. Empty if unused.
	InsertOutputBinding string
}

// Clone returns a copy of the capabilities.
func (c *Capabilities) Clone() *Capabilities {
	cp := *c
	return &cp
}

var (
	mu       sync.RWMutex
	registry = map[string]*Capabilities{
		Oracle: {
			Name:                           Oracle,
			QuoteChar:                      '"',
			Pagination:                     OffsetFetch,
			NativeLimitOffset:              true,
			MinVersionForNativeLimitOffset: version.Must(version.NewVersion("12.1")),
			SupportsMerge:                  true,
			SupportsTruncate:               true,
			OrderedWrites:                  true,
			BatchStyle:                     InsertAll,
			EmptyRowSource:                 "DUAL",
			TracksInsertTable:              true,
			InsertOutputBinding:            "STMTC_ROWID",
		},
		Postgres: {
			Name:               Postgres,
			QuoteChar:          '"',
			Pagination:         LimitOffset,
			NativeLimitOffset:  true,
			SupportsMerge:      true,
			MinVersionForMerge: version.Must(version.NewVersion("15")),
			SupportsTruncate:   true,
			BatchStyle:         MultiValues,
			RowIdentity:        "ctid",
		},
		MySQL: {
			Name:                  MySQL,
			QuoteChar:             '`',
			Pagination:            LimitOffset,
			NativeLimitOffset:     true,
			SupportsTruncate:      true,
			RowLimitedWrites:      true,
			OrderedWrites:         true,
			BatchStyle:            MultiValues,
			EmptyRowSource:        "DUAL",
			InsertIgnore:          "IGNORE",
			UpdateIgnore:          "IGNORE",
			CaseInsensitiveIdents: true,
		},
		SQLite: {
			Name:                  SQLite,
			QuoteChar:             '"',
			Pagination:            LimitOffset,
			NativeLimitOffset:     true,
			BatchStyle:            MultiValues,
			InsertIgnore:          "OR IGNORE",
			UpdateIgnore:          "OR IGNORE",
			RowIdentity:           "rowid",
			CaseInsensitiveIdents: true,
		},
	}
)

// Lookup returns a copy of the capabilities registered for the given dialect.
func Lookup(name string) (*Capabilities, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("dialect: unsupported dialect %q", name)
	}
	return c.Clone(), nil
}

// Register adds or replaces the capabilities of a dialect.
func Register(c *Capabilities) error {
	if c == nil || c.Name == "" {
		return fmt.Errorf("dialect: capabilities must be named")
	}
	if c.QuoteChar == 0 {
		return fmt.Errorf("dialect: %s: missing identifier quote character", c.Name)
	}
	mu.Lock()
	defer mu.Unlock()
	registry[c.Name] = c.Clone()
	return nil
}

// Names returns the registered dialect names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return slices.Clip(names)
}

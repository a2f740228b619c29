package dialect

import (
	"strings"

	"github.com/lib/pq"
	"golang.org/x/text/cases"
)

// IsQuoted reports if ident is already wrapped in the dialect's quote character.
func (c *Capabilities) IsQuoted(ident string) bool {
	return len(ident) >= 2 && ident[0] == c.QuoteChar && ident[len(ident)-1] == c.QuoteChar
}

// Quote wraps ident in the dialect's quote character. Already quoted
// identifiers are returned unchanged, so quoting is idempotent. Qualified
// names ("schema.table") are quoted part by part.
func (c *Capabilities) Quote(ident string) string {
	if ident == "" {
		return ident
	}
	if parts := c.split(ident); len(parts) > 1 {
		for i := range parts {
			parts[i] = c.Quote(parts[i])
		}
		return strings.Join(parts, ".")
	}
	if c.IsQuoted(ident) {
		return ident
	}
	if c.QuoteChar == '"' && c.Name == Postgres {
		return pq.QuoteIdentifier(ident)
	}
	q := string(c.QuoteChar)
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

// Unquote strips the dialect's quote character from ident. Unquoted
// identifiers are returned unchanged. Use Parts for qualified names.
func (c *Capabilities) Unquote(ident string) string {
	if !c.IsQuoted(ident) {
		return ident
	}
	q := string(c.QuoteChar)
	return strings.ReplaceAll(ident[1:len(ident)-1], q+q, q)
}

// Parts splits a possibly qualified name on the dots outside quotes and
// returns each part unquoted. `"HR"."USERS"` yields [HR USERS] and
// `"a.b"` yields [a.b].
func (c *Capabilities) Parts(ident string) []string {
	parts := c.split(ident)
	for i := range parts {
		parts[i] = c.Unquote(parts[i])
	}
	return parts
}

// split cuts ident at every dot outside a quoted section. Doubled quote
// characters toggle the state twice and so stay inside their section.
func (c *Capabilities) split(ident string) []string {
	var (
		parts  []string
		start  int
		quoted bool
	)
	for i := 0; i < len(ident); i++ {
		switch ident[i] {
		case c.QuoteChar:
			quoted = !quoted
		case '.':
			if !quoted {
				parts = append(parts, ident[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, ident[start:])
}

// SameIdent reports if a and b name the same column, ignoring quoting and,
// for dialects with case-insensitive identifiers, letter case.
func (c *Capabilities) SameIdent(a, b string) bool {
	a, b = c.Unquote(a), c.Unquote(b)
	if a == b {
		return true
	}
	if !c.CaseInsensitiveIdents {
		return false
	}
	return cases.Fold().String(a) == cases.Fold().String(b)
}

package compiler

import (
	"strconv"
	"strings"

	"github.com/syssam/stmtc/dialect"
)

// builder accumulates statement text for one dialect.
type builder struct {
	sb   strings.Builder
	caps *dialect.Capabilities
}

func newBuilder(caps *dialect.Capabilities) *builder {
	return &builder{caps: caps}
}

// WriteString writes s as is.
func (b *builder) WriteString(s string) *builder {
	b.sb.WriteString(s)
	return b
}

// Byte writes the byte c.
func (b *builder) Byte(c byte) *builder {
	b.sb.WriteByte(c)
	return b
}

// Pad writes a space unless the text is empty or already ends with one.
func (b *builder) Pad() *builder {
	if n := b.sb.Len(); n > 0 && b.sb.String()[n-1] != ' ' {
		b.sb.WriteByte(' ')
	}
	return b
}

// Ident writes the quoted identifier.
func (b *builder) Ident(s string) *builder {
	b.sb.WriteString(b.caps.Quote(s))
	return b
}

// Int writes the decimal integer.
func (b *builder) Int(i int) *builder {
	b.sb.WriteString(strconv.Itoa(i))
	return b
}

// Join writes n items separated by sep, each rendered by f.
func (b *builder) Join(n int, sep string, f func(int)) *builder {
	for i := range n {
		if i > 0 {
			b.sb.WriteString(sep)
		}
		f(i)
	}
	return b
}

// IdentComma writes the quoted identifiers separated by commas.
func (b *builder) IdentComma(idents ...string) *builder {
	return b.Join(len(idents), ", ", func(i int) { b.Ident(idents[i]) })
}

// Wrap writes the output of f between parentheses.
func (b *builder) Wrap(f func(*builder)) *builder {
	b.sb.WriteByte('(')
	f(b)
	b.sb.WriteByte(')')
	return b
}

// String returns the accumulated text.
func (b *builder) String() string {
	return b.sb.String()
}

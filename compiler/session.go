package compiler

import (
	"strings"
	"sync"
)

// NumberingColumn is the synthetic column emulated paging adds.
const NumberingColumn = "rnum"

// Session holds the per-query-session state a caller threads between
// compiled statements. A Session is safe for concurrent use, but independent
// sessions never share state.
type Session struct {
	mu              sync.Mutex
	lastInsertTable string
	numbering       bool
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Record applies the hints of a compiled result to the session.
func (s *Session) Record(r *Result) {
	if r == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.LastInsertTable != "" {
		s.lastInsertTable = r.LastInsertTable
	}
	if r.InjectedNumberingColumn {
		s.numbering = true
	}
}

// ResetSelect clears the select state once the caller has decoded a result set.
func (s *Session) ResetSelect() {
	s.mu.Lock()
	s.numbering = false
	s.mu.Unlock()
}

// LastInsertTable returns the table targeted by the last recorded insert.
func (s *Session) LastInsertTable() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInsertTable
}

// NumberingColumnInjected reports if the current select carries NumberingColumn.
func (s *Session) NumberingColumnInjected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.numbering
}

// VisibleColumns returns cols without the synthetic numbering column when
// the current select carries one. cols is not modified.
func (s *Session) VisibleColumns(cols []string) []string {
	if !s.NumberingColumnInjected() {
		return cols
	}
	visible := make([]string, 0, len(cols))
	for _, c := range cols {
		if !strings.EqualFold(c, NumberingColumn) {
			visible = append(visible, c)
		}
	}
	return visible
}

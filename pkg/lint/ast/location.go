package ast

import "fmt"

// Position is a 1-based line and column within a source document.
// Columns count bytes, matching the offsets reported by the parsers.
type Position struct {
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid returns true if the position points at a real line.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0
}

// Before reports whether p sorts strictly before o.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// Span is a source range with an inclusive Start and an exclusive End.
type Span struct {
	Start Position
	End   Position
}

// String returns a human-readable representation of the span.
// Format: "line:col-line:col"
func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// IsValid returns true if the span starts at a valid position and does not end before it starts.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && !s.End.Before(s.Start)
}

// Contains reports whether o lies entirely within s.
func (s Span) Contains(o Span) bool {
	return !o.Start.Before(s.Start) && !s.End.Before(o.End)
}

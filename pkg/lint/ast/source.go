package ast

import (
	"bytes"
	"sort"
)

// Source is the immutable text a tree was parsed from. Nodes keep byte ranges
// into it instead of copies of their text.
type Source struct {
	data       []byte
	lineStarts []int
}

// NewSource indexes data for offset to position conversion.
func NewSource(data []byte) *Source {
	starts := []int{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Source{data: data, lineStarts: starts}
}

// Bytes returns the full source text.
func (s *Source) Bytes() []byte {
	return s.data
}

// Len returns the source length in bytes.
func (s *Source) Len() int {
	return len(s.data)
}

// Slice returns the text between two byte offsets, clamped to the source bounds.
func (s *Source) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.data) {
		end = len(s.data)
	}
	if start >= end {
		return ""
	}
	return string(s.data[start:end])
}

// Position converts a byte offset into a 1-based position.
func (s *Source) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.data) {
		offset = len(s.data)
	}
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > offset
	}) - 1
	return Position{Line: line + 1, Column: offset - s.lineStarts[line] + 1}
}

// SpanOf converts a byte range into a span.
func (s *Source) SpanOf(start, end int) Span {
	return Span{Start: s.Position(start), End: s.Position(end)}
}

// LineCount returns the number of lines in the source.
func (s *Source) LineCount() int {
	return len(s.lineStarts)
}

// Line returns the text of a 1-based line without its line terminator.
func (s *Source) Line(n int) string {
	if n < 1 || n > len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[n-1]
	end := len(s.data)
	if n < len(s.lineStarts) {
		end = s.lineStarts[n] - 1
	}
	return string(bytes.TrimRight(s.data[start:end], "\r"))
}

// FirstLine returns the span covering the first line of the source.
// Whole-file findings are anchored there.
func (s *Source) FirstLine() Span {
	line := s.Line(1)
	return Span{
		Start: Position{Line: 1, Column: 1},
		End:   Position{Line: 1, Column: len(line) + 1},
	}
}

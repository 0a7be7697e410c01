package document

import (
	"fmt"

	"mercator-hq/modlint/pkg/lint/ast"
)

// ParseError reports that a whole document could not be parsed. A parse
// failure aborts the pass for that document; it is never turned into a
// finding.
type ParseError struct {
	Path     string
	Kind     Kind
	Position ast.Position // zero when unknown
	Err      error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Position.IsValid() {
		return fmt.Sprintf("parse %s document %s:%s: %v", e.Kind, e.Path, e.Position, e.Err)
	}
	return fmt.Sprintf("parse %s document %s: %v", e.Kind, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

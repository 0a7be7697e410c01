// Package finding defines the records produced by lint rules.
//
// A Finding carries the rule identifier, a severity (error, warning or info),
// a message, the document path and the source span it refers to. Findings are
// values: rules create them, the engine concatenates them and hosts render them.
//
// # Basic Usage
//
//	list := finding.NewList()
//	list.Add(finding.Finding{
//	    Rule:     "invalid-license",
//	    Severity: finding.SeverityWarning,
//	    Message:  "License 'MIT' is not allowed",
//	    Path:     "my_module/__manifest__.py",
//	    Span:     valueSpan,
//	})
//
// # Context Extraction
//
// ExtractContext renders the surrounding source lines with a caret marker:
//
//	-> 4 |     'license': 'MIT',
//	     |                ^^^^^
//
// # Suggestions
//
// SuggestValue uses Levenshtein distance to point at the closest allowed value
// ("Did you mean 'LGPL-3'?").
package finding

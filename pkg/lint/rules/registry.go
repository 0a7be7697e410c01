package rules

import (
	"fmt"

	"mercator-hq/modlint/pkg/lint/document"
)

// Registry holds rules in evaluation order.
type Registry struct {
	rules []*Rule
	byID  map[string]*Rule
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Rule)}
}

// Register appends a rule. Registration order is evaluation order.
func (r *Registry) Register(rule *Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule has no id")
	}
	if rule.Check == nil {
		return fmt.Errorf("rule %q has no check function", rule.ID)
	}
	if _, exists := r.byID[rule.ID]; exists {
		return fmt.Errorf("rule %q already registered", rule.ID)
	}
	r.rules = append(r.rules, rule)
	r.byID[rule.ID] = rule
	return nil
}

// Get returns the rule with the given id.
func (r *Registry) Get(id string) (*Rule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

// All returns every registered rule in evaluation order.
func (r *Registry) All() []*Rule {
	out := make([]*Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// ForKind returns the rules accepting documents of kind, in evaluation order.
func (r *Registry) ForKind(kind document.Kind) []*Rule {
	var out []*Rule
	for _, rule := range r.rules {
		if rule.Kind == kind {
			out = append(out, rule)
		}
	}
	return out
}

// Default returns a registry holding every built-in rule, source rules first,
// then manifest and data rules.
func Default() *Registry {
	r := NewRegistry()
	for _, group := range [][]*Rule{sourceRules(), manifestRules(), dataRules()} {
		for _, rule := range group {
			if err := r.Register(rule); err != nil {
				panic(err)
			}
		}
	}
	return r
}

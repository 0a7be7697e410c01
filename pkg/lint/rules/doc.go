// Package rules implements the convention checks run on module files.
//
// A Rule accepts documents of one kind (Python source unit, manifest or
// data document) and reports findings through a Pass. Rules never share
// state: everything a rule needs beyond its document is read through the
// Pass's Resolver, which goes to the filesystem on every call.
//
// Default returns the built-in rules in evaluation order:
//
//	registry := rules.Default()
//	for _, rule := range registry.ForKind(doc.Kind) {
//	    pass := rules.NewPass(ctx, rule, doc, resolver, opts, "", logger)
//	    if err := rule.Check(pass); err != nil {
//	        // the rule is at fault, not the document
//	    }
//	    findings = append(findings, pass.Findings()...)
//	}
package rules

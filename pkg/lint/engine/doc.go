// Package engine runs the registered rules over documents and aggregates
// their findings.
//
// A pass parses one document, evaluates every enabled rule for its kind in
// registration order and concatenates the findings without deduplication or
// reordering. Rule faults are isolated: a rule that returns an error or
// panics is logged and counted, and the remaining rules still run. A
// document that fails to parse yields zero findings.
//
//	eng, err := engine.New(rules.Default(), engine.DefaultEngineConfig(), logger, nil, nil)
//	if err != nil {
//		return err
//	}
//	res := eng.LintFile(ctx, "addons/sale_extras/__manifest__.py")
//	for _, f := range res.Findings {
//		fmt.Println(f)
//	}
package engine

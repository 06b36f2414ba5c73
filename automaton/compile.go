package automaton

import "lexforge/diag"

// Compile runs stages A through D of the pipeline: each rule's NFA is built
// and stamped, all of them are merged under one start state, the merge is
// determinized by subset construction, and the result is minimized and
// completed with a sink. Rules whose postfix regex is malformed are
// reported and skipped; the remaining rules still compile.
func Compile(rules []Rule, sink diag.Sink) *DFA {
	ids := NewIDAllocator()

	nfas := make([]*NFA, 0, len(rules))
	for _, r := range rules {
		n, err := BuildRuleNFA(ids, r)
		if err != nil {
			sink.Report(diag.Diagnostic{
				Stage:   "nfa-builder",
				Message: "rule " + r.Kind + ": " + err.Error(),
			})
			continue
		}
		nfas = append(nfas, n)
	}

	merged := Merge(ids, nfas)
	raw := SubsetConstruct(merged)
	return Minimize(raw)
}

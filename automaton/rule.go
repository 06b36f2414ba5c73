package automaton

// Rule pairs an opaque token kind with a postfix regular expression. Rule
// values are produced by an external loader (package ruleset) and consumed
// by BuildRuleNFA; the core never parses a rule file itself.
type Rule struct {
	Kind    string
	Postfix string
}

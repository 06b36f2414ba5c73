package automaton

import "testing"

func mustBuild(t *testing.T, postfix string) *NFA {
	t.Helper()
	ids := NewIDAllocator()
	n, err := BuildNFA(ids, postfix)
	if err != nil {
		t.Fatalf("BuildNFA(%q): %v", postfix, err)
	}
	return n
}

// accepts runs a tiny NFA simulation (epsilon-closure driven) so the
// builder tests don't depend on subset construction or minimization.
func accepts(n *NFA, input string) bool {
	cur := epsilonClosure([]*NFAState{n.Start})
	for _, c := range input {
		cur = epsilonClosure(move(cur, c))
		if len(cur) == 0 {
			return false
		}
	}
	_, ok := cur[n.Accept.ID]
	return ok
}

func TestBuildNFALiteral(t *testing.T) {
	n := mustBuild(t, "a")
	if !accepts(n, "a") {
		t.Fatal("want accept")
	}
	if accepts(n, "b") || accepts(n, "") || accepts(n, "aa") {
		t.Fatal("want reject")
	}
}

func TestBuildNFAConcat(t *testing.T) {
	n := mustBuild(t, "if.") // "i" . "f"
	if !accepts(n, "if") {
		t.Fatal("want accept")
	}
	if accepts(n, "i") || accepts(n, "f") || accepts(n, "iff") {
		t.Fatal("want reject")
	}
}

func TestBuildNFAStar(t *testing.T) {
	n := mustBuild(t, "aa*.") // "a" . "a*"  => one or more a's
	for _, s := range []string{"a", "aa", "aaaa"} {
		if !accepts(n, s) {
			t.Fatalf("want accept %q", s)
		}
	}
	if accepts(n, "") || accepts(n, "ab") {
		t.Fatal("want reject")
	}
}

func TestBuildNFAUnion(t *testing.T) {
	n := mustBuild(t, "ab|") // "a" | "b"
	if !accepts(n, "a") || !accepts(n, "b") {
		t.Fatal("want accept")
	}
	if accepts(n, "ab") || accepts(n, "c") {
		t.Fatal("want reject")
	}
}

func TestBuildNFAEscape(t *testing.T) {
	n := mustBuild(t, `\.`) // literal dot, not concatenation
	if !accepts(n, ".") {
		t.Fatal("want accept literal dot")
	}
}

func TestBuildNFAWhitespaceSkipped(t *testing.T) {
	n := mustBuild(t, "a b .") // whitespace between tokens is ignored
	if !accepts(n, "ab") {
		t.Fatal("want accept")
	}
}

func TestBuildNFAStackUnderflow(t *testing.T) {
	ids := NewIDAllocator()
	if _, err := BuildNFA(ids, "."); err == nil {
		t.Fatal("want error for operator with insufficient operands")
	}
}

func TestBuildNFATrailingEscape(t *testing.T) {
	ids := NewIDAllocator()
	if _, err := BuildNFA(ids, `a\`); err == nil {
		t.Fatal("want error for trailing escape")
	}
}

func TestBuildNFALeftoverOperands(t *testing.T) {
	ids := NewIDAllocator()
	if _, err := BuildNFA(ids, "ab"); err == nil {
		t.Fatal("want error: two literals with no operator reduce to two fragments")
	}
}

func TestBuildRuleNFAStampsAcceptOnly(t *testing.T) {
	ids := NewIDAllocator()
	n, err := BuildRuleNFA(ids, Rule{Kind: "KW", Postfix: "if."})
	if err != nil {
		t.Fatal(err)
	}
	if n.Accept.TokenKind != "KW" {
		t.Fatalf("accept not stamped: %+v", n.Accept)
	}
	if n.Start.TokenKind != "" {
		t.Fatalf("start should not be stamped: %+v", n.Start)
	}
}

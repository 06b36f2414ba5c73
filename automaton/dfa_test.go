package automaton

import (
	"sort"
	"testing"
)

func buildMerged(t *testing.T, rules ...Rule) *MergedNFA {
	t.Helper()
	ids := NewIDAllocator()
	nfas := make([]*NFA, 0, len(rules))
	for _, r := range rules {
		n, err := BuildRuleNFA(ids, r)
		if err != nil {
			t.Fatalf("rule %v: %v", r, err)
		}
		nfas = append(nfas, n)
	}
	return Merge(ids, nfas)
}

func TestSubsetConstructKernelCanonicity(t *testing.T) {
	merged := buildMerged(t, Rule{Kind: "A", Postfix: "aa*."})
	dfa := SubsetConstruct(merged)

	seen := map[string]bool{}
	for _, s := range dfa.States {
		key := kernelKey(s.Kernel)
		if seen[key] {
			t.Fatalf("duplicate kernel %s: canonicity violated", key)
		}
		seen[key] = true
	}
}

func TestSubsetConstructLabelPreservation(t *testing.T) {
	merged := buildMerged(t,
		Rule{Kind: "KEYWORD", Postfix: "if."},
		Rule{Kind: "IDENTIFIER", Postfix: "if.aa*.|"},
	)
	dfa := SubsetConstruct(merged)

	current := dfa.Start
	for _, c := range "if" {
		next, ok := current.Trans[c]
		if !ok {
			t.Fatalf("missing transition on %q", c)
		}
		current = next
	}
	if !current.Accepting {
		t.Fatal("want accepting state after consuming \"if\"")
	}
	want := []string{"IDENTIFIER", "KEYWORD"}
	got := append([]string(nil), current.Kinds...)
	sort.Strings(got)
	if !equalStrings(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestSubsetConstructDeterminism(t *testing.T) {
	merged := buildMerged(t, Rule{Kind: "AB", Postfix: "ab|"})
	dfa := SubsetConstruct(merged)

	for _, s := range dfa.States {
		for c, to := range s.Trans {
			if to == nil {
				t.Fatalf("state %d has nil transition on %q", s.ID, c)
			}
		}
	}
}

func TestEmptyMergeProducesEmptyLanguage(t *testing.T) {
	merged := Merge(NewIDAllocator(), nil)
	dfa := SubsetConstruct(merged)
	if dfa.Start.Accepting {
		t.Fatal("empty merge should not accept anything")
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

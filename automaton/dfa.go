package automaton

import (
	"sort"
	"strconv"
	"strings"
)

// DFAState holds the canonical, immutable kernel (the set of NFA states it
// represents) plus a total-or-partial transition table. Accepting and Kinds
// are derived from the kernel and never diverge from it.
type DFAState struct {
	ID        int
	Kernel    []*NFAState // sorted by NFAState.ID; for debugging/visualization
	Trans     map[rune]*DFAState
	Accepting bool
	Kinds     []string // sorted, deduplicated union of kernel token kinds
}

// DFA is a start state, the set of all states, and (implicitly) the
// alphabet, derivable by scanning Trans maps.
type DFA struct {
	Start  *DFAState
	States []*DFAState
	Sink   *DFAState // set only after minimize+complete; nil on a raw DFA
}

// Alphabet returns the set of symbols appearing on some state's transition
// table, sorted for determinism.
func (d *DFA) Alphabet() []rune {
	set := map[rune]struct{}{}
	for _, s := range d.States {
		for c := range s.Trans {
			set[c] = struct{}{}
		}
	}
	return sortedRunes(set)
}

func sortedRunes(set map[rune]struct{}) []rune {
	out := make([]rune, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// epsilonClosure computes the smallest superset of a frontier of NFA states
// closed under epsilon edges, via a depth-first frontier walk.
func epsilonClosure(frontier []*NFAState) map[int]*NFAState {
	closure := make(map[int]*NFAState, len(frontier))
	stack := append([]*NFAState(nil), frontier...)
	for _, s := range frontier {
		closure[s.ID] = s
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range s.Eps {
			if _, ok := closure[next.ID]; !ok {
				closure[next.ID] = next
				stack = append(stack, next)
			}
		}
	}
	return closure
}

// move returns the union of non-epsilon successors under symbol c over every
// state in the set.
func move(set map[int]*NFAState, c rune) []*NFAState {
	seen := map[int]*NFAState{}
	for _, s := range set {
		for _, to := range s.Trans[c] {
			seen[to.ID] = to
		}
	}
	out := make([]*NFAState, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	return out
}

// kernelOf turns a closure set into a kernel sorted by NFA state id — the
// canonical form used both for display and as the uniqueness key.
func kernelOf(set map[int]*NFAState) []*NFAState {
	out := make([]*NFAState, 0, len(set))
	for _, s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func kernelKey(kernel []*NFAState) string {
	var b strings.Builder
	for i, s := range kernel {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(s.ID))
	}
	return b.String()
}

func labelsOf(kernel []*NFAState) (accepting bool, kinds []string) {
	set := map[string]struct{}{}
	for _, s := range kernel {
		if s.TokenKind != "" {
			set[s.TokenKind] = struct{}{}
		}
	}
	if len(set) == 0 {
		return false, nil
	}
	kinds = make([]string, 0, len(set))
	for k := range set {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return true, kinds
}

// SubsetConstruct builds a DFA from a merged NFA via subset construction.
// Two DFA states with equal kernels are never both created: the canonical
// map below, keyed by the sorted kernel, enforces that invariant.
func SubsetConstruct(merged *MergedNFA) *DFA {
	alphaSet := map[rune]struct{}{}
	collectAlphabet(merged.Start, map[int]bool{}, alphaSet)
	alphabet := sortedRunes(alphaSet)

	canonical := map[string]*DFAState{}
	ids := NewIDAllocator()

	newDFAState := func(kernel []*NFAState) *DFAState {
		accepting, kinds := labelsOf(kernel)
		return &DFAState{
			ID:        ids.Alloc(),
			Kernel:    kernel,
			Trans:     make(map[rune]*DFAState),
			Accepting: accepting,
			Kinds:     kinds,
		}
	}

	startClosure := epsilonClosure([]*NFAState{merged.Start})
	startKernel := kernelOf(startClosure)
	start := newDFAState(startKernel)
	canonical[kernelKey(startKernel)] = start

	states := []*DFAState{start}
	worklist := []*DFAState{start}
	closures := map[*DFAState]map[int]*NFAState{start: startClosure}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		curClosure := closures[cur]

		for _, c := range alphabet {
			moved := move(curClosure, c)
			if len(moved) == 0 {
				continue
			}
			nextClosure := epsilonClosure(moved)
			nextKernel := kernelOf(nextClosure)
			key := kernelKey(nextKernel)

			next, exists := canonical[key]
			if !exists {
				next = newDFAState(nextKernel)
				canonical[key] = next
				states = append(states, next)
				worklist = append(worklist, next)
				closures[next] = nextClosure
			}
			cur.Trans[c] = next
		}
	}

	return &DFA{Start: start, States: states}
}

// collectAlphabet walks every state reachable from start, following both
// transition kinds, and records every symbol on a non-epsilon edge.
func collectAlphabet(s *NFAState, visited map[int]bool, out map[rune]struct{}) {
	if visited[s.ID] {
		return
	}
	visited[s.ID] = true
	for c, tos := range s.Trans {
		out[c] = struct{}{}
		for _, to := range tos {
			collectAlphabet(to, visited, out)
		}
	}
	for _, to := range s.Eps {
		collectAlphabet(to, visited, out)
	}
}

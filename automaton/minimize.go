package automaton

import (
	"sort"
	"strings"
)

// Minimize reduces a subset-constructed DFA to its minimal equivalent via
// reachability pruning, liveness pruning, Hopcroft-style partition
// refinement, and finally sink completion. The input DFA's states are never
// mutated; a new DFA is always returned.
func Minimize(dfa *DFA) *DFA {
	reachable := reachableStates(dfa)
	live, liveSet := liveStates(reachable)

	if !liveSet[dfa.Start] {
		return sinkOnlyDFA(dfa.Alphabet())
	}

	blocks := initialPartitions(live)
	blocks = refinePartitions(blocks, liveSet)
	minimized := buildMinimizedDFA(dfa, blocks)
	return completeWithSink(minimized, dfa.Alphabet())
}

// sinkOnlyDFA is the deterministic result when no input can ever reach an
// accepting state: a single non-accepting state that absorbs everything.
func sinkOnlyDFA(alphabet []rune) *DFA {
	sink := &DFAState{ID: 0, Trans: make(map[rune]*DFAState)}
	for _, c := range alphabet {
		sink.Trans[c] = sink
	}
	return &DFA{Start: sink, States: []*DFAState{sink}, Sink: sink}
}

// reachableStates does a BFS from start over forward transitions.
func reachableStates(dfa *DFA) []*DFAState {
	visited := map[*DFAState]bool{dfa.Start: true}
	queue := []*DFAState{dfa.Start}
	order := []*DFAState{dfa.Start}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, to := range s.Trans {
			if !visited[to] {
				visited[to] = true
				queue = append(queue, to)
				order = append(order, to)
			}
		}
	}
	return order
}

// liveStates builds reverse adjacency over the reached subgraph and seeds a
// BFS from every accepting state; a state is live iff it can reach some
// accepting state.
func liveStates(reachable []*DFAState) ([]*DFAState, map[*DFAState]bool) {
	inReachable := map[*DFAState]bool{}
	for _, s := range reachable {
		inReachable[s] = true
	}

	reverse := map[*DFAState][]*DFAState{}
	for _, s := range reachable {
		for _, to := range s.Trans {
			if inReachable[to] {
				reverse[to] = append(reverse[to], s)
			}
		}
	}

	live := map[*DFAState]bool{}
	var queue []*DFAState
	for _, s := range reachable {
		if s.Accepting {
			live[s] = true
			queue = append(queue, s)
		}
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, pred := range reverse[s] {
			if !live[pred] {
				live[pred] = true
				queue = append(queue, pred)
			}
		}
	}

	order := make([]*DFAState, 0, len(live))
	for _, s := range reachable {
		if live[s] {
			order = append(order, s)
		}
	}
	return order, live
}

type block map[*DFAState]bool

func newBlock(states ...*DFAState) block {
	b := make(block, len(states))
	for _, s := range states {
		b[s] = true
	}
	return b
}

// initialPartitions groups non-accepting live states into one block, and
// buckets accepting states by the exact set of their token kinds: two
// accepting states start out equivalent only if they accept the same set of
// rules. Losing this collapses distinct rules together.
func initialPartitions(live []*DFAState) []block {
	byKinds := map[string]block{}
	var nonAccepting block
	for _, s := range live {
		if !s.Accepting {
			if nonAccepting == nil {
				nonAccepting = block{}
			}
			nonAccepting[s] = true
			continue
		}
		key := strings.Join(s.Kinds, "\x00")
		b, ok := byKinds[key]
		if !ok {
			b = block{}
			byKinds[key] = b
		}
		b[s] = true
	}

	var blocks []block
	// stable order: accepting blocks first by key, then non-accepting.
	keys := make([]string, 0, len(byKinds))
	for k := range byKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		blocks = append(blocks, byKinds[k])
	}
	if len(nonAccepting) > 0 {
		blocks = append(blocks, nonAccepting)
	}
	return blocks
}

// refinePartitions implements the Hopcroft-style worklist refinement from
// spec 4.D: pop a block A, and for each symbol split every block whose
// states disagree on whether they transition into A.
func refinePartitions(blocks []block, liveSet map[*DFAState]bool) []block {
	worklist := append([]int(nil), indices(len(blocks))...)
	pending := map[int]bool{}
	for _, i := range worklist {
		pending[i] = true
	}

	for len(worklist) > 0 {
		idx := worklist[0]
		worklist = worklist[1:]
		pending[idx] = false
		if idx >= len(blocks) {
			continue
		}
		a := blocks[idx]

		for _, c := range alphabetOf(liveSet) {
			x := block{}
			for s := range liveSet {
				if to, ok := s.Trans[c]; ok && a[to] {
					x[s] = true
				}
			}
			if len(x) == 0 {
				continue
			}

			for yi := 0; yi < len(blocks); yi++ {
				y := blocks[yi]
				inter, diff := block{}, block{}
				for s := range y {
					if x[s] {
						inter[s] = true
					} else {
						diff[s] = true
					}
				}
				if len(inter) == 0 || len(diff) == 0 {
					continue
				}
				blocks[yi] = inter
				blocks = append(blocks, diff)
				newIdx := len(blocks) - 1
				switch {
				case pending[yi]:
					worklist = append(worklist, newIdx)
					pending[newIdx] = true
				case len(inter) <= len(diff):
					worklist = append(worklist, yi)
					pending[yi] = true
				default:
					worklist = append(worklist, newIdx)
					pending[newIdx] = true
				}
			}
		}
	}
	return blocks
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func alphabetOf(liveSet map[*DFAState]bool) []rune {
	set := map[rune]struct{}{}
	for s := range liveSet {
		for c := range s.Trans {
			set[c] = struct{}{}
		}
	}
	return sortedRunes(set)
}

// buildMinimizedDFA creates one new state per block. A block's
// representative determines its transitions and token kinds — well-defined
// because block equivalence implies every representative transitions into
// the same block per symbol, and every representative in an accepting block
// carries the same kind set by initial-partition construction.
func buildMinimizedDFA(dfa *DFA, blocks []block) *DFA {
	blockOf := map[*DFAState]int{}
	for bi, b := range blocks {
		for s := range b {
			blockOf[s] = bi
		}
	}

	newStates := make([]*DFAState, len(blocks))
	ids := NewIDAllocator()
	for bi, b := range blocks {
		rep := representative(b)
		kernel := unionKernels(b)
		newStates[bi] = &DFAState{
			ID:        ids.Alloc(),
			Kernel:    kernel,
			Trans:     make(map[rune]*DFAState),
			Accepting: rep.Accepting,
			Kinds:     rep.Kinds,
		}
	}

	for bi, b := range blocks {
		rep := representative(b)
		for c, to := range rep.Trans {
			if targetBlock, ok := blockOf[to]; ok {
				newStates[bi].Trans[c] = newStates[targetBlock]
			}
		}
	}

	return &DFA{Start: newStates[blockOf[dfa.Start]], States: newStates}
}

func representative(b block) *DFAState {
	for s := range b {
		return s
	}
	return nil
}

func unionKernels(b block) []*NFAState {
	seen := map[int]*NFAState{}
	for s := range b {
		for _, n := range s.Kernel {
			seen[n.ID] = n
		}
	}
	out := make([]*NFAState, 0, len(seen))
	for _, n := range seen {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// completeWithSink adds one fresh non-accepting sink state with self-loops
// on every symbol of alphabet, and redirects every missing (state, symbol)
// transition to it. The sink is never accepting and never loops back into
// an accepting state.
func completeWithSink(dfa *DFA, alphabet []rune) *DFA {
	sink := &DFAState{ID: nextStateID(dfa.States), Trans: make(map[rune]*DFAState)}
	for _, c := range alphabet {
		sink.Trans[c] = sink
	}
	for _, s := range dfa.States {
		for _, c := range alphabet {
			if _, ok := s.Trans[c]; !ok {
				s.Trans[c] = sink
			}
		}
	}
	dfa.States = append(dfa.States, sink)
	dfa.Sink = sink
	return dfa
}

func nextStateID(states []*DFAState) int {
	max := -1
	for _, s := range states {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}

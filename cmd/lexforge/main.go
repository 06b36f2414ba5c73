// Command lexforge wires a rule file through the automaton pipeline —
// NFA build, merge, subset construction, minimization — and scans one or
// more input files against the resulting DFA.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"

	"lexforge/automaton"
	"lexforge/diag"
	"lexforge/dotgraph"
	"lexforge/ruleset"
)

func main() {
	rulesPath := flag.String("rules", "", "rule file (required)")
	dotNFA := flag.String("dot-nfa", "", "write the merged NFA as a .dot file")
	dotRawDFA := flag.String("dot-rawdfa", "", "write the pre-minimization DFA as a .dot file")
	dotDFA := flag.String("dot-dfa", "", "write the minimized DFA as a .dot file")
	interactive := flag.Bool("i", false, "start an interactive REPL instead of batch-scanning files")
	flag.Parse()

	if *rulesPath == "" {
		fmt.Fprintln(os.Stderr, "usage: lexforge -rules <file> [-dot-nfa f] [-dot-rawdfa f] [-dot-dfa f] [-i] [input...]")
		os.Exit(2)
	}

	sink := diag.Writer{W: os.Stderr}

	rules, err := ruleset.LoadRulesFile(*rulesPath, sink)
	if err != nil {
		log.Fatal(err)
	}

	ids := automaton.NewIDAllocator()
	nfas := make([]*automaton.NFA, 0, len(rules))
	for _, r := range rules {
		n, err := automaton.BuildRuleNFA(ids, r)
		if err != nil {
			sink.Report(diag.Diagnostic{Stage: "nfa-builder", Message: "rule " + r.Kind + ": " + err.Error()})
			continue
		}
		nfas = append(nfas, n)
	}
	merged := automaton.Merge(ids, nfas)

	if *dotNFA != "" {
		writeDotFile(*dotNFA, func(f *os.File) { dotgraph.WriteNFA(f, merged.Start) })
	}

	raw := automaton.SubsetConstruct(merged)
	if *dotRawDFA != "" {
		writeDotFile(*dotRawDFA, func(f *os.File) { dotgraph.WriteDFA(f, raw) })
	}

	dfa := automaton.Minimize(raw)
	if *dotDFA != "" {
		writeDotFile(*dotDFA, func(f *os.File) { dotgraph.WriteDFA(f, dfa) })
	}

	if *interactive {
		runREPL(&pipeline{nfa: merged, raw: raw, dfa: dfa}, sink)
		return
	}

	inputFiles := flag.Args()
	if len(inputFiles) == 0 {
		fmt.Fprintln(os.Stderr, "no input files given; nothing to scan")
		return
	}
	scanFiles(dfa, inputFiles, sink)
}

func writeDotFile(path string, write func(*os.File)) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("cannot create %s: %v", path, err)
	}
	defer f.Close()
	write(f)
}

// scanFiles demonstrates spec §5's sharing guarantee: every goroutine reads
// the same completed DFA through its own local scan cursor, no locking
// required because the DFA is immutable once minimization returns it.
func scanFiles(dfa *automaton.DFA, paths []string, sink diag.Sink) {
	results := make([][]automaton.Token, len(paths))
	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			data, err := os.ReadFile(path)
			if err != nil {
				sink.Report(diag.Diagnostic{Stage: "cli", Message: err.Error()})
				return
			}
			results[i] = automaton.Scan(dfa, string(data), sink)
		}(i, path)
	}
	wg.Wait()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for i, path := range paths {
		fmt.Fprintf(out, "%s:\n", path)
		for _, tok := range results[i] {
			fmt.Fprintf(out, "  %q %v\n", tok.Lexeme, tok.Kinds)
		}
	}
}

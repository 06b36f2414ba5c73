package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"lexforge/automaton"
	"lexforge/diag"
	"lexforge/dotgraph"
	"lexforge/ruleset"
)

// Command is the REPL's grammar, built the same way the teacher's robot-DSL
// grammar was: one struct per alternative, captured through participle
// struct tags, over a single "@@ | @@ | ..." dispatch.
type Command struct {
	Load *LoadCmd `parser:"@@"`
	Scan *ScanCmd `parser:"| @@"`
	Dot  *DotCmd  `parser:"| @@"`
	Quit *QuitCmd `parser:"| @@"`
}

type LoadCmd struct {
	Path string `parser:"'load' @String"`
}

type ScanCmd struct {
	Text string `parser:"'scan' @String"`
}

// DotCmd's Stage selects which pipeline artifact to export: the merged NFA
// (pre-determinization), the raw subset-constructed DFA (pre-minimization),
// or the minimized DFA currently in effect.
type DotCmd struct {
	Stage string `parser:"'dot' @('nfa' | 'dfa' | 'rawdfa')"`
	Path  string `parser:"@String"`
}

type QuitCmd struct {
	Keyword string `parser:"'quit'"`
}

var replParser = participle.MustBuild[Command]()

// pipeline holds every stage produced by the last compile, so the REPL's
// "dot" command can export any of them without recompiling.
type pipeline struct {
	nfa *automaton.MergedNFA
	raw *automaton.DFA
	dfa *automaton.DFA
}

// runREPL drives an interactive session over the pipeline already compiled
// in main: load re-runs the whole pipeline against a new rule file, scan
// tokenizes a line of text against the current minimized DFA, dot exports
// the requested stage, quit exits.
func runREPL(p *pipeline, sink diag.Sink) {
	rdr := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("lexforge> ")
		if !rdr.Scan() {
			return
		}
		line := rdr.Text()
		if line == "" {
			continue
		}

		cmd, err := replParser.ParseString("repl", line)
		if err != nil {
			fmt.Println("error:", err)
			continue
		}

		switch {
		case cmd.Load != nil:
			newPipeline, err := compileFromFile(cmd.Load.Path, sink)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			p = newPipeline
			fmt.Println("loaded", cmd.Load.Path)

		case cmd.Scan != nil:
			for _, tok := range automaton.Scan(p.dfa, cmd.Scan.Text, sink) {
				fmt.Printf("  %q %v\n", tok.Lexeme, tok.Kinds)
			}

		case cmd.Dot != nil:
			if err := writeGraph(p, cmd.Dot.Stage, cmd.Dot.Path); err != nil {
				fmt.Println("error:", err)
			}

		case cmd.Quit != nil:
			return
		}
	}
}

func writeGraph(p *pipeline, stage, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch stage {
	case "nfa":
		dotgraph.WriteNFA(f, p.nfa.Start)
	case "rawdfa":
		dotgraph.WriteDFA(f, p.raw)
	case "dfa":
		dotgraph.WriteDFA(f, p.dfa)
	}
	return nil
}

// compileFromFile runs every stage of the pipeline explicitly, rather than
// through automaton.Compile, so the REPL retains the merged NFA and the raw
// (pre-minimization) DFA for "dot nfa"/"dot rawdfa" alongside the minimized
// DFA "dot dfa" and "scan" use.
func compileFromFile(path string, sink diag.Sink) (*pipeline, error) {
	rules, err := ruleset.LoadRulesFile(path, sink)
	if err != nil {
		return nil, err
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
	raw := automaton.SubsetConstruct(merged)
	dfa := automaton.Minimize(raw)
	return &pipeline{nfa: merged, raw: raw, dfa: dfa}, nil
}

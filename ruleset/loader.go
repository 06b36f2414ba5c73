// Package ruleset loads token rules from the line-oriented rule-file format
// described in spec §6. It is an external collaborator: the automaton core
// never parses a rule file itself, only the Rule values this package
// produces.
package ruleset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"lexforge/automaton"
	"lexforge/diag"
)

// LoadRules parses rules from r. Blank lines and lines whose first
// non-whitespace character is '#' are ignored. Each remaining line is split
// on the first run of whitespace into a token name and a postfix regex; the
// regex may itself contain whitespace, which BuildNFA skips. Duplicate
// token names across lines are allowed — they become alternative rules for
// the same kind. Malformed lines (fewer than two fields) are reported to
// sink and skipped; processing continues.
func LoadRules(r io.Reader, sink diag.Sink) []automaton.Rule {
	var rules []automaton.Rule
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		name, regex, ok := splitFirstWhitespace(trimmed)
		if !ok {
			sink.Report(diag.Diagnostic{
				Stage:   "rule-loader",
				Message: fmt.Sprintf("line %d: malformed rule %q", lineNo, line),
			})
			continue
		}
		rules = append(rules, automaton.Rule{Kind: name, Postfix: regex})
	}

	return rules
}

// splitFirstWhitespace splits s on the first run of whitespace into two
// fields. ok is false when s has fewer than two fields.
func splitFirstWhitespace(s string) (first, rest string, ok bool) {
	i := strings.IndexFunc(s, isSpace)
	if i < 0 {
		return "", "", false
	}
	first = s[:i]
	j := i
	for j < len(s) && isSpace(rune(s[j])) {
		j++
	}
	rest = s[j:]
	if first == "" || rest == "" {
		return "", "", false
	}
	return first, rest, true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n' || r == '\v' || r == '\f'
}

// LoadRulesFile reads and parses the rule file at path. This is the only
// place in the package a filesystem path is resolved, per spec §9's open
// question about hard-coded paths: callers always supply the path.
func LoadRulesFile(path string, sink diag.Sink) ([]automaton.Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule file %s: %w", path, err)
	}
	defer f.Close()
	return LoadRules(f, sink), nil
}

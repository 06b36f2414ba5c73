package automaton

import (
	"fmt"
	"unicode"

	"lexforge/diag"
)

// Scan tokenizes input against a completed DFA using longest-match
// (maximal-munch) scanning. Whitespace between tokens is an inter-token
// separator and never part of any lexeme. Unrecognized characters are
// reported to sink and skipped one at a time, so the scanner always makes
// progress.
func Scan(dfa *DFA, input string, sink diag.Sink) []Token {
	var tokens []Token
	runes := []rune(input)
	index := 0

	for index < len(runes) {
		if unicode.IsSpace(runes[index]) {
			index++
			continue
		}

		current := dfa.Start
		lastAccept := -1
		var lastKinds []string
		i := index

		for i < len(runes) {
			c := runes[i]
			next, ok := current.Trans[c]
			if !ok || next == dfa.Sink {
				break
			}
			current = next
			if current.Accepting {
				lastAccept = i
				lastKinds = current.Kinds
			}
			i++
		}

		if lastAccept >= index {
			lexeme := string(runes[index : lastAccept+1])
			tokens = append(tokens, Token{Lexeme: lexeme, Kinds: lastKinds})
			index = lastAccept + 1
		} else {
			sink.Report(diag.Diagnostic{
				Stage:   fmt.Sprintf("Lexer error at index %d", index),
				Message: fmt.Sprintf("unexpected character %q", runes[index]),
			})
			index++
		}
	}
	return tokens
}

package cssom

import (
	"errors"
	"fmt"

	"github.com/gorilla/css/scanner"
)

// ErrNoClassIdentifier is returned if a selector does not contain a
// class-like identifier.
var ErrNoClassIdentifier = errors.New("selector has no class identifier")

// ClassIdentifier extracts the first class name of a selector, i.e. the
// first identifier directly preceded by a dot.
//
//	ClassIdentifier(".l-a:hover > span")   // "l-a"
//	ClassIdentifier("div.x .y")            // "x"
func ClassIdentifier(selector string) (string, error) {
	s := scanner.New(selector)
	dot := false
	for {
		token := s.Next()
		switch token.Type {
		case scanner.TokenEOF:
			return "", fmt.Errorf("%q: %w", selector, ErrNoClassIdentifier)
		case scanner.TokenError:
			tracer().Debugf("cssom: cannot tokenize selector %q: %s", selector, token.Value)
			return "", fmt.Errorf("%q: %w", selector, ErrNoClassIdentifier)
		case scanner.TokenIdent:
			if dot {
				return token.Value, nil
			}
		}
		dot = token.Type == scanner.TokenChar && token.Value == "."
	}
}

package cssom

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned if a rule index does not address a rule
// of a stylesheet.
var ErrIndexOutOfRange = errors.New("rule index out of range")

// RuleKind classifies CSS rules.
type RuleKind uint8

// Kinds of rules we distinguish.
const (
	StyleRule    RuleKind = iota // a selector with a declaration block
	GroupingRule                 // a conditional group, e.g. @media, holding nested rules
	OtherRule                    // any other at-rule, e.g. @font-face
)

func (k RuleKind) String() string {
	switch k {
	case StyleRule:
		return "style"
	case GroupingRule:
		return "group"
	}
	return "at-rule"
}

// StyleSheet is an interface to abstract away a live stylesheet-implementation.
// In a live document, a stylesheet is a list of rules which may be modified
// in place. Deleting a rule at index i shifts all subsequent rules down by
// one, as with the W3C CSSOM.
//
// Clients for the reconciliation engine will have to provide a concrete
// implementation of this interface (e.g., see package douceuradapter).
//
// See interface Rule.
type StyleSheet interface {
	Length() int          // number of rules in this list
	Item(int) Rule        // rule at index, or nil
	DeleteRule(int) error // remove rule at index from the live list
}

// Rule is the type stylesheets consists of.
//
// See interface StyleSheet.
type Rule interface {
	Kind() RuleKind   // style rule, grouping rule or other at-rule
	Selector() string // the prelude / selectors of the rule
	CSSText() string  // serialized rule
}

// Grouping is implemented by rules of kind GroupingRule.
type Grouping interface {
	Rule
	CSSRules() StyleSheet // live list of nested rules
}

// CheckIndex returns a wrapped ErrIndexOutOfRange if inx does not address
// one of n rules.
func CheckIndex(inx, n int) error {
	if inx < 0 || inx >= n {
		return fmt.Errorf("cannot address rule #%d of %d: %w", inx, n, ErrIndexOutOfRange)
	}
	return nil
}

// Rules returns a snapshot of all the rules of a stylesheet.
func Rules(sheet StyleSheet) []Rule {
	if sheet == nil {
		return nil
	}
	rules := make([]Rule, sheet.Length())
	for i := range rules {
		rules[i] = sheet.Item(i)
	}
	return rules
}

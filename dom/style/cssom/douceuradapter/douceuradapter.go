/*
Package douceuradapter is a concrete implementation of interface cssom.StyleSheet.

douceur nests rules only inside @media, @supports and @document. These are
the conditional groups the live stylesheet exposes. Text containing other
block at-rules, e.g. @layer or @container, is parsed rule by rule; rules
douceur cannot parse are dropped, their siblings are kept.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package douceuradapter

import (
	"fmt"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/styleset/dom/style/cssom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'styleset.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("styleset.cssom")
}

// CSSStyles is an adapter for interface cssom.StyleSheet.
// For an explanation of the motivation behind this design, please refer
// to documentation for interface cssom.StyleSheet.
type CSSStyles struct {
	css *css.Stylesheet
}

// Wrap a douceur.css.Stylesheet into CSSStyles.
// The stylesheet is now managed by the wrapper; deleting rules through the
// wrapper modifies it.
func Wrap(css *css.Stylesheet) *CSSStyles {
	return &CSSStyles{css: css}
}

// Parse parses CSS text into a live stylesheet.
func Parse(text string) (*CSSStyles, error) {
	sheet, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("cannot parse stylesheet: %w", err)
	}
	return Wrap(sheet), nil
}

// Length returns the number of top-level rules.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Length() int {
	return len(sheet.css.Rules)
}

// Item returns the rule at index inx, or nil.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) Item(inx int) cssom.Rule {
	return item(sheet.css.Rules, inx)
}

// DeleteRule removes the rule at index inx.
//
// Interface cssom.StyleSheet
func (sheet *CSSStyles) DeleteRule(inx int) error {
	return deleteRule(&sheet.css.Rules, inx)
}

func (sheet *CSSStyles) String() string {
	return sheet.css.String()
}

var _ cssom.StyleSheet = &CSSStyles{}

// Rule is an adapter for interface cssom.Rule.
// Rules of kind cssom.GroupingRule implement cssom.Grouping as well.
type Rule struct {
	r *css.Rule
}

// Kind classifies the rule.
func (r Rule) Kind() cssom.RuleKind {
	if r.r.Kind == css.QualifiedRule {
		return cssom.StyleRule
	}
	if isGroupingAtRule(r.r.Name) {
		return cssom.GroupingRule
	}
	return cssom.OtherRule
}

// Selector returns the selectors of a style rule, normalized to a
// comma-and-space separated list, or the prelude of an at-rule.
func (r Rule) Selector() string {
	if r.r.Kind != css.QualifiedRule || len(r.r.Selectors) == 0 {
		return strings.TrimSpace(r.r.Prelude)
	}
	sels := make([]string, len(r.r.Selectors))
	for i, sel := range r.r.Selectors {
		sels[i] = strings.Join(strings.Fields(sel), " ")
	}
	return strings.Join(sels, ", ")
}

// CSSText returns the serialized rule.
func (r Rule) CSSText() string {
	return r.r.String()
}

// CSSRules returns the live list of nested rules of a grouping rule.
//
// Interface cssom.Grouping
func (r Rule) CSSRules() cssom.StyleSheet {
	return nested{r.r}
}

var _ cssom.Grouping = Rule{}

// nested is the live rule list of a conditional group.
type nested struct {
	parent *css.Rule
}

func (n nested) Length() int {
	return len(n.parent.Rules)
}

func (n nested) Item(inx int) cssom.Rule {
	return item(n.parent.Rules, inx)
}

func (n nested) DeleteRule(inx int) error {
	return deleteRule(&n.parent.Rules, inx)
}

func item(rules []*css.Rule, inx int) cssom.Rule {
	if cssom.CheckIndex(inx, len(rules)) != nil {
		return nil
	}
	return Rule{rules[inx]}
}

func deleteRule(rules *[]*css.Rule, inx int) error {
	if err := cssom.CheckIndex(inx, len(*rules)); err != nil {
		return err
	}
	rs := *rules
	copy(rs[inx:], rs[inx+1:])
	rs[len(rs)-1] = nil
	*rules = rs[:len(rs)-1]
	return nil
}

// Only conditional groups count as grouping rules. Nested rules of e.g.
// @keyframes are not keyed by selectors. douceur nests rules only for
// @media, @supports and @document.
func isGroupingAtRule(name string) bool {
	switch strings.ToLower(name) {
	case "@media", "@supports", "@document":
		return true
	}
	return false
}

// ExtractStyleElements visits <head> and <body> elements in an HTML parse
// tree and searches for embedded <style>s. It returns the style elements
// in document order.
func ExtractStyleElements(htmldoc *html.Node) []*html.Node {
	head := findElement(atom.Head, htmldoc)
	body := findElement(atom.Body, htmldoc)
	return append(extractStyles(head), extractStyles(body)...)
}

// StyleText returns the text content of a <style> element.
func StyleText(style *html.Node) string {
	var sb strings.Builder
	for ch := style.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode {
			sb.WriteString(ch.Data)
		}
	}
	return sb.String()
}

// ParseStyleElement parses the content of a <style> element. If the content
// cannot be parsed as a whole, every top-level rule is parsed on its own and
// rules which fail to parse are dropped, as browsers drop invalid rules.
func ParseStyleElement(style *html.Node) *CSSStyles {
	text := StyleText(style)
	sheet, err := Parse(text)
	if err == nil {
		return sheet
	}
	tracer().Errorf("douceur: %v; parsing rule by rule", err)
	sheet = Wrap(css.NewStylesheet())
	for _, block := range splitTopLevel(text) {
		part, err := parser.Parse(block)
		if err != nil {
			tracer().Errorf("douceur: dropping rule %q: %v", block, err)
			continue
		}
		sheet.css.Rules = append(sheet.css.Rules, part.Rules...)
	}
	return sheet
}

// splitTopLevel splits CSS text into top-level rules: blocks ending with a
// closing brace at nesting depth 0, or statements ending with a semicolon
// at depth 0.
func splitTopLevel(text string) []string {
	var blocks []string
	var sb strings.Builder
	depth := 0
	flush := func() {
		if b := strings.TrimSpace(sb.String()); b != "" {
			blocks = append(blocks, b)
		}
		sb.Reset()
	}
	s := scanner.New(text)
	for {
		token := s.Next()
		if token.Type == scanner.TokenEOF || token.Type == scanner.TokenError {
			break
		}
		sb.WriteString(token.Value)
		if token.Type != scanner.TokenChar {
			continue
		}
		switch token.Value {
		case "{":
			depth++
		case "}":
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				flush()
			}
		case ";":
			if depth == 0 {
				flush()
			}
		}
	}
	flush()
	return blocks
}

func extractStyles(h *html.Node) []*html.Node {
	if h == nil {
		return nil
	}
	var styles []*html.Node
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.DataAtom == atom.Style {
			styles = append(styles, ch)
		}
	}
	return styles
}

// FindElement searches depth-first for the first element of type a.
func FindElement(a atom.Atom, h *html.Node) *html.Node {
	return findElement(a, h)
}

func findElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.DataAtom == a {
		return h
	}
	ch := h.FirstChild
	for ch != nil {
		r := findElement(a, ch)
		if r != nil && r.DataAtom == a {
			return r
		}
		ch = ch.NextSibling
	}
	return nil
}

/*
Package domdbg implements helpers to debug the styles of a live document.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package domdbg

import (
	"fmt"
	"strings"

	"github.com/npillmayer/styleset/dom"
	"github.com/npillmayer/styleset/dom/style/cssom"
	"github.com/npillmayer/styleset/precedence"
	tp "github.com/xlab/treeprint"
)

// Dump outputs the style elements of a document's head as a tree.
// Every style element is listed with its precedence tag and identifier,
// followed by its rules. Nested rules of conditional groups are shown
// below their group.
//
//	.
//	└── <head>
//	    ├── style rsh-low #1x2y3z
//	    │   └── .l-a
//	    └── style (unparsed)
func Dump(doc *dom.Document) string {
	tree := tp.New()
	head := tree.AddBranch("<head>")
	for _, s := range doc.StyleElements() {
		branch := head.AddBranch(label(s))
		if !s.Parsed() {
			continue
		}
		addRules(branch, s.Sheet())
	}
	return tree.String()
}

// DumpSheet outputs the rules of a stylesheet as a tree.
func DumpSheet(sheet cssom.StyleSheet) string {
	tree := tp.New()
	addRules(tree.AddBranch(fmt.Sprintf("sheet (%d rules)", sheet.Length())), sheet)
	return tree.String()
}

func addRules(branch tp.Tree, sheet cssom.StyleSheet) {
	for _, rule := range cssom.Rules(sheet) {
		switch rule.Kind() {
		case cssom.GroupingRule:
			group := branch.AddBranch(groupLabel(rule))
			if g, ok := rule.(cssom.Grouping); ok {
				addRules(group, g.CSSRules())
			}
		case cssom.StyleRule:
			branch.AddNode(rule.Selector())
		default:
			branch.AddNode(shortText(rule.CSSText()))
		}
	}
}

func label(s *dom.Node) string {
	var sb strings.Builder
	sb.WriteString("style")
	if tag, ok := s.GetAttribute(precedence.TagAttribute); ok {
		sb.WriteString(" " + tag)
	}
	if id, ok := s.GetAttribute(precedence.IDAttribute); ok {
		sb.WriteString(" #" + id)
	}
	if !s.Parsed() {
		sb.WriteString(" (unparsed)")
	}
	return sb.String()
}

// groupLabel returns the at-keyword and prelude of a grouping rule.
func groupLabel(rule cssom.Rule) string {
	text := rule.CSSText()
	if i := strings.IndexByte(text, '{'); i > 0 {
		text = text[:i]
	}
	return shortText(text)
}

func shortText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 30 {
		return s[:30] + "..."
	}
	return s
}

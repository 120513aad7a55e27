/*
Package w3cdom defines interface types for the parts of a W3C Document
Object Model a live style reconciler consumes.

See also https://www.w3schools.com/XML/dom_intro.asp and
https://developer.mozilla.org/en-US/docs/Web/API/MutationObserver

# Status

Early draft—API may change frequently. Please stay patient.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package w3cdom

import (
	"github.com/npillmayer/styleset/dom/style/cssom"
	"golang.org/x/net/html"
)

// Node represents W3C-type Node
type Node interface {
	NodeType() html.NodeType                // type of the underlying HTML node (ElementNode, TextNode, etc.)
	NodeName() string                       // node name output depends on the node's type
	HTMLNode() *html.Node                   // underlying node of the HTML parse tree
	GetAttribute(key string) (string, bool) // attribute value, if present
}

// StyleElement represents an element owning a stylesheet, i.e. <style>.
type StyleElement interface {
	Node
	Sheet() cssom.StyleSheet // parsed live stylesheet, or nil if not yet parsed
}

// MutationRecord describes a single child-list mutation: nodes have been
// inserted as children of Target.
type MutationRecord struct {
	Target     Node
	AddedNodes []Node
}

// MutationCallback receives a batch of mutation records, in document order
// of occurrence.
type MutationCallback func([]MutationRecord)

// MutationObserver is a source of mutation notifications. Observe subscribes
// to child insertions anywhere in the subtree under root. Calling the
// returned function ends the subscription.
type MutationObserver interface {
	Observe(root Node, callback MutationCallback) (disconnect func())
}

// Document is the part of a live document a reconciler needs: its head,
// CSS-selector queries, and mutation notifications.
type Document interface {
	MutationObserver
	Head() Node
	QuerySelectorAll(selector string) ([]Node, error)
}

// AsStyleElement returns n as a StyleElement if n is an element owning a
// stylesheet.
func AsStyleElement(n Node) (StyleElement, bool) {
	if n == nil || n.NodeType() != html.ElementNode {
		return nil, false
	}
	s, ok := n.(StyleElement)
	return s, ok
}

package dom

import (
	"github.com/npillmayer/styleset/dom/style/cssom"
	"github.com/npillmayer/styleset/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/styleset/dom/w3cdom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is a node of a live document. Nodes for <style> elements implement
// w3cdom.StyleElement.
type Node struct {
	h     *html.Node
	sheet *douceuradapter.CSSStyles // nil until parsed
}

var _ w3cdom.StyleElement = &Node{}

// NodeType is part of interface w3cdom.Node.
func (n *Node) NodeType() html.NodeType {
	return n.h.Type
}

// NodeName is part of interface w3cdom.Node.
func (n *Node) NodeName() string {
	switch n.h.Type {
	case html.DocumentNode:
		return "#document"
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	}
	return n.h.Data
}

// HTMLNode is part of interface w3cdom.Node.
func (n *Node) HTMLNode() *html.Node {
	return n.h
}

// GetAttribute is part of interface w3cdom.Node.
func (n *Node) GetAttribute(key string) (string, bool) {
	return attribute(n.h, key)
}

// IsStyle is true for <style> elements.
func (n *Node) IsStyle() bool {
	return n.h.Type == html.ElementNode && n.h.DataAtom == atom.Style
}

// Sheet returns the parsed stylesheet of a <style> element. It returns nil
// for other nodes and for style elements not yet parsed.
func (n *Node) Sheet() cssom.StyleSheet {
	if n.sheet == nil {
		return nil
	}
	return n.sheet
}

// Parsed is true if the node's stylesheet is available.
func (n *Node) Parsed() bool {
	return n.sheet != nil
}

// Text returns the text content of a style element.
func (n *Node) Text() string {
	return douceuradapter.StyleText(n.h)
}

func (n *Node) parse() {
	if n.IsStyle() {
		n.sheet = douceuradapter.ParseStyleElement(n.h)
	}
}

func attribute(h *html.Node, key string) (string, bool) {
	for _, a := range h.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

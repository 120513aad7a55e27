package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/styleset/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/styleset/dom/w3cdom"
	"github.com/npillmayer/styleset/precedence"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is an in-memory live document.
type Document struct {
	root      *html.Node
	head      *html.Node
	nodes     map[*html.Node]*Node
	deferred  bool                    // do not parse style sheets on insertion
	pending   []w3cdom.MutationRecord // not yet delivered to observers
	observers []*subscription
}

// Option configures a Document.
type Option func(*Document)

// DeferParsing is an option to leave stylesheets of inserted style elements
// unparsed until Settle is called.
func DeferParsing() Option {
	return func(doc *Document) {
		doc.deferred = true
	}
}

const emptyPage = "<!DOCTYPE html><html><head></head><body></body></html>"

// NewDocument creates an empty document with a head and a body.
func NewDocument(opts ...Option) *Document {
	doc, err := ParseDocument(strings.NewReader(emptyPage), opts...)
	if err != nil {
		panic(err) // cannot happen for a constant page
	}
	return doc
}

// ParseDocument creates a document from an HTML page. Style elements
// present in the page are parsed immediately, regardless of option
// DeferParsing, as if they came with the initial document load. They do
// not produce mutation records.
func ParseDocument(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("cannot parse document: %w", err)
	}
	doc := &Document{
		root:  root,
		head:  douceuradapter.FindElement(atom.Head, root),
		nodes: make(map[*html.Node]*Node),
	}
	for _, option := range opts {
		option(doc)
	}
	for _, s := range douceuradapter.ExtractStyleElements(root) {
		doc.wrap(s).parse()
	}
	return doc, nil
}

// wrap returns the live node for an HTML node, creating it if necessary.
func (doc *Document) wrap(h *html.Node) *Node {
	if h == nil {
		return nil
	}
	n, ok := doc.nodes[h]
	if !ok {
		n = &Node{h: h}
		doc.nodes[h] = n
	}
	return n
}

// Head is part of interface w3cdom.Document. It returns nil if the
// document has no head.
func (doc *Document) Head() w3cdom.Node {
	if doc.head == nil {
		return nil
	}
	return doc.wrap(doc.head)
}

// QuerySelectorAll is part of interface w3cdom.Document. It returns all
// nodes matching a CSS selector, in document order.
func (doc *Document) QuerySelectorAll(selector string) ([]w3cdom.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", selector, err)
	}
	matches := sel.MatchAll(doc.root)
	nodes := make([]w3cdom.Node, len(matches))
	for i, m := range matches {
		nodes[i] = doc.wrap(m)
	}
	return nodes, nil
}

// StyleElements returns all style elements of the head in document order.
func (doc *Document) StyleElements() []*Node {
	if doc.head == nil {
		return nil
	}
	var styles []*Node
	for ch := doc.head.FirstChild; ch != nil; ch = ch.NextSibling {
		if n := doc.wrap(ch); n.IsStyle() {
			styles = append(styles, n)
		}
	}
	return styles
}

// AppendToHead inserts h as the last child of the head.
func (doc *Document) AppendToHead(h *html.Node) (*Node, error) {
	if doc.head == nil {
		return nil, ErrNoHead
	}
	return doc.insert(h, nil), nil
}

// Hoist inserts a precedence container into the head, the way a rendering
// runtime does for style elements carrying a precedence tag:
//
//   - if an element with the same precedence tag and identifier is already
//     present, nothing is inserted and the present element is returned,
//     with inserted=false;
//   - otherwise the container goes after the last element with the same
//     precedence tag;
//   - a precedence tag seen for the first time goes after all other
//     precedence containers, or at the end of the head if there are none.
//
// Hence precedence tags are ordered by first appearance.
func (doc *Document) Hoist(h *html.Node) (n *Node, inserted bool, err error) {
	if doc.head == nil {
		return nil, false, ErrNoHead
	}
	tag, _ := attribute(h, precedence.TagAttribute)
	id, _ := attribute(h, precedence.IDAttribute)
	var sameTag, lastTagged *html.Node
	for ch := doc.head.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode || ch.DataAtom != atom.Style {
			continue
		}
		t, ok := attribute(ch, precedence.TagAttribute)
		if !ok {
			continue
		}
		lastTagged = ch
		if t == tag {
			if i, _ := attribute(ch, precedence.IDAttribute); i == id {
				tracer().Debugf("dom: container %s/%s already present", tag, id)
				return doc.wrap(ch), false, nil
			}
			sameTag = ch
		}
	}
	after := sameTag
	if after == nil {
		after = lastTagged
	}
	var before *html.Node // nil appends to head
	if after != nil {
		before = after.NextSibling
	}
	return doc.insert(h, before), true, nil
}

func (doc *Document) insert(h, before *html.Node) *Node {
	if h.Parent != nil {
		h.Parent.RemoveChild(h)
	}
	doc.head.InsertBefore(h, before)
	n := doc.wrap(h)
	if !doc.deferred {
		n.parse()
	}
	doc.record(doc.wrap(doc.head), n)
	return n
}

// SetStyleText replaces the content of a style element. The stylesheet is
// re-parsed (unless parsing is deferred) and a mutation record for the new
// text is queued.
func (doc *Document) SetStyleText(n *Node, text string) error {
	if !doc.contains(doc.root, n.h) {
		return ErrNotAttached
	}
	for ch := n.h.FirstChild; ch != nil; ch = n.h.FirstChild {
		n.h.RemoveChild(ch)
	}
	t := &html.Node{Type: html.TextNode, Data: text}
	n.h.AppendChild(t)
	n.sheet = nil
	if !doc.deferred {
		n.parse()
	}
	doc.record(n, doc.wrap(t))
	return nil
}

// Settle parses all style elements which have not been parsed yet. It
// does not produce mutation records.
func (doc *Document) Settle() {
	for _, s := range douceuradapter.ExtractStyleElements(doc.root) {
		if n := doc.wrap(s); !n.Parsed() {
			n.parse()
		}
	}
}

func (doc *Document) contains(root, h *html.Node) bool {
	for p := h; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}

// Render writes the document as HTML.
func (doc *Document) Render(w io.Writer) error {
	return html.Render(w, doc.root)
}

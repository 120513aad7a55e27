package render

import (
	"strings"
	"sync/atomic"

	"github.com/npillmayer/styleset/precedence"
	"github.com/npillmayer/styleset/registry"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Container is a precedence container ready for insertion into a document.
type Container struct {
	Tier  precedence.Tier
	ID    string // content hash, or the tier's fallback id if Text is empty
	Text  string // concatenated rule text
	Nonce string // optional; omitted from output if empty
}

// Empty is true for anchoring containers without content.
func (c Container) Empty() bool {
	return c.Text == ""
}

// Node creates a <style> element for the container. The element carries
// the identifier, the precedence tag and, if set, the nonce as attributes,
// and the rule text as its only child.
func (c Container) Node() *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Style,
		Data:     atom.Style.String(),
		Attr: []html.Attribute{
			{Key: precedence.IDAttribute, Val: c.ID},
			{Key: precedence.TagAttribute, Val: c.Tier.Tag()},
		},
	}
	if c.Nonce != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: precedence.NonceAttribute, Val: c.Nonce})
	}
	if c.Text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: c.Text})
	}
	return n
}

// Result is the outcome of a render pass.
type Result struct {
	Containers []Container // in cascade order, low to high
	Kept       []string    // class identifiers of rules placed into containers
	Discarded  []string    // class identifiers skipped as already present
}

// Container returns the container for a tier, if it has been emitted.
func (res Result) Container(tier precedence.Tier) (Container, bool) {
	for _, c := range res.Containers {
		if c.Tier == tier {
			return c, true
		}
	}
	return Container{}, false
}

// Renderer classifies rules into precedence containers. It only reads the
// registry; class identifiers are registered by the reconciler once the
// containers show up in the live document.
type Renderer struct {
	reg      *registry.Registry
	hash     Hasher
	nonce    string
	painted  atomic.Bool // first-paint latch
	renderNo atomic.Uint64
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithNonce sets a nonce to be propagated to all emitted containers.
func WithNonce(nonce string) Option {
	return func(r *Renderer) {
		r.nonce = nonce
	}
}

// WithHasher replaces the default content hash.
func WithHasher(h Hasher) Option {
	return func(r *Renderer) {
		if h != nil {
			r.hash = h
		}
	}
}

// New creates a renderer reading from registry reg.
func New(reg *registry.Registry, opts ...Option) *Renderer {
	r := &Renderer{reg: reg, hash: ContentHash}
	for _, option := range opts {
		option(r)
	}
	return r
}

// Render partitions rules into precedence containers. Rules whose class
// identifier is known to the registry are discarded. Input order is
// preserved within each tier.
//
// A high container is emitted only if it has content. Low and medium
// containers are emitted if they have content or if the first paint has
// not yet been committed.
//
// Rules are filtered against the registry only. A class identifier
// occurring twice within rules is delivered twice; the reconciler strips
// the duplicate once the container reaches the document.
func (r *Renderer) Render(rules []precedence.Rule) Result {
	n := r.renderNo.Add(1)
	var acc [len(precedence.Tiers)]strings.Builder
	var res Result
	for _, rule := range rules {
		if r.reg.HasClass(rule.ClassID) {
			tracer().Debugf("render #%d: discarding %q, already present", n, rule.ClassID)
			res.Discarded = append(res.Discarded, rule.ClassID)
			continue
		}
		tier := rule.Tier
		if tier > precedence.High {
			tier = precedence.High
		}
		acc[tier].WriteString(rule.Text)
		res.Kept = append(res.Kept, rule.ClassID)
	}
	painted := r.painted.Load()
	for _, tier := range precedence.Tiers {
		text := acc[tier].String()
		c := Container{Tier: tier, Text: text, Nonce: r.nonce}
		switch {
		case text != "":
			c.ID = r.hash(text)
		case tier.Anchored() && !painted:
			c.ID = tier.Fallback()
		default:
			continue
		}
		res.Containers = append(res.Containers, c)
	}
	tracer().P("render", n).Debugf("render: %d kept, %d discarded, %d containers",
		len(res.Kept), len(res.Discarded), len(res.Containers))
	return res
}

// Commit is called after a render has been committed to the document.
// The first call flips the first-paint latch; further calls do nothing.
func (r *Renderer) Commit() {
	if r.painted.CompareAndSwap(false, true) {
		tracer().Infof("render: first paint committed")
	}
}

// FirstPaintDone reports whether the first-paint latch has flipped.
func (r *Renderer) FirstPaintDone() bool {
	return r.painted.Load()
}

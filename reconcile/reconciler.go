package reconcile

import (
	"fmt"
	"strings"

	"github.com/npillmayer/styleset/dom/style/cssom"
	"github.com/npillmayer/styleset/dom/w3cdom"
	"github.com/npillmayer/styleset/precedence"
	"github.com/npillmayer/styleset/registry"
	"go.uber.org/multierr"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Reconciler strips duplicate rules from precedence containers of a live
// document.
type Reconciler struct {
	reg        *registry.Registry
	doc        w3cdom.Document
	prefix     string                  // reserved prefix of precedence tags
	attr       string                  // attribute carrying the precedence tag
	processed  map[*html.Node]struct{} // containers already scanned
	disconnect func()
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithPrefix sets the reserved prefix of precedence tags. Default is
// precedence.TagPrefix.
func WithPrefix(prefix string) Option {
	return func(r *Reconciler) {
		r.prefix = prefix
	}
}

// WithAttribute sets the name of the attribute carrying precedence tags.
// Default is precedence.TagAttribute.
func WithAttribute(name string) Option {
	return func(r *Reconciler) {
		r.attr = name
	}
}

// New creates a reconciler for a document. The reconciler will register
// selectors and class identifiers with reg.
func New(reg *registry.Registry, doc w3cdom.Document, opts ...Option) *Reconciler {
	r := &Reconciler{
		reg:       reg,
		doc:       doc,
		prefix:    precedence.TagPrefix,
		attr:      precedence.TagAttribute,
		processed: make(map[*html.Node]struct{}),
	}
	for _, option := range opts {
		option(r)
	}
	return r
}

// Stats counts the outcome of a container scan.
type Stats struct {
	Kept         int // style rules with a selector seen for the first time
	Deleted      int // duplicate style rules removed
	Unidentified int // selectors without a class identifier
}

func (st Stats) String() string {
	return fmt.Sprintf("kept=%d deleted=%d unidentified=%d", st.Kept, st.Deleted, st.Unidentified)
}

// Start scans all precedence containers already present in the document,
// then subscribes to insertions under the document's head. Start may be
// called once per reconciler.
func (r *Reconciler) Start() error {
	if r.disconnect != nil {
		return ErrAlreadyStarted
	}
	head := r.doc.Head()
	if head == nil {
		return ErrNoHead
	}
	query := fmt.Sprintf("style[%s^=%q]", r.attr, r.prefix)
	present, err := r.doc.QuerySelectorAll(query)
	if err != nil {
		return fmt.Errorf("cannot query precedence containers: %w", err)
	}
	tracer().Infof("reconcile: starting with %d present containers", len(present))
	for _, n := range present {
		r.consider(n)
	}
	r.disconnect = r.doc.Observe(head, r.handle)
	return nil
}

// Stop ends the subscription to document mutations.
func (r *Reconciler) Stop() {
	if r.disconnect != nil {
		r.disconnect()
		r.disconnect = func() {}
	}
}

// Processed reports whether a container has been scanned.
func (r *Reconciler) Processed(n w3cdom.Node) bool {
	_, ok := r.processed[n.HTMLNode()]
	return ok
}

// handle is the mutation callback. Inserted nodes are considered in order
// of the records. A record targeting a style element itself signals a
// content change of that element.
func (r *Reconciler) handle(records []w3cdom.MutationRecord) {
	tracer().Debugf("reconcile: %d mutation records", len(records))
	for _, rec := range records {
		r.consider(rec.Target)
		for _, n := range rec.AddedNodes {
			r.consider(n)
		}
	}
}

func (r *Reconciler) consider(n w3cdom.Node) {
	style, ok := r.isContainer(n)
	if !ok {
		return
	}
	if _, done := r.processed[n.HTMLNode()]; done {
		return
	}
	if _, _, err := r.Scan(style); err != nil {
		tracer().Errorf("reconcile: %v", err)
	}
}

func (r *Reconciler) isContainer(n w3cdom.Node) (w3cdom.StyleElement, bool) {
	style, ok := w3cdom.AsStyleElement(n)
	if !ok || !isStyleTag(n) {
		return nil, false
	}
	tag, ok := style.GetAttribute(r.attr)
	if !ok || !strings.HasPrefix(tag, r.prefix) {
		return nil, false
	}
	return style, true
}

func isStyleTag(n w3cdom.Node) bool {
	if h := n.HTMLNode(); h != nil && h.DataAtom == atom.Style {
		return true
	}
	return strings.EqualFold(n.NodeName(), "style")
}

// Scan strips duplicate rules from a container and registers what it kept.
// Rules are visited from last to first, as deleting a rule shifts all
// rules after it.
//
// If the container's stylesheet has not been parsed yet, Scan does nothing
// and returns done=false; the container may be picked up again by a later
// mutation. Otherwise the container is marked as processed.
//
// Selectors without a class identifier do not abort the scan. They are
// counted, and returned as a combined error.
func (r *Reconciler) Scan(style w3cdom.StyleElement) (stats Stats, done bool, err error) {
	sheet := style.Sheet()
	if sheet == nil {
		tracer().Debugf("reconcile: stylesheet of container not yet available, skipping")
		return stats, false, nil
	}
	err = r.walk(sheet, &stats)
	r.processed[style.HTMLNode()] = struct{}{}
	tag, _ := style.GetAttribute(r.attr)
	tracer().P("precedence", tag).Infof("reconcile: container processed, %s", stats)
	return stats, true, err
}

func (r *Reconciler) walk(sheet cssom.StyleSheet, stats *Stats) (err error) {
	for i := sheet.Length() - 1; i >= 0; i-- {
		rule := sheet.Item(i)
		if rule == nil {
			continue
		}
		switch rule.Kind() {
		case cssom.GroupingRule:
			if group, ok := rule.(cssom.Grouping); ok {
				err = multierr.Append(err, r.walk(group.CSSRules(), stats))
			}
		case cssom.StyleRule:
			err = multierr.Append(err, r.reconcileRule(sheet, i, rule, stats))
		}
	}
	return
}

func (r *Reconciler) reconcileRule(sheet cssom.StyleSheet, inx int, rule cssom.Rule,
	stats *Stats) error {
	//
	selector := rule.Selector()
	if r.reg.SeeSelector(selector) {
		if err := sheet.DeleteRule(inx); err != nil {
			return err
		}
		tracer().Debugf("reconcile: deleted duplicate %q", selector)
		stats.Deleted++
	} else {
		stats.Kept++
	}
	id, err := cssom.ClassIdentifier(selector)
	if err != nil {
		tracer().Errorf("reconcile: not registering class of rule #%d: %v", inx, err)
		stats.Unidentified++
		return err
	}
	r.reg.AddClass(id)
	return nil
}

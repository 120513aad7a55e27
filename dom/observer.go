package dom

import (
	"github.com/npillmayer/styleset/dom/w3cdom"
	"golang.org/x/net/html"
)

type subscription struct {
	root     *html.Node
	callback w3cdom.MutationCallback
	active   bool
}

// Observe is part of interface w3cdom.MutationObserver. The callback will
// receive all child insertions in the subtree under root, batched per call
// to Flush.
func (doc *Document) Observe(root w3cdom.Node, callback w3cdom.MutationCallback) func() {
	sub := &subscription{root: root.HTMLNode(), callback: callback, active: true}
	doc.observers = append(doc.observers, sub)
	tracer().Debugf("dom: observer attached to <%s>", root.NodeName())
	return func() {
		sub.active = false
		for i, s := range doc.observers {
			if s == sub {
				doc.observers = append(doc.observers[:i], doc.observers[i+1:]...)
				break
			}
		}
	}
}

func (doc *Document) record(target *Node, added ...*Node) {
	nodes := make([]w3cdom.Node, len(added))
	for i, a := range added {
		nodes[i] = a
	}
	doc.pending = append(doc.pending, w3cdom.MutationRecord{
		Target:     target,
		AddedNodes: nodes,
	})
}

// Pending returns the number of mutation records not yet delivered.
func (doc *Document) Pending() int {
	return len(doc.pending)
}

// Flush delivers all pending mutation records. Every observer receives the
// records for its subtree as a single batch, in order of occurrence.
// Mutations caused by observers during delivery are delivered by the next
// call to Flush.
func (doc *Document) Flush() {
	batch := doc.pending
	doc.pending = nil
	if len(batch) == 0 {
		return
	}
	observers := make([]*subscription, len(doc.observers))
	copy(observers, doc.observers)
	for _, sub := range observers {
		if !sub.active {
			continue
		}
		var records []w3cdom.MutationRecord
		for _, r := range batch {
			if doc.contains(sub.root, r.Target.HTMLNode()) {
				records = append(records, r)
			}
		}
		if len(records) > 0 {
			sub.callback(records)
		}
	}
}

/*
Package registry holds the state shared between rendering and live
reconciliation of style rules.

A Registry records two append-only sets: the class identifiers known to be
present in a live document, and the raw selectors already kept in its
stylesheets. The renderer reads class identifiers to skip rules already
delivered; the reconciler writes both sets while scanning inserted style
containers. Create one Registry per document and pass it to both.

Entries are never evicted. Long-lived sessions with highly dynamic styles
will grow both sets without bound; evicting would re-admit duplicate rules.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package registry

import (
	"sort"
	"sync"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'styleset.registry'.
func tracer() tracing.Trace {
	return tracing.Select("styleset.registry")
}

// Registry is the style registry for a single document/session.
// It is safe for concurrent use.
type Registry struct {
	mx        sync.RWMutex
	classes   map[string]struct{}
	selectors map[string]struct{}
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		classes:   make(map[string]struct{}),
		selectors: make(map[string]struct{}),
	}
}

// HasClass checks if a class identifier is known to be present.
func (reg *Registry) HasClass(id string) bool {
	reg.mx.RLock()
	defer reg.mx.RUnlock()
	_, ok := reg.classes[id]
	return ok
}

// AddClass registers a class identifier. It returns false if the identifier
// has been registered before.
func (reg *Registry) AddClass(id string) bool {
	reg.mx.Lock()
	defer reg.mx.Unlock()
	if _, ok := reg.classes[id]; ok {
		return false
	}
	reg.classes[id] = struct{}{}
	tracer().Debugf("registry: class %q registered", id)
	return true
}

// SeeSelector tests a selector against the set of selectors kept so far and
// records it. It returns true if the selector had been seen before, i.e.
// the rule carrying it is a duplicate.
func (reg *Registry) SeeSelector(selector string) (seen bool) {
	reg.mx.Lock()
	defer reg.mx.Unlock()
	if _, seen = reg.selectors[selector]; !seen {
		reg.selectors[selector] = struct{}{}
	}
	return
}

// HasSelector checks if a selector has been kept before.
func (reg *Registry) HasSelector(selector string) bool {
	reg.mx.RLock()
	defer reg.mx.RUnlock()
	_, ok := reg.selectors[selector]
	return ok
}

// Len returns the number of class identifiers and selectors registered.
func (reg *Registry) Len() (classes int, selectors int) {
	reg.mx.RLock()
	defer reg.mx.RUnlock()
	return len(reg.classes), len(reg.selectors)
}

// Classes returns a sorted snapshot of all registered class identifiers.
func (reg *Registry) Classes() []string {
	reg.mx.RLock()
	defer reg.mx.RUnlock()
	return sortedKeys(reg.classes)
}

// Selectors returns a sorted snapshot of all kept selectors.
func (reg *Registry) Selectors() []string {
	reg.mx.RLock()
	defer reg.mx.RUnlock()
	return sortedKeys(reg.selectors)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

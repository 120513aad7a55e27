/*
Package reconcile removes duplicate style rules from a live document.

Concurrent or interrupted render passes may deliver the same style rule
more than once. The Reconciler watches the head of a document for newly
inserted precedence containers, i.e. <style> elements whose precedence
attribute starts with the reserved prefix. Each such container is scanned
exactly once: rules whose selector has been kept before are deleted from
the live stylesheet, all other selectors are recorded as kept. The class
identifier found in every selector is registered with the style registry,
so that subsequent render passes will skip rules already present.

Conditional groups (e.g., @media blocks) are scanned recursively. The group
rule itself is never deleted, even if all of its nested rules are.

A Reconciler is driven by mutation notifications of its document and is
not safe for concurrent use.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package reconcile

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'styleset.reconcile'.
func tracer() tracing.Trace {
	return tracing.Select("styleset.reconcile")
}

// ErrAlreadyStarted is returned if a reconciler is started twice.
var ErrAlreadyStarted = errors.New("reconciler already started")

// ErrNoHead is returned if the document to watch has no head.
var ErrNoHead = errors.New("cannot watch document without head")

/*
Package dom implements an in-memory live document for style delivery.

# Status

Early draft—API may change frequently. Please stay patient.

# Overview

A Document wraps an HTML parse tree (package golang.org/x/net/html) and
behaves like the head of a document in a browser, as far as style
elements are concerned:

  - <style> elements own a parsed, mutable stylesheet (package cssom).
    Parsing may be deferred, modelling a browser which has not yet
    parsed a freshly inserted style element.
  - Precedence containers are inserted with Hoist, which keeps containers
    of the same precedence tag together, ordered by first appearance of
    the tag, and ignores containers whose identifier is already present.
  - Insertions are recorded and delivered to mutation observers in
    batches, when the host calls Flush. This resembles the microtask
    checkpoint of a browser's event loop.

A Document is not safe for concurrent use. It belongs to a single
event loop.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package dom

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'styleset.dom'
func tracer() tracing.Trace {
	return tracing.Select("styleset.dom")
}

// ErrNoHead is returned if a document has no <head> element.
var ErrNoHead = errors.New("document has no head")

// ErrNotAttached is returned for operations on nodes not belonging to the
// document.
var ErrNotAttached = errors.New("node is not attached to document")

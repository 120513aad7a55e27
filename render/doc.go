/*
Package render partitions style rules into precedence containers.

On every render pass the Renderer receives the rules the component tree
produced, drops the ones whose class identifier the registry already knows,
and groups the remainder into up to three containers: low, medium and high.
Each container carries a stable identifier derived from its content, which
lets the rendering runtime drop identical containers before they reach the
document.

Until the first render has been committed, empty low and medium containers
are emitted nevertheless. They anchor the cascade position of their tier,
so that content arriving later in wall-clock time still ends up in the
order low < medium < high.

Usage:

	reg := registry.New()
	r := render.New(reg, render.WithNonce(nonce))
	result := r.Render(rules)
	for _, c := range result.Containers {
	    doc.Hoist(c.Node())
	}
	r.Commit()

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package render

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'styleset.render'.
func tracer() tracing.Trace {
	return tracing.Select("styleset.render")
}

// Hasher derives a stable identifier from a container's content.
type Hasher func(text string) string

// ContentHash is the default Hasher. It returns the base-36 representation
// of the 64-bit xxHash of text.
func ContentHash(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 36)
}

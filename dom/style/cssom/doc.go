/*
Package cssom provides interfaces for a live CSS Object Model.

# Overview

CSSOM is the "CSS Object Model", similar to the DOM for HTML. Style
elements of a live document own a parsed stylesheet, which is a list of
rules. Some rules, like @media blocks, are conditional groups and hold
nested rule lists of their own. Rules may be deleted in place by index.

This package defines interfaces only, together with helpers working on
selector text. CSS handling is de-coupled by introducing interfaces
StyleSheet and Rule. A concrete implementation may be found in sub-package
douceuradapter.

This is not a general CSS parser. Rules are treated as opaque text, keyed
by their selector.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'styleset.cssom'.
func tracer() tracing.Trace {
	return tracing.Select("styleset.cssom")
}

/*
Package precedence defines the three precedence tiers style rules are
grouped into.

Every rule delivered to a document belongs to exactly one tier. Containers
for the tiers are ordered low < medium < high in the cascade, independent
of the order in which their content arrives.

___________________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 Norbert Pillmayer <norbert@pillmayer.com>
*/
package precedence

import "fmt"

// Tier is a precedence tier.
type Tier uint8

// The tiers, in cascade order.
const (
	Low Tier = iota
	Medium
	High
)

// Tiers lists all tiers in cascade order.
var Tiers = [...]Tier{Low, Medium, High}

// TagPrefix is reserved for precedence tags. Style elements carrying a
// precedence attribute starting with this prefix belong to the engine.
const TagPrefix = "rsh"

// TagAttribute is the name of the attribute carrying a precedence tag.
const TagAttribute = "precedence"

// IDAttribute is the name of the attribute carrying a container's identifier.
const IDAttribute = "href"

// NonceAttribute is the name of the attribute carrying an optional nonce.
const NonceAttribute = "nonce"

var tags = [...]string{"rsh-low", "rsh-mid", "rsh-high"}

// fallback identifiers anchor empty containers.
var fallbacks = [...]string{"rsh-low-anchor", "rsh-mid-anchor", "rsh-high-anchor"}

// Tag returns the reserved precedence tag for a tier.
func (t Tier) Tag() string {
	if t > High {
		return tags[High]
	}
	return tags[t]
}

// Fallback returns the identifier used for an empty container of a tier.
func (t Tier) Fallback() string {
	if t > High {
		return fallbacks[High]
	}
	return fallbacks[t]
}

func (t Tier) String() string {
	switch t {
	case Low:
		return "low"
	case Medium:
		return "medium"
	}
	return "high"
}

// Anchored is true for tiers which must be present on first paint, even
// if empty. Only low and medium tiers need anchoring: high containers are
// last in the cascade anyway.
func (t Tier) Anchored() bool {
	return t == Low || t == Medium
}

// FromTag returns the tier for a precedence tag. ok is false for tags not
// owned by the engine.
func FromTag(tag string) (t Tier, ok bool) {
	for i, s := range tags {
		if s == tag {
			return Tier(i), true
		}
	}
	return High, false
}

// Classify derives the tier of a class identifier from its first character:
// 'l' is low, 'm' is medium, anything else is high.
func Classify(classID string) Tier {
	if classID == "" {
		return High
	}
	switch classID[0] {
	case 'l':
		return Low
	case 'm':
		return Medium
	}
	return High
}

// Rule is a single style rule together with its class identifier and tier.
// Rules are immutable once produced.
type Rule struct {
	Tier    Tier   // precedence tier, attached at the origin of the rule
	ClassID string // class identifier, unit of "already delivered" tracking
	Text    string // opaque rule text, e.g. ".a{color:red}"
}

// NewRule creates a rule with an explicit tier.
func NewRule(tier Tier, classID, text string) Rule {
	return Rule{Tier: tier, ClassID: classID, Text: text}
}

// Tagged creates a rule whose tier is encoded in the first character of
// its class identifier.
//
//	r := precedence.Tagged("l-a", ".a{color:red}")   // r.Tier == Low
func Tagged(classID, text string) Rule {
	return Rule{Tier: Classify(classID), ClassID: classID, Text: text}
}

func (r Rule) String() string {
	return fmt.Sprintf("%s[%s]%s", r.Tier, r.ClassID, r.Text)
}

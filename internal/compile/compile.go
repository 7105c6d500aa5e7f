// Package compile turns a template's static string segments into a
// placeholder-annotated markup string plus ordered metadata describing each
// substitution site.
//
// Classification is purely lexical: a slot whose preceding static text ends
// in an attribute assignment becomes an attribute (or event, for on*-named
// attributes) part, everything else a text part. Runtime values are never
// consulted, which is what keeps part shape stable across renders of the
// same template.
package compile

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a substitution slot.
type Kind int

const (
	// KindText marks a slot standing in for text, a node list, or a nested
	// template; a comment placeholder holds its position in the markup.
	KindText Kind = iota
	// KindAttr marks an element attribute whose value is wholly a
	// substitution.
	KindAttr
	// KindEvent marks an on*-named attribute whose value is an event
	// listener.
	KindEvent
)

// String returns the string representation of the part kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindAttr:
		return "attr"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// Part describes one substitution slot of a compiled template.
type Part struct {
	Kind Kind

	// Index is the slot's position in the template's interpolation list.
	Index int

	// Token is the unique placeholder embedded in the markup for this slot.
	Token string

	// Name is the attribute name for attr parts and the lower-cased event
	// name (the attribute minus its "on" prefix) for event parts.
	Name string
}

// Compiled is the immutable result of compiling a segment sequence: the
// placeholder-bearing markup and one Part per slot in literal order.
type Compiled struct {
	Markup string
	Parts  []Part
}

// attrTail matches a static segment that ends mid-attribute-assignment:
// an attribute name, '=', and optionally an opening quote with no closing
// quote yet. The slot value then lands inside the attribute.
var attrTail = regexp.MustCompile(`([^\s"'<>/=]+)\s*=\s*(["']?)$`)

// eventName matches attribute names that denote event listeners.
var eventName = regexp.MustCompile(`^(?i)on[a-z]+$`)

// Compile builds the placeholder markup and part descriptors for the given
// static segments. N segments describe N-1 substitution slots. Malformed
// attribute syntax degrades to text classification rather than failing.
func Compile(segments []string) (*Compiled, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("compile: template has no static segments")
	}

	var b strings.Builder
	parts := make([]Part, 0, len(segments)-1)

	for i, seg := range segments {
		b.WriteString(seg)
		if i == len(segments)-1 {
			break
		}

		part := Part{Kind: KindText, Index: i}
		if m := attrTail.FindStringSubmatch(seg); m != nil {
			name := strings.ToLower(m[1])
			if eventName.MatchString(name) {
				part.Kind = KindEvent
				part.Name = name[len("on"):]
			} else {
				part.Kind = KindAttr
				part.Name = name
			}
		}

		part.Token = fmt.Sprintf("$%s-%d$", part.Kind, part.Index)
		if part.Kind == KindText {
			b.WriteString("<!--" + part.Token + "-->")
		} else {
			b.WriteString(part.Token)
		}
		parts = append(parts, part)
	}

	return &Compiled{Markup: b.String(), Parts: parts}, nil
}

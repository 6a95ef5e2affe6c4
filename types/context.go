// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"sort"
	"strings"
)

// ResolvedContext maps template variable names to their resolved values. A
// context is built fresh on every resolution pass and never mutated
// afterwards; the reconciler keeps exactly one "last rendered" context around
// for comparison and swaps it wholesale on each render.
type ResolvedContext map[string]ResolvedValue

// Equal reports whether two contexts bind the same set of variable names to
// structurally equal values. Insertion order is irrelevant; list values
// compare element-wise in their stored (sorted) order.
func (c ResolvedContext) Equal(other ResolvedContext) bool {
	if len(c) != len(other) {
		return false
	}
	for name, value := range c {
		othervalue, ok := other[name]
		if !ok || !value.Equal(othervalue) {
			return false
		}
	}
	return true
}

// Equal reports whether contexts a and b are equal, see
// [ResolvedContext.Equal].
func Equal(a, b ResolvedContext) bool {
	return a.Equal(b)
}

// Template returns the context in the shape the templating engine consumes: a
// plain map of variable names to nil, string, or []string values.
func (c ResolvedContext) Template() map[string]interface{} {
	data := make(map[string]interface{}, len(c))
	for name, value := range c {
		data[name] = value.Template()
	}
	return data
}

// String renders the context with its variable names in sorted order, for
// diagnostic output only.
func (c ResolvedContext) String() string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("{")
	for idx, name := range names {
		if idx > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", name, c[name])
	}
	b.WriteString("}")
	return b.String()
}

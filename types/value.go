// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the variants of a [ResolvedValue].
type Kind int

// The variants a resolved variable value can take.
const (
	KindNull   Kind = iota // lookup failed, no data available.
	KindString             // a single string (constants).
	KindList               // an ordered list of strings (addresses, literal lists).
)

// String returns the clear-text representation of a Kind value.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindList:
		return "list"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ResolvedValue is the value bound to a single template variable after a
// resolution pass: either Null (the lookup failed and there is no data), a
// single string, or an ordered list of strings. A Null value is never equal to
// an empty list; the two mean different things to a template.
//
// ResolvedValue is an immutable value type: create one using [NullValue],
// [StringValue], or [ListValue] and pass it around by value.
type ResolvedValue struct {
	kind Kind
	str  string
	list []string
}

// NullValue returns the ResolvedValue representing a failed lookup.
func NullValue() ResolvedValue {
	return ResolvedValue{kind: KindNull}
}

// StringValue returns a ResolvedValue holding a single string.
func StringValue(s string) ResolvedValue {
	return ResolvedValue{kind: KindString, str: s}
}

// ListValue returns a ResolvedValue holding the specified list of strings in
// exactly the specified order. The elements are copied, so later changes to
// the passed slice won't be visible through the returned value.
func ListValue(elems []string) ResolvedValue {
	list := make([]string, len(elems))
	copy(list, elems)
	return ResolvedValue{kind: KindList, list: list}
}

// Kind returns the variant of this resolved value.
func (v ResolvedValue) Kind() Kind { return v.kind }

// IsNull returns true if this value represents a failed lookup.
func (v ResolvedValue) IsNull() bool { return v.kind == KindNull }

// Str returns the string payload; it is only meaningful for KindString values
// and otherwise zero.
func (v ResolvedValue) Str() string { return v.str }

// List returns a copy of the list payload; it is only meaningful for KindList
// values and otherwise nil.
func (v ResolvedValue) List() []string {
	if v.kind != KindList {
		return nil
	}
	list := make([]string, len(v.list))
	copy(list, v.list)
	return list
}

// Equal reports structural equality of two resolved values: same variant and,
// for strings, equal text, for lists, equal length and element-wise equal
// text in stored order. There is no coercion across variants.
func (v ResolvedValue) Equal(other ResolvedValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for idx := range v.list {
			if v.list[idx] != other.list[idx] {
				return false
			}
		}
		return true
	}
	return false
}

// Template returns the value in the shape the templating engine consumes:
// nil for Null, a plain string, or a []string.
func (v ResolvedValue) Template() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindList:
		return v.List()
	}
	return nil
}

// String renders the value for diagnostic output.
func (v ResolvedValue) String() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindList:
		return "[" + strings.Join(v.list, " ") + "]"
	}
	return "null"
}

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package types defines dnstemplate's information model, which is rather simple
and revolves around [ResolvedValue] and [ResolvedContext].

A [ResolvedValue] is a small tagged union: Null for "the lookup failed and
there is no data", a single string for constants, or an ordered list of
strings for resolved addresses and literal lists. Null deliberately never
equals an empty list; a template may want to render a block only when data is
actually available.

A [ResolvedContext] is one resolution pass's complete set of variable
bindings. Contexts are compared structurally and order-independently between
polls to decide whether the rendered artifact is stale; see
[ResolvedContext.Equal]. Because the reconciler's change detection rests
entirely on this comparison, values are immutable once constructed: a fresh
context is built on every pass and shared nowhere.
*/
package types

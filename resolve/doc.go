// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package resolve implements the variable-resolution engine: it turns a set of
[VariableSpec] definitions into one fresh [types.ResolvedContext] per pass.

Constants and literal lists bind synchronously. Host variables fan out
concurrently, one unit per variable, each performing a forward A lookup
through a pooled [NameResolver]; when reverse enrichment is requested, a
second nested fan-out reverse-looks-up every resolved address, with each unit
independently falling back to the literal address string on failure. A pass
joins all of its units before returning, and a failure anywhere degrades
exactly one variable to Null without cancelling or disturbing any other.

The entries of a resolved host variable are sorted with [SortEntries], which
is plain lexicographic string order, not numeric dotted-quad order. That quirk
is load-bearing: rendered artifacts must stay byte-compatible with the
original renderer's output.
*/
package resolve

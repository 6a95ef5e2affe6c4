// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package reconcile implements the change-driven reconciliation loop keeping a
rendered artifact synchronized with DNS state.

The loop is a two-phase state machine. RENDER writes the artifact from the
context produced by the phase leading into it (never re-resolving on its own),
remembers that context as "last rendered", and hands the optional post-render
command to the runner. POLL sleeps for the configured interval, runs a full
resolution pass, and compares the fresh context structurally against the
last-rendered one: on inequality it transitions back to RENDER with the fresh
context, on equality it stays in POLL. Non-watch mode stops after the single
initial RENDER.

The very first render is unconditional. With fast-start it even happens
before any DNS I/O, from a synthesized all-Null context, so a freshly started
watcher gets its artifact (and its post-render command) out immediately and
catches up with reality on the first poll.

Only two things are fatal here: failing to produce the artifact and failing
to launch the post-render command. Lookup failures already degraded to Null
values inside the resolution pass, where they belong.
*/
package reconcile

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package runner supervises the post-render command: it spawns the command with
all standard streams discarded and then observes its exit asynchronously, off
the reconciliation loop's critical path.

The split in failure severity is deliberate: not being able to launch the
command at all is fatal (the operator asked for a side effect that can never
happen), while whatever the launched command then does with its life is
merely logged. The reconciler must keep rendering and polling regardless of
reload scripts crashing.
*/
package runner

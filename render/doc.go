// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package render writes the output artifact: a handlebars template executed
against a [types.ResolvedContext], targeting either a file or standard
output.

dnstemplate sticks with handlebars (via [aymerick/raymond]) so that templates
written for the original renderer keep working unchanged. Null variables show
up as missing values, string variables as plain text, and list variables
iterate with {{#each}}. File destinations are replaced wholesale through a
temp-file-and-rename, never truncated in place.

[aymerick/raymond]: https://github.com/aymerick/raymond
*/
package render

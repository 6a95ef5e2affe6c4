// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	renderPhaseStyle = termenv.Style{}.Foreground(termenv.ANSIGreen)
	pollPhaseStyle   = termenv.Style{}.Foreground(termenv.ANSIYellow)
)

var renderCountStyle = termenv.Style{}.Bold()

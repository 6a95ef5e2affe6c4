// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"time"

	"github.com/siemens/dnstemplate/reconcile"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"
)

var _ = Describe("the live status line", func() {

	It("draws a final status before Stop returns", func() {
		out := gbytes.NewBuffer()
		s := newStatusWriter(3)
		s.term.Out = out
		s.Notify(reconcile.Event{
			Phase:   reconcile.PhaseRender,
			Renders: 1,
			At:      time.Now(),
		})
		s.Stop()
		Expect(out).To(gbytes.Say("rendering"))
		Expect(out).To(gbytes.Say("3 variables"))
	})

	It("tolerates stopping twice", func() {
		s := newStatusWriter(1)
		s.term.Out = gbytes.NewBuffer()
		s.Stop()
		s.Stop()
	})

})

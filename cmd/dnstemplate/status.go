// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// The live watch-mode status line.

package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/siemens/dnstemplate/reconcile"

	"github.com/gosuri/uilive"
)

var spinnerPhases = func() []string {
	phases := []string{}
	for _, r := range "⠉⠘⠰⠤⠆⠃" {
		phases = append(phases, string(r))
	}
	return phases
}()

// statusWriter renders a one-line live status to the terminal while the
// reconciler is watching: current phase, render count, time of the last
// render. It never writes to the artifact destination, so it stays out of the
// way of --out.
type statusWriter struct {
	term *uilive.Writer
	vars int

	mu         sync.Mutex
	ev         reconcile.Event
	haveEv     bool
	lastRender time.Time
	phase      int
	ticker     *time.Ticker
	done       chan struct{}
	idle       chan struct{}
	stopped    sync.Once
}

// newStatusWriter returns a statusWriter redrawing itself a few times a
// second until stopped.
func newStatusWriter(vars int) *statusWriter {
	s := &statusWriter{
		term:   uilive.New(),
		vars:   vars,
		ticker: time.NewTicker(100 * time.Millisecond),
		done:   make(chan struct{}),
		idle:   make(chan struct{}),
	}
	go func() {
		// All drawing happens on this goroutine only, the final redraw
		// included, so ticks and shutdown can never interleave their
		// writes on the shared terminal writer.
		defer close(s.idle)
		for {
			select {
			case <-s.ticker.C:
				s.redraw()
			case <-s.done:
				s.ticker.Stop()
				s.redraw()
				return
			}
		}
	}()
	return s
}

// Notify receives reconciler events; it only records them, so it never blocks
// the reconciliation loop.
func (s *statusWriter) Notify(ev reconcile.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ev = ev
	s.haveEv = true
	if ev.Phase == reconcile.PhaseRender {
		s.lastRender = ev.At
	}
}

// Stop the status writer and release its background resources. It returns
// only after the final redraw has made it onto the terminal.
func (s *statusWriter) Stop() {
	s.stopped.Do(func() {
		close(s.done)
	})
	<-s.idle
}

func (s *statusWriter) redraw() {
	s.mu.Lock()
	ev, haveEv, lastRender := s.ev, s.haveEv, s.lastRender
	s.phase++
	if s.phase >= len(spinnerPhases) {
		s.phase = 0
	}
	spin := spinnerPhases[s.phase]
	s.mu.Unlock()
	if !haveEv {
		fmt.Fprintf(s.term, "%s resolving %d variables...\n", spin, s.vars)
		s.term.Flush()
		return
	}
	var phase string
	switch ev.Phase {
	case reconcile.PhaseRender:
		phase = renderPhaseStyle.Styled("rendering")
	default:
		phase = pollPhaseStyle.Styled("polling")
	}
	fmt.Fprintf(s.term, "%s %s · %d variables · %s · last render %s\n",
		spin, phase, s.vars,
		renderCountStyle.Styled(fmt.Sprintf("%d renders", ev.Renders)),
		lastRender.Format("15:04:05"))
	s.term.Flush()
}

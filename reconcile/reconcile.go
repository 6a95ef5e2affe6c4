// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package reconcile

import (
	"context"
	"time"

	"github.com/siemens/dnstemplate/resolve"
	"github.com/siemens/dnstemplate/runner"
	"github.com/siemens/dnstemplate/types"

	"github.com/sirupsen/logrus"
)

// ContextResolver produces one fresh resolved context per call. It is
// satisfied by [resolve.Resolver].
type ContextResolver interface {
	Resolve(ctx context.Context, specs []resolve.VariableSpec) types.ResolvedContext
}

// ArtifactRenderer renders a resolved context into the output artifact. It is
// satisfied by [github.com/siemens/dnstemplate/render.Renderer].
type ArtifactRenderer interface {
	Render(resctx types.ResolvedContext) error
}

// CommandStarter launches the post-render command, reporting launch failure
// synchronously and the command's eventual exit out-of-band. It matches
// [runner.Start].
type CommandStarter func(command string) (<-chan error, error)

// Config parameterizes a [Reconciler]. The reconciler treats it as already
// validated; the CLI layer owns rejecting nonsensical combinations such as
// fast-start without watch mode.
type Config struct {
	Specs     []resolve.VariableSpec
	Watch     bool          // keep polling and re-rendering; false renders once and stops.
	Command   string        // optional command to launch after every render.
	Interval  time.Duration // distance between polls in watch mode.
	FastStart bool          // first render from an all-Null context, no DNS I/O.
}

// Phase identifies the reconciler state an [Event] reports.
type Phase int

// The observable reconciler phases.
const (
	PhaseRender Phase = iota // an artifact was just rendered.
	PhasePoll                // the reconciler is waiting out the poll interval.
)

// String returns the clear-text representation of a Phase value.
func (p Phase) String() string {
	if p == PhaseRender {
		return "render"
	}
	return "poll"
}

// Event tells an observer what the reconciler just did; see [WithNotify].
type Event struct {
	Phase   Phase
	Renders int       // renders so far, including this one in PhaseRender events.
	Polls   int       // resolution passes that decided against rendering.
	At      time.Time // when the phase was entered.
}

// Reconciler drives the render/poll state machine: render the current
// context, notify the post-render command, then poll DNS at a fixed interval
// and render again whenever the freshly resolved context differs from the
// last-rendered one. The first render is always unconditional; every later
// one is gated strictly on context inequality, never on time.
type Reconciler struct {
	resolver ContextResolver
	renderer ArtifactRenderer
	start    CommandStarter
	notify   func(Event)
	cfg      Config
}

// ReconcilerOption can be passed to New when creating new Reconciler objects.
type ReconcilerOption func(*Reconciler)

// WithCommandStarter replaces how the post-render command gets launched;
// the default is [runner.Start].
func WithCommandStarter(start CommandStarter) ReconcilerOption {
	return func(r *Reconciler) {
		r.start = start
	}
}

// WithNotify registers a function receiving an [Event] on every phase
// transition, for status displays. The function is called on the
// reconciler's own goroutine and must not block.
func WithNotify(fn func(Event)) ReconcilerOption {
	return func(r *Reconciler) {
		r.notify = fn
	}
}

// New returns a new Reconciler rendering through the specified renderer from
// contexts produced by the specified resolver.
func New(resolver ContextResolver, renderer ArtifactRenderer, cfg Config, options ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		resolver: resolver,
		renderer: renderer,
		start:    runner.Start,
		cfg:      cfg,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Run the reconciliation loop. In non-watch mode Run returns nil after a
// single render; in watch mode it only returns on a fatal render or
// command-launch failure, or with the context's error once the context gets
// cancelled. Resolution failures never surface here: they already degraded
// individual variables to Null during the pass.
func (r *Reconciler) Run(ctx context.Context) error {
	var current types.ResolvedContext
	if r.cfg.FastStart {
		// Synthesized all-Null seed: render immediately, let the first poll do
		// the first real resolution.
		current = nullContext(r.cfg.Specs)
	} else {
		current = r.resolver.Resolve(ctx, r.cfg.Specs)
	}
	renders, polls := 0, 0
	for {
		if err := r.renderer.Render(current); err != nil {
			return err
		}
		last := current
		renders++
		if r.cfg.Command != "" {
			if _, err := r.start(r.cfg.Command); err != nil {
				return err
			}
		}
		r.event(PhaseRender, renders, polls)
		if !r.cfg.Watch {
			return nil
		}
		for {
			r.event(PhasePoll, renders, polls)
			logrus.Debugf("sleep %s", r.cfg.Interval)
			select {
			case <-time.After(r.cfg.Interval):
			case <-ctx.Done():
				return ctx.Err()
			}
			next := r.resolver.Resolve(ctx, r.cfg.Specs)
			if !types.Equal(next, last) {
				current = next
				break
			}
			polls++
		}
	}
}

func (r *Reconciler) event(phase Phase, renders, polls int) {
	if r.notify == nil {
		return
	}
	r.notify(Event{
		Phase:   phase,
		Renders: renders,
		Polls:   polls,
		At:      time.Now(),
	})
}

// nullContext synthesizes the fast-start seed: every variable of the spec
// set present, every one of them Null.
func nullContext(specs []resolve.VariableSpec) types.ResolvedContext {
	resctx := types.ResolvedContext{}
	for _, spec := range specs {
		resctx[spec.VarName()] = types.NullValue()
	}
	return resctx
}

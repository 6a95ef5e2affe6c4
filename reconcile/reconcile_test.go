// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package reconcile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/siemens/dnstemplate/resolve"
	"github.com/siemens/dnstemplate/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

// scriptedResolver plays back a sequence of contexts, repeating the last one
// forever, and counts its resolution passes.
type scriptedResolver struct {
	mu    sync.Mutex
	seq   []types.ResolvedContext
	calls int
}

func (s *scriptedResolver) Resolve(ctx context.Context, specs []resolve.VariableSpec) types.ResolvedContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	next := s.seq[0]
	if len(s.seq) > 1 {
		s.seq = s.seq[1:]
	}
	return next
}

func (s *scriptedResolver) passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// recordingRenderer records every rendered context together with how many
// resolution passes had happened at that point.
type recordingRenderer struct {
	mu       sync.Mutex
	resolver *scriptedResolver
	rendered []types.ResolvedContext
	passesAt []int
	fail     error
}

func (r *recordingRenderer) Render(resctx types.ResolvedContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.rendered = append(r.rendered, resctx)
	if r.resolver != nil {
		r.passesAt = append(r.passesAt, r.resolver.passes())
	}
	return nil
}

func (r *recordingRenderer) renders() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rendered)
}

func (r *recordingRenderer) renderedAt(idx int) types.ResolvedContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rendered[idx]
}

var _ = Describe("the reconciliation loop", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("renders a constant once and stops in non-watch mode", func(ctx context.Context) {
		resolver := &scriptedResolver{seq: []types.ResolvedContext{
			{"NAME": types.StringValue("VALUE")},
		}}
		renderer := &recordingRenderer{resolver: resolver}
		err := New(resolver, renderer, Config{
			Specs: []resolve.VariableSpec{resolve.ConstVar{Name: "NAME", Value: "VALUE"}},
		}).Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(renderer.renders()).To(Equal(1))
		Expect(renderer.renderedAt(0)["NAME"]).To(Equal(types.StringValue("VALUE")))
		Expect(resolver.passes()).To(Equal(1), "exactly one resolution pass")
	})

	It("re-renders when a poll sees a changed context", func(ctx context.Context) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		resolver := &scriptedResolver{seq: []types.ResolvedContext{
			{"a": types.NullValue()},
			{"a": types.ListValue([]string{"1.2.3.4"})},
		}}
		renderer := &recordingRenderer{resolver: resolver}
		done := make(chan error, 1)
		go func() {
			done <- New(resolver, renderer, Config{
				Specs:    []resolve.VariableSpec{resolve.HostVar{Alias: "a"}},
				Watch:    true,
				Interval: 5 * time.Millisecond,
			}).Run(ctx)
		}()
		Eventually(renderer.renders).WithTimeout(5 * time.Second).Should(Equal(2))
		Expect(renderer.renderedAt(0)["a"]).To(Equal(types.NullValue()))
		Expect(renderer.renderedAt(1)["a"]).To(Equal(types.ListValue([]string{"1.2.3.4"})))
		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})

	It("keeps polling without re-rendering while the context stays equal", func(ctx context.Context) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		resolver := &scriptedResolver{seq: []types.ResolvedContext{
			{"a": types.ListValue([]string{"1.2.3.4"})},
		}}
		renderer := &recordingRenderer{resolver: resolver}
		done := make(chan error, 1)
		go func() {
			done <- New(resolver, renderer, Config{
				Specs:    []resolve.VariableSpec{resolve.HostVar{Alias: "a"}},
				Watch:    true,
				Interval: 5 * time.Millisecond,
			}).Run(ctx)
		}()
		Eventually(resolver.passes).WithTimeout(5 * time.Second).Should(BeNumerically(">=", 3),
			"several polls must have resolved")
		Expect(renderer.renders()).To(Equal(1), "no render beyond the first")
		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})

	It("fast-starts from an all-Null context before any resolution", func(ctx context.Context) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		resolver := &scriptedResolver{seq: []types.ResolvedContext{
			{"a": types.ListValue([]string{"1.2.3.4"})},
		}}
		renderer := &recordingRenderer{resolver: resolver}
		done := make(chan error, 1)
		go func() {
			done <- New(resolver, renderer, Config{
				Specs:     []resolve.VariableSpec{resolve.HostVar{Alias: "a"}},
				Watch:     true,
				Interval:  5 * time.Millisecond,
				FastStart: true,
			}).Run(ctx)
		}()
		Eventually(renderer.renders).WithTimeout(5 * time.Second).Should(Equal(2))
		renderer.mu.Lock()
		Expect(renderer.rendered[0]).To(Equal(types.ResolvedContext{"a": types.NullValue()}))
		Expect(renderer.passesAt[0]).To(BeZero(), "first render must not be preceded by DNS I/O")
		Expect(renderer.rendered[1]["a"]).To(Equal(types.ListValue([]string{"1.2.3.4"})))
		renderer.mu.Unlock()
		cancel()
		Eventually(done).Should(Receive(MatchError(context.Canceled)))
	})

	It("treats render failures as fatal", func(ctx context.Context) {
		resolver := &scriptedResolver{seq: []types.ResolvedContext{{}}}
		renderer := &recordingRenderer{fail: errors.New("disk full, pity")}
		err := New(resolver, renderer, Config{}).Run(ctx)
		Expect(err).To(MatchError("disk full, pity"))
	})

	It("launches the post-render command on every render, fatal on launch failure", func(ctx context.Context) {
		resolver := &scriptedResolver{seq: []types.ResolvedContext{{}}}
		renderer := &recordingRenderer{}
		var mu sync.Mutex
		var launched []string
		err := New(resolver, renderer, Config{
			Command: "reload-lb",
		}, WithCommandStarter(func(command string) (<-chan error, error) {
			mu.Lock()
			defer mu.Unlock()
			launched = append(launched, command)
			done := make(chan error, 1)
			close(done)
			return done, nil
		})).Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(launched).To(ConsistOf("reload-lb"))

		err = New(resolver, renderer, Config{
			Command: "reload-lb",
		}, WithCommandStarter(func(command string) (<-chan error, error) {
			return nil, errors.New("no such command")
		})).Run(ctx)
		Expect(err).To(MatchError("no such command"))
	})

	It("notifies its observer on phase transitions", func(ctx context.Context) {
		resolver := &scriptedResolver{seq: []types.ResolvedContext{{}}}
		renderer := &recordingRenderer{}
		var mu sync.Mutex
		var phases []Phase
		err := New(resolver, renderer, Config{}, WithNotify(func(ev Event) {
			mu.Lock()
			defer mu.Unlock()
			phases = append(phases, ev.Phase)
		})).Run(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(phases).To(Equal([]Phase{PhaseRender}))
	})

})

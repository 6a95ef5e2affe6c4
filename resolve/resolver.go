// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolve

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/siemens/dnstemplate/types"

	"github.com/sirupsen/logrus"
)

// NameResolver is the DNS lookup surface a [Resolver] fans out over. It is
// satisfied by [github.com/siemens/dnstemplate/dnsworker.Pool].
type NameResolver interface {
	ResolveName(ctx context.Context, name string, fn func([]string, error))
	ResolveAddr(ctx context.Context, addr string, fn func([]string, error))
}

// AddressProber gets told about every resolved address so it can probe
// reachability out-of-band. It is satisfied by
// [github.com/siemens/dnstemplate/ping.Prober].
type AddressProber interface {
	Probe(ctx context.Context, addr string)
}

// Resolver turns a list of variable specs into a [types.ResolvedContext], one
// fresh context per pass. All host variables of a pass resolve concurrently,
// and within each host variable the reverse enrichments of its addresses fan
// out concurrently again; the pass joins every spawned unit before returning.
// A failing lookup degrades its single variable to Null and never disturbs
// the others.
type Resolver struct {
	pool   NameResolver
	prober AddressProber // optional, diagnostics only.
}

// ResolverOption can be passed to New when creating new Resolver objects.
type ResolverOption func(*Resolver)

// WithProber additionally submits every resolved address to the specified
// prober. Probing is pure observability; verdicts never influence the
// resolved context.
func WithProber(prober AddressProber) ResolverOption {
	return func(r *Resolver) {
		r.prober = prober
	}
}

// New returns a new Resolver fanning its lookups out over the specified
// (pooled) name resolver.
func New(pool NameResolver, options ...ResolverOption) *Resolver {
	r := &Resolver{pool: pool}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Resolve runs one resolution pass over the specified variable specs and
// returns the resulting context. It does not return until every lookup unit
// of the pass, including the nested reverse enrichments, has completed or
// failed. Constants and literal lists resolve synchronously without any I/O.
func (r *Resolver) Resolve(ctx context.Context, specs []VariableSpec) types.ResolvedContext {
	resctx := types.ResolvedContext{}
	var mu sync.Mutex
	set := func(name string, value types.ResolvedValue) {
		mu.Lock()
		defer mu.Unlock()
		resctx[name] = value
	}
	var wg sync.WaitGroup
	for _, spec := range specs {
		switch spec := spec.(type) {
		case ConstVar:
			set(spec.Name, types.StringValue(spec.Value))
		case ListVar:
			set(spec.Name, types.ListValue(spec.Values))
		case HostVar:
			wg.Add(1)
			go func(hv HostVar) {
				defer wg.Done()
				set(hv.Alias, r.resolveHost(ctx, hv))
			}(spec)
		}
	}
	wg.Wait()
	return resctx
}

// resolveHost resolves a single host variable: forward lookup, optional
// concurrent reverse enrichment of each address, and the final lexicographic
// sort of the entries.
func (r *Resolver) resolveHost(ctx context.Context, hv HostVar) types.ResolvedValue {
	host := hv.Host()
	type result struct {
		addrs []string
		err   error
	}
	ch := make(chan result, 1)
	r.pool.ResolveName(ctx, host, func(addrs []string, err error) {
		ch <- result{addrs: addrs, err: err}
	})
	res := <-ch
	if res.err != nil {
		logrus.Debugf("%s = %s => [] : %s", hv.Alias, host, res.err)
		return types.NullValue()
	}
	if r.prober != nil {
		for _, addr := range res.addrs {
			r.prober.Probe(ctx, addr)
		}
	}
	entries := res.addrs
	if hv.Reverse != ReverseNone {
		entries = r.enrich(ctx, hv.Reverse, res.addrs)
	}
	SortEntries(entries)
	logrus.Debugf("%s = %s => %v", hv.Alias, host, entries)
	return types.ListValue(entries)
}

// enrich reverse-looks-up all specified addresses concurrently, replacing
// each one by its host name or FQDN. Every enrichment unit independently
// falls back to the literal address when its reverse lookup fails or comes
// back empty.
func (r *Resolver) enrich(ctx context.Context, mode ReverseMode, addrs []string) []string {
	entries := make([]string, len(addrs))
	var wg sync.WaitGroup
	for idx, addr := range addrs {
		idx, addr := idx, addr
		wg.Add(1)
		r.pool.ResolveAddr(ctx, addr, func(names []string, err error) {
			defer wg.Done()
			if err != nil || len(names) == 0 {
				entries[idx] = addr
				return
			}
			name := names[0]
			if mode == ReverseHostname {
				if dot := strings.IndexByte(name, '.'); dot >= 0 {
					name = name[:dot]
				}
			}
			entries[idx] = name
		})
	}
	wg.Wait()
	return entries
}

// SortEntries sorts a host variable's resolved entries in place, using plain
// lexicographic string order. This is deliberately not a numeric-aware sort:
// "10.0.0.1" sorts before "2.0.0.2". The original renderer ordered dotted
// quads this way and rendered output must stay byte-compatible with it, so
// don't "fix" this.
func SortEntries(entries []string) {
	sort.Strings(entries)
}

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"errors"
	"fmt"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
)

// Pool is a (size-limited) pool of DNS query workers all operating under the
// same immutable resolver [Config].
//
// Forward lookups are submitted using [Pool.ResolveName] and reverse lookups
// using [Pool.ResolveAddr]; both enqueue without blocking and report their
// outcome through a callback. Arbitrary DNS work can be submitted with
// [Pool.Submit] in form of task functions receiving a concrete [dns.Client].
type Pool struct {
	cfg     Config
	clnt    *dns.Client
	workers *workerpool.WorkerPool
}

// New returns a pool of the specified size of DNS query workers, with each
// query governed by the specified resolver configuration. The configuration
// is copied and never mutated afterwards.
func New(size int, cfg Config) *Pool {
	cfg.Servers = append([]string(nil), cfg.Servers...)
	cfg.Search = append([]string(nil), cfg.Search...)
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	return &Pool{
		cfg: cfg,
		clnt: &dns.Client{
			Timeout: cfg.Timeout,
		},
		workers: workerpool.New(size),
	}
}

// Config returns (a copy of) the pool's resolver configuration.
func (p *Pool) Config() Config {
	cfg := p.cfg
	cfg.Servers = append([]string(nil), cfg.Servers...)
	cfg.Search = append([]string(nil), cfg.Search...)
	return cfg
}

// Submit a task to the worker pool, where it gets enqueued to be executed on
// an available worker with the pool's shared DNS client. The client is safe
// for concurrent use.
func (p *Pool) Submit(task func(clnt *dns.Client)) {
	p.workers.Submit(func() { task(p.clnt) })
}

// ResolveName submits an A query for the specified host name and passes the
// resolved IPv4 addresses, or an error if resolution failed, to the specified
// callback function fn. fn is called exactly once.
//
// The search list and ndots rule of the pool's configuration are applied to
// relative names. Only IPv4 addresses are ever reported: the pool
// deliberately asks for A records exclusively, preserving the IPv4-only
// behavior of the original renderer.
//
// Please note that when the passed context is cancelled, in-flight as well as
// scheduled resolution jobs fail with the context's error.
func (p *Pool) ResolveName(ctx context.Context, name string, fn func([]string, error)) {
	p.Submit(func(clnt *dns.Client) {
		var addrs []string
		var err error
		defer func() { fn(addrs, err) }() // ...ensure triggering the result callback on our way out

		var r *dns.Msg
		for _, candidate := range p.cfg.nameCandidates(name) {
			r, err = p.exchange(ctx, clnt, candidate, dns.TypeA)
			if err != nil {
				return
			}
			if r.Rcode != dns.RcodeSuccess {
				continue // NXDOMAIN and friends: try the next search candidate.
			}
			for _, rr := range r.Answer {
				if addrRR, ok := rr.(*dns.A); ok {
					addrs = append(addrs, addrRR.A.String())
				}
			}
			if len(addrs) > 0 {
				return
			}
		}
		err = fmt.Errorf("ResolveName: query for %q yields no A records", name)
	})
}

// ResolveAddr submits a reverse (PTR) query for the specified IPv4 address
// literal and passes the returned FQDNs (without their trailing root dot), or
// an error if the reverse lookup failed, to the specified callback function
// fn. fn is called exactly once.
func (p *Pool) ResolveAddr(ctx context.Context, addr string, fn func([]string, error)) {
	p.Submit(func(clnt *dns.Client) {
		var names []string
		var err error
		defer func() { fn(names, err) }()

		var reversed string
		reversed, err = dns.ReverseAddr(addr)
		if err != nil {
			return
		}
		var r *dns.Msg
		r, err = p.exchange(ctx, clnt, reversed, dns.TypePTR)
		if err != nil {
			return
		}
		for _, rr := range r.Answer {
			if ptrRR, ok := rr.(*dns.PTR); ok {
				names = append(names, unrooted(ptrRR.Ptr))
			}
		}
		if len(names) == 0 {
			err = fmt.Errorf("ResolveAddr: query for %q yields no PTR records", addr)
		}
	})
}

// exchange runs a single question against the configured servers, retrying up
// to the configured number of attempts. The first reply wins, whatever its
// response code; transport errors rotate to the next server.
func (p *Pool) exchange(ctx context.Context, clnt *dns.Client, name string, qtype uint16) (*dns.Msg, error) {
	if len(p.cfg.Servers) == 0 {
		return nil, errors.New("no DNS servers configured")
	}
	msg := new(dns.Msg)
	msg.SetQuestion(name, qtype)
	msg.RecursionDesired = p.cfg.Recurse
	var lasterr error
	for attempt := 0; attempt < p.cfg.Attempts; attempt++ {
		for _, server := range p.cfg.Servers {
			// don't fire the query if the context has already been cancelled.
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			r, _, err := clnt.ExchangeContext(ctx, msg, server)
			if err != nil {
				lasterr = err
				continue
			}
			return r, nil
		}
	}
	return nil, lasterr
}

// unrooted drops the trailing root dot off an FQDN, if any.
func unrooted(fqdn string) string {
	if len(fqdn) > 1 && fqdn[len(fqdn)-1] == '.' {
		return fqdn[:len(fqdn)-1]
	}
	return fqdn
}

// StopWait waits for all enqueued lookup tasks to finish, and then shuts down
// the pool.
func (p *Pool) StopWait() {
	p.workers.StopWait()
}

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package dnsworker implements a simple limiting DNS query execution pool.
dnstemplate uses a [Pool] of “DNS workers” for the forward A lookups of its
host variables as well as for the nested reverse PTR lookups of the resolved
addresses.

All queries of a pool run under one immutable [Config] capturing the resolver
tuning (servers, search list, ndots, per-attempt timeout, attempt count,
recursion). The configuration is copied into the pool on creation and shared
read-only between the workers, so concurrent lookups can never race on it.

Usage

	cfg, _ := dnsworker.SystemConfig()
	pool := dnsworker.New(4, cfg)
	pool.ResolveName(ctx,
	    "backend.example.org",
	    func(addrs []string, err error) {
	        // do something with addrs, unless there's an error reported
	    })
	pool.StopWait()

# Acknowledgements

Under its hood, [Pool] leverages [gammazero/workerpool] as the limiting
goroutine pool and [miekg/dns] for the wire work.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[miekg/dns]: https://github.com/miekg/dns
*/
package dnsworker

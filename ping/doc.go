// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package ping implements an ICMP-based reachability prober for resolved
addresses.

[Prober] objects support concurrent probes with maximum goroutine limits.
Individual [Verdict] values are streamed as they are decided, to a channel
returned when creating a new Prober object.

Probing is pure observability: dnstemplate renders whatever DNS says,
reachable or not, and the prober merely lets an operator running with --probe
spot backends that resolve but don't answer. Verdicts therefore never feed
back into resolution, comparison, or rendering.

# Acknowledgements

Under its hood, [Prober] leverages [gammazero/workerpool] as the limiting
goroutine pool and [go-ping/ping] for the actual probing.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[go-ping/ping]: https://github.com/go-ping/ping
*/
package ping

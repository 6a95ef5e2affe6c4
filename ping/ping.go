// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/go-ping/ping"
)

// Verdict is the outcome of probing a single resolved address. Verdicts are
// diagnostics only: they annotate the debug output and never feed back into
// variable resolution or rendering.
type Verdict struct {
	Address   string // the probed IPv4 address literal.
	Reachable bool
	Err       error // optional failure details for unreachable addresses.
}

// Prober checks resolved addresses for reachability by pinging them and
// streaming the verdicts to a result channel. Probers use a goroutine-limited
// worker pool.
type Prober struct {
	count        int           // number of pings to send per address.
	interval     time.Duration // distance between pings.
	unprivileged bool          // if true, uses UDP-based pings instead of privileged ICMPs.

	workers  *workerpool.WorkerPool
	verdicts chan Verdict
	stopOnce sync.Once
}

// ProberOption can be passed to New when creating new Prober objects.
type ProberOption func(*Prober)

// New returns a new [Prober] with a maximum worker pool of the specified size
// as well as its verdict stream. The new prober defaults to pinging once with
// a one-second interval; it can be configured during creation using
// [WithCount], [WithInterval], and [AsUnprivileged].
func New(size int, options ...ProberOption) (*Prober, <-chan Verdict) {
	verdicts := make(chan Verdict, size)
	prober := &Prober{
		count:    1,
		interval: time.Second,
		workers:  workerpool.New(size),
		verdicts: verdicts,
	}
	for _, opt := range options {
		opt(prober)
	}
	return prober, verdicts
}

// WithCount sets the number of pings for testing reachability of an address.
func WithCount(count uint) ProberOption {
	return func(p *Prober) {
		p.count = int(count)
	}
}

// WithInterval sets the interval between consecutive pings.
func WithInterval(interval time.Duration) ProberOption {
	return func(p *Prober) {
		p.interval = interval
	}
}

// AsUnprivileged tells the Prober to carry out unprivileged pings using UDP
// instead of ICMP packets.
func AsUnprivileged() ProberOption {
	return func(p *Prober) {
		p.unprivileged = true
	}
}

// Probe the specified address for reachability. The verdict is sent to the
// channel returned together with the newly created [Prober].
//
// The probe is automatically aborted when the specified context either meets
// its deadline or gets cancelled; the address is then reported unreachable.
// If the context gets cancelled a pending verdict may not be echoed to the
// verdict stream at all.
func (p *Prober) Probe(ctx context.Context, addr string) {
	p.workers.Submit(func() {
		verdict := Verdict{Address: addr}
		defer func() {
			// Allow cancelling a blocked verdict send to avoid leaking
			// goroutines.
			select {
			case p.verdicts <- verdict:
			case <-ctx.Done():
			}
		}()
		select {
		case <-ctx.Done():
			verdict.Err = ctx.Err()
			return
		default:
		}

		pinger, err := ping.NewPinger(addr)
		if err != nil {
			verdict.Err = err
			return
		}
		pinger.SetPrivileged(!p.unprivileged)
		pinger.Count = p.count
		pinger.Interval = p.interval
		// Always limit waiting for the last ping to get reflected (or not)!
		pinger.Timeout = time.Duration(int64(p.interval) * int64(p.count+2))
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				pinger.Stop()
			case <-done:
			}
		}()
		if err := pinger.Run(); err != nil {
			verdict.Err = err
			return
		}
		if err := ctx.Err(); err != nil {
			verdict.Err = err
			return
		}
		if pinger.Statistics().PacketsRecv == 0 {
			verdict.Err = errors.New("no replies")
			return
		}
		verdict.Reachable = true
	})
}

// StopWait waits for all queued probes to get processed and then finally
// closes the verdict channel.
func (p *Prober) StopWait() {
	p.stopOnce.Do(func() {
		p.workers.StopWait()
		close(p.verdicts)
	})
}

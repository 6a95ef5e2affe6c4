// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/siemens/dnstemplate/dnsworker"
	"github.com/siemens/dnstemplate/ping"
	"github.com/siemens/dnstemplate/reconcile"
	"github.com/siemens/dnstemplate/render"
	"github.com/siemens/dnstemplate/resolve"

	"github.com/sirupsen/logrus"
)

// RenderAndReconcile wires the whole pipeline up from the parsed flags —
// variable specs, resolver pool, optional prober, renderer, reconciler — and
// then runs the reconciliation loop until it stops (non-watch mode) or dies
// of a fatal render/launch failure.
func RenderAndReconcile(ctx context.Context, templatePath string) error {
	specs, err := parseSpecs()
	if err != nil {
		return err
	}

	renderer, err := render.New(templatePath, *outName)
	if err != nil {
		return err
	}

	cfg, err := dnsworker.SystemConfig()
	if err != nil {
		logrus.Warnf("%s; lookups will fail until servers are configured", err)
		cfg = dnsworker.DefaultConfig()
	}
	cfg.Timeout = flagDuration(*timeout)
	cfg.Attempts = int(*attempts)
	cfg.Ndots = int(*ndots)
	cfg.Recurse = *recurse
	pool := dnsworker.New(int(*workerNumber), cfg)
	defer pool.StopWait()

	resolverOpts := []resolve.ResolverOption{}
	if *probeAddrs {
		prober, verdicts := ping.New(int(*workerNumber), ping.AsUnprivileged())
		defer prober.StopWait()
		go func() {
			for verdict := range verdicts {
				if verdict.Reachable {
					logrus.Debugf("probe: %s is reachable", verdict.Address)
					continue
				}
				logrus.Debugf("probe: %s is unreachable: %s", verdict.Address, verdict.Err)
			}
		}()
		resolverOpts = append(resolverOpts, resolve.WithProber(prober))
	}
	resolver := resolve.New(pool, resolverOpts...)

	reconcilerOpts := []reconcile.ReconcilerOption{}
	if *liveStatus {
		status := newStatusWriter(len(specs))
		defer status.Stop()
		reconcilerOpts = append(reconcilerOpts, reconcile.WithNotify(status.Notify))
	}
	return reconcile.New(resolver, renderer, reconcile.Config{
		Specs:     specs,
		Watch:     *watchCmd != "",
		Command:   *watchCmd,
		Interval:  flagDuration(*interval),
		FastStart: *fastStart,
	}, reconcilerOpts...).Run(ctx)
}

// parseSpecs turns the --const, --list, and --var flag values into variable
// specs, in that order, so the usual "last definition wins" rule also holds
// across the three flag families.
func parseSpecs() ([]resolve.VariableSpec, error) {
	specs := make([]resolve.VariableSpec, 0,
		len(*constVars)+len(*listVars)+len(*hostVars))
	for _, s := range *constVars {
		cv, err := resolve.ParseConstVar(s)
		if err != nil {
			return nil, fmt.Errorf("--const: %w", err)
		}
		specs = append(specs, cv)
	}
	for _, s := range *listVars {
		lv, err := resolve.ParseListVar(s)
		if err != nil {
			return nil, fmt.Errorf("--list: %w", err)
		}
		specs = append(specs, lv)
	}
	for _, s := range *hostVars {
		hv, err := resolve.ParseHostVar(s)
		if err != nil {
			return nil, fmt.Errorf("--var: %w", err)
		}
		specs = append(specs, hv)
	}
	return specs, nil
}

// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/siemens/dnstemplate/render"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	hostVars     *[]string
	constVars    *[]string
	listVars     *[]string
	outName      *string
	watchCmd     *string
	interval     *uint
	timeout      *uint
	attempts     *uint
	ndots        *uint
	recurse      *bool
	useMillis    *bool
	fastStart    *bool
	workerNumber *uint
	probeAddrs   *bool
	liveStatus   *bool
	debug        *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:     "dnstemplate [flags] TEMPLATE",
		Short:   "dnstemplate renders a handlebars template from DNS-resolved variables and keeps the artifact synchronized with DNS",
		Version: "1.0",
		Args:    cobra.ExactArgs(1),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *workerNumber < 1 || *workerNumber > 10 {
				return fmt.Errorf("--workers out of range [1..10]")
			}
			if *attempts < 1 {
				return fmt.Errorf("--attempts must be at least 1")
			}
			if *interval < 1 {
				return fmt.Errorf("--interval must be at least 1")
			}
			if *timeout < 1 {
				return fmt.Errorf("--timeout must be at least 1")
			}
			if *watchCmd != "" && *outName == render.Stdout {
				return fmt.Errorf("cannot use --watch with output to standard out")
			}
			if *fastStart && *watchCmd == "" {
				return fmt.Errorf("--fast-start needs --watch")
			}
			if *liveStatus && *watchCmd == "" {
				return fmt.Errorf("--status needs --watch")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if *debug {
				logrus.SetLevel(logrus.DebugLevel)
				logrus.Debugf("debug logging enabled")
			}
			return RenderAndReconcile(context.Background(), args[0])
		},
	}
	// Sets up the flags.
	hostVars = rootCmd.PersistentFlags().StringArray(
		"var", nil,
		"define a host variable N[:HOST[:hn|fqdn]] whose value is the resolved "+
			"IPv4 addresses of HOST (HOST defaults to N); \"hn\"/\"fqdn\" replace "+
			"each address by its reverse-looked-up host name or FQDN; last "+
			"definition of a name wins")
	constVars = rootCmd.PersistentFlags().StringArray(
		"const", nil, "define a constant N=VAL; last definition of a name wins")
	listVars = rootCmd.PersistentFlags().StringArray(
		"list", nil, "define a literal list N=V1=V2=...; last definition of a name wins")
	outName = rootCmd.PersistentFlags().String(
		"out", "",
		"output file name, or '-' for standard out; defaults to the template "+
			"name with a trailing '.hbs' stripped, or '.out' appended")
	watchCmd = rootCmd.PersistentFlags().String(
		"watch", "", "run CMD every time the artifact is updated, and keep polling DNS for changes")
	interval = rootCmd.PersistentFlags().Uint(
		"interval", 1, "interval between DNS change polls when using --watch")
	timeout = rootCmd.PersistentFlags().Uint(
		"timeout", 1, "DNS lookup timeout per attempt")
	attempts = rootCmd.PersistentFlags().Uint(
		"attempts", 2, "DNS lookup attempts before a variable degrades to null")
	ndots = rootCmd.PersistentFlags().Uint(
		"ndots", 1, "names with at least this many dots resolve absolute before the search list")
	recurse = rootCmd.PersistentFlags().Bool(
		"recurse", true, "ask the DNS resolver to recurse")
	useMillis = rootCmd.PersistentFlags().Bool(
		"use-millis", false, "interpret --timeout and --interval as milliseconds instead of seconds")
	fastStart = rootCmd.PersistentFlags().Bool(
		"fast-start", false, "render immediately from an all-null context, before the first DNS resolution")
	workerNumber = rootCmd.PersistentFlags().Uint(
		"workers", 5, "number of DNS (and probe) workers")
	probeAddrs = rootCmd.PersistentFlags().Bool(
		"probe", false, "ping resolved addresses and report reachability (diagnostics only)")
	liveStatus = rootCmd.PersistentFlags().Bool(
		"status", false, "show a live status line while watching")
	debug = rootCmd.PersistentFlags().Bool(
		"debug", false, "enable debugging output")
	return
}

// flagDuration converts a --timeout or --interval number into a duration,
// honoring --use-millis.
func flagDuration(value uint) time.Duration {
	if *useMillis {
		return time.Duration(value) * time.Millisecond
	}
	return time.Duration(value) * time.Second
}

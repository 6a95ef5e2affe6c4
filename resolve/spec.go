// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolve

import (
	"fmt"
	"strings"
)

// ReverseMode controls whether and how a host variable's resolved addresses
// get enriched through reverse DNS.
type ReverseMode int

// The reverse-enrichment modes of a host variable.
const (
	ReverseNone     ReverseMode = iota // keep the plain addresses.
	ReverseHostname                    // replace each address by its host name (FQDN up to the first dot).
	ReverseFQDN                        // replace each address by its full FQDN.
)

// String returns the clear-text representation of a ReverseMode value.
func (m ReverseMode) String() string {
	switch m {
	case ReverseNone:
		return "none"
	case ReverseHostname:
		return "hostname"
	case ReverseFQDN:
		return "fqdn"
	}
	return fmt.Sprintf("ReverseMode(%d)", int(m))
}

// VariableSpec describes one template variable to be bound during a
// resolution pass: a DNS-resolved [HostVar], a [ConstVar], or a literal
// [ListVar]. When multiple specs share a variable name the definition
// processed last wins, as with the original renderer.
type VariableSpec interface {
	// VarName returns the template variable name this spec binds.
	VarName() string
}

// HostVar names a template variable whose value is the (sorted) list of IPv4
// addresses the hostname resolves to, optionally reverse-enriched. A zero
// Hostname means "same as the alias".
type HostVar struct {
	Alias    string
	Hostname string
	Reverse  ReverseMode
}

// VarName returns the template variable name this host variable binds.
func (v HostVar) VarName() string { return v.Alias }

// Host returns the hostname to resolve, defaulting to the alias.
func (v HostVar) Host() string {
	if v.Hostname == "" {
		return v.Alias
	}
	return v.Hostname
}

// ConstVar binds a template variable to a fixed string.
type ConstVar struct {
	Name  string
	Value string
}

// VarName returns the template variable name this constant binds.
func (v ConstVar) VarName() string { return v.Name }

// ListVar binds a template variable to a fixed, ordered list of strings.
type ListVar struct {
	Name   string
	Values []string
}

// VarName returns the template variable name this list binds.
func (v ListVar) VarName() string { return v.Name }

// ParseHostVar parses the textual "NAME[:HOST[:hn|fqdn]]" form of a host
// variable, as accepted by the --var flag.
func ParseHostVar(s string) (HostVar, error) {
	parts := strings.SplitN(s, ":", 3)
	if parts[0] == "" {
		return HostVar{}, fmt.Errorf("host variable %q lacks a name", s)
	}
	hv := HostVar{Alias: parts[0]}
	if len(parts) > 1 {
		hv.Hostname = parts[1]
	}
	if len(parts) > 2 {
		switch parts[2] {
		case "hn":
			hv.Reverse = ReverseHostname
		case "fqdn":
			hv.Reverse = ReverseFQDN
		default:
			return HostVar{}, fmt.Errorf(
				"host variable %q: reverse mode must be \"hn\" or \"fqdn\", got %q", s, parts[2])
		}
	}
	return hv, nil
}

// ParseConstVar parses the textual "NAME=VALUE" form of a constant, as
// accepted by the --const flag.
func ParseConstVar(s string) (ConstVar, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return ConstVar{}, fmt.Errorf("constant %q isn't in NAME=VALUE form", s)
	}
	return ConstVar{Name: name, Value: value}, nil
}

// ParseListVar parses the textual "NAME=V1=V2=..." form of a literal list, as
// accepted by the --list flag.
func ParseListVar(s string) (ListVar, error) {
	parts := strings.Split(s, "=")
	if len(parts) < 2 || parts[0] == "" {
		return ListVar{}, fmt.Errorf("list %q isn't in NAME=V1=V2... form", s)
	}
	return ListVar{Name: parts[0], Values: parts[1:]}, nil
}

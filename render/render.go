// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siemens/dnstemplate/types"

	"github.com/aymerick/raymond"
	"github.com/sirupsen/logrus"
)

// Stdout is the destination sentinel selecting standard output instead of a
// file.
const Stdout = "-"

// Renderer renders one precompiled handlebars template to a fixed
// destination, once per [Renderer.Render] call. The template is compiled
// exactly once, when the Renderer is created; a compile failure surfaces
// there and nowhere else.
type Renderer struct {
	tpl  *raymond.Template
	dest string
}

// New returns a Renderer for the specified template file, rendering to the
// specified destination. An empty destination is inferred from the template
// file name: a trailing ".hbs" is stripped, otherwise ".out" gets appended.
// Use the [Stdout] sentinel to render to standard output instead.
func New(templatePath, dest string) (*Renderer, error) {
	tpl, err := raymond.ParseFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("cannot parse template %s: %w", templatePath, err)
	}
	if dest == "" {
		dest = InferOutputName(templatePath)
	}
	return &Renderer{tpl: tpl, dest: dest}, nil
}

// Dest returns the destination this Renderer writes to.
func (r *Renderer) Dest() string { return r.dest }

// InferOutputName derives the output file name from a template file name, the
// way the original renderer did: "haproxy.cfg.hbs" becomes "haproxy.cfg", and
// a template without the ".hbs" suffix gets ".out" appended.
func InferOutputName(templatePath string) string {
	if strings.HasSuffix(templatePath, ".hbs") {
		return strings.TrimSuffix(templatePath, ".hbs")
	}
	return templatePath + ".out"
}

// Render executes the template against the specified context and replaces the
// destination wholesale. A file destination is written to a temporary file
// first and renamed into place, so a failed render never leaves a
// half-written artifact behind. Render failures are fatal to the caller:
// there is no meaningful degraded state for a config generator whose output
// cannot be produced.
func (r *Renderer) Render(resctx types.ResolvedContext) error {
	text, err := r.tpl.Exec(resctx.Template())
	if err != nil {
		return fmt.Errorf("cannot render template: %w", err)
	}
	if r.dest == Stdout {
		if _, err := os.Stdout.WriteString(text); err != nil {
			return fmt.Errorf("cannot write to standard output: %w", err)
		}
		return nil
	}
	// The artifact gets consumed by other processes (a load balancer
	// re-reading its config, say), so it must not stay at CreateTemp's
	// owner-only mode; an existing destination keeps whatever mode the
	// operator gave it.
	mode := os.FileMode(0o644)
	if info, err := os.Stat(r.dest); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.dest), "."+filepath.Base(r.dest)+".*")
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", r.dest, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot create %s: %w", r.dest, err)
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot write %s: %w", r.dest, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot write %s: %w", r.dest, err)
	}
	if err := os.Rename(tmp.Name(), r.dest); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cannot replace %s: %w", r.dest, err)
	}
	logrus.Debugf("%s updated", r.dest)
	return nil
}

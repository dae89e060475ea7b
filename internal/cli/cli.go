// Package cli holds the flag handling shared by the fetch and visualize commands.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/rainfall-grid-etl/internal/render"
)

// Process exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Command wraps a FlagSet bound to Options.
type Command struct {
	fs   *flag.FlagSet
	out  io.Writer
	opts Options

	name              string
	summary           string
	withInterpolation bool
}

// New creates a command named name. The interpolation flag is only registered when
// withInterpolation is set.
func New(name, summary string, withInterpolation bool, output io.Writer) *Command {
	c := &Command{
		fs:                flag.NewFlagSet(name, flag.ContinueOnError),
		out:               output,
		name:              name,
		summary:           summary,
		withInterpolation: withInterpolation,
	}
	// Errors and usage are reported by Parse.
	c.fs.SetOutput(io.Discard)
	c.fs.Usage = func() {}

	const fromUsage = "first year to process (inclusive)"
	const toUsage = "last year to process (inclusive)"
	c.fs.Func("f", fromUsage, yearFlag(&c.opts.From))
	c.fs.Func("from-year", fromUsage, yearFlag(&c.opts.From))
	c.fs.Func("t", toUsage, yearFlag(&c.opts.To))
	c.fs.Func("to-year", toUsage, yearFlag(&c.opts.To))
	if withInterpolation {
		c.opts.Interpolation = render.Nearest
		interpUsage := "interpolation method: " + strings.Join(render.InterpolationNames(), ", ") + " (default nearest)"
		c.fs.Func("i", interpUsage, interpolationFlag(&c.opts.Interpolation))
		c.fs.Func("interpolation", interpUsage, interpolationFlag(&c.opts.Interpolation))
	}
	return c
}

// Parse parses args. Year values are not range-checked here; the resolver reports
// bounds problems. On failure it returns the exit code to use, having printed the
// error and usage; help requests print usage and map to ExitOK.
func (c *Command) Parse(args []string) (Options, int, bool) {
	if err := c.fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.Usage()
			return Options{}, ExitOK, false
		}
		return Options{}, c.UsageError(err), false
	}
	if c.fs.NArg() > 0 {
		return Options{}, c.UsageError(fmt.Errorf("unexpected arguments: %s", strings.Join(c.fs.Args(), " "))), false
	}
	return c.opts, ExitOK, true
}

// Usage prints the synopsis, summary and flag defaults.
func (c *Command) Usage() {
	fmt.Fprintf(c.out, "usage: %s [-f YEAR] [-t YEAR]", c.name)
	if c.withInterpolation {
		fmt.Fprint(c.out, " [-i METHOD]")
	}
	fmt.Fprintf(c.out, "\n\n%s\n\n", c.summary)
	c.fs.SetOutput(c.out)
	c.fs.PrintDefaults()
	c.fs.SetOutput(io.Discard)
}

// UsageError prints the error and usage, returning ExitUsage.
func (c *Command) UsageError(err error) int {
	fmt.Fprintf(c.out, "Error: %v\n", err)
	c.Usage()
	return ExitUsage
}

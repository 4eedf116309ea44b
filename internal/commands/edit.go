package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"notes/internal/config"
	"notes/internal/exitcode"
	"notes/internal/pipeline"
	"notes/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a string flag that records whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       optionalString
	description optionalString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(t string) { c.title.Set(t) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(d string) { c.description.Set(d) }

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title or description" }
func (c *EditCmd) Usage() string {
	return "notes edit [--title <text>] [--description <text>] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }
func (c *EditCmd) Mutates() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description = optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ref, n, err := parseOne(args)
	if err != nil {
		return reportRefError(errOut, err)
	}
	if len(args) > n {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[n])
		return exitcode.UserError
	}
	if !c.title.set && !c.description.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --description)")
		return exitcode.UserError
	}

	store := pipeline.New(svc)
	snap, err := loadSnapshot(ctx, store)
	if err != nil {
		return reportError(errOut, err)
	}
	task, err := snap.find(ref)
	if err != nil {
		return reportError(errOut, err)
	}

	if c.title.set {
		task.Title = c.title.value
	}
	if c.description.set {
		task.Description = c.description.value
	}
	if err := store.Dispatch(ctx, pipeline.Update{Task: task}); err != nil {
		return reportError(errOut, err)
	}
	return reportOK(cfg, out)
}

package commands

import (
	"context"
	"flag"
	"io"

	"notes/internal/config"
	"notes/internal/pipeline"
	"notes/internal/service"
)

func init() {
	Register(&DoneCmd{})
	Register(&UndoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string  { return "Mark tasks completed" }
func (c *DoneCmd) Usage() string     { return "notes done <ref...>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }
func (c *DoneCmd) Mutates() bool     { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runOnRefs(ctx, cfg, svc, args, out, errOut, func(t service.Task) pipeline.Action {
		return pipeline.SetCompleted{Task: t, Completed: true}
	})
}

// UndoneCmd implements the undone command.
type UndoneCmd struct{}

func (c *UndoneCmd) Name() string      { return "undone" }
func (c *UndoneCmd) Aliases() []string { return []string{"reopen"} }
func (c *UndoneCmd) Synopsis() string  { return "Move completed tasks back to active" }
func (c *UndoneCmd) Usage() string     { return "notes undone <ref...>" }
func (c *UndoneCmd) NeedsAuth() bool   { return true }
func (c *UndoneCmd) Mutates() bool     { return true }

func (c *UndoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UndoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runOnRefs(ctx, cfg, svc, args, out, errOut, func(t service.Task) pipeline.Action {
		return pipeline.SetCompleted{Task: t, Completed: false}
	})
}

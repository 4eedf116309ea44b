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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete tasks" }
func (c *RmCmd) Usage() string     { return "notes rm <ref...>" }
func (c *RmCmd) NeedsAuth() bool   { return true }
func (c *RmCmd) Mutates() bool     { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runOnRefs(ctx, cfg, svc, args, out, errOut, func(t service.Task) pipeline.Action {
		return pipeline.Delete{Task: t}
	})
}

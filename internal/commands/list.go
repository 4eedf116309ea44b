package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"notes/internal/config"
	"notes/internal/exitcode"
	"notes/internal/output"
	"notes/internal/pipeline"
	"notes/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `notes` (no args) and `notes list`.
type ListCmd struct {
	long bool
}

// SetLong enables descriptions (for testing).
func (c *ListCmd) SetLong(long bool) {
	c.long = long
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List active and completed tasks" }
func (c *ListCmd) Usage() string     { return "notes list [--long]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.long, "long", false, "")
	fs.BoolVar(&c.long, "l", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	store := pipeline.New(svc)
	if err := store.Refresh(ctx); err != nil {
		return reportError(errOut, err)
	}

	// Active tasks print without a header
	n := output.FormatTasks(out, 0, store.Active(), c.long)

	completed := store.Completed()
	if tasks, ok := completed.Data(); !ok || len(tasks) > 0 {
		output.FormatListHeader(out, "Completed")
		n += output.FormatTasks(out, output.CompletedPrefix, completed, c.long)
	}

	if n == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"notes/internal/config"
	"notes/internal/exitcode"
	"notes/internal/pipeline"
	"notes/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

// SetDescription sets the description (for testing).
func (c *AddCmd) SetDescription(d string) {
	c.description = d
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "notes add [--description <text>] <title...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }
func (c *AddCmd) Mutates() bool     { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	store := pipeline.New(svc)
	err := store.Dispatch(ctx, pipeline.Add{Task: service.Task{
		Title:       strings.Join(args, " "),
		Description: c.description,
	}})
	if err != nil {
		return reportError(errOut, err)
	}
	return reportOK(cfg, out)
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"notes/internal/config"
	"notes/internal/exitcode"
	"notes/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "notes help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	writeHelp(out, DefaultRegistry)
	return exitcode.Success
}

func writeHelp(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %-58s %s\n", "notes", "List active and completed tasks")
	for _, cmd := range r.All() {
		usage := cmd.Usage()
		if len(usage) > 58 {
			fmt.Fprintf(w, "  %s\n  %-58s %s\n", usage, "", cmd.Synopsis())
			continue
		}
		fmt.Fprintf(w, "  %-58s %s\n", usage, cmd.Synopsis())
	}
	if aliases := aliasLines(r); aliases != "" {
		fmt.Fprintf(w, "\nAliases:\n%s", aliases)
	}
	fmt.Fprint(w, helpFooter)
}

func aliasLines(r *Registry) string {
	var b strings.Builder
	for _, cmd := range r.All() {
		if len(cmd.Aliases()) > 0 {
			fmt.Fprintf(&b, "  %-8s %s\n", cmd.Name(), strings.Join(cmd.Aliases(), ", "))
		}
	}
	return b.String()
}

const helpFooter = `
Task references:
  3, a3, a 3       third active task
  c2, c 2          second completed task

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Settings are read from the environment and <config dir>/notes.env:
  NOTES_BACKEND    memory (default, serve only), googletasks or aztables
  NOTES_TASKLIST   Google Tasks list id (default @default)
  STORAGE_CONNECTION_STRING, TASKS_TABLE, TASKS_PARTITION
                   Azure Tables settings
  REDIS_URL        Publish and follow change notices through redis
`

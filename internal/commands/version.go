package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime"

	"notes/internal/config"
	"notes/internal/exitcode"
	"notes/internal/service"
)

// Version is the application version. Set at build time.
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the version and, with --long, the settings in effect.
type VersionCmd struct {
	long bool
}

// SetLong enables the settings listing (for testing).
func (c *VersionCmd) SetLong(long bool) {
	c.long = long
}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version and active settings" }
func (c *VersionCmd) Usage() string     { return "notes version [--long]" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.long, "long", false, "")
	fs.BoolVar(&c.long, "l", false, "")
}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "notes %s\n", Version)
	if !c.long {
		return exitcode.Success
	}

	fmt.Fprintf(out, "go       %s\n", runtime.Version())
	fmt.Fprintf(out, "config   %s\n", cfg.Dir)
	fmt.Fprintf(out, "backend  %s\n", backendSummary(cfg))
	if cfg.RedisURL != "" {
		fmt.Fprintf(out, "changes  %s\n", cfg.ChangesChannel)
	}
	return exitcode.Success
}

// backendSummary names the backend and the collection it reads.
func backendSummary(cfg *config.Config) string {
	switch cfg.Backend {
	case config.BackendGoogleTasks:
		return fmt.Sprintf("%s (list %s)", cfg.Backend, cfg.TaskList)
	case config.BackendAzTables:
		return fmt.Sprintf("%s (table %s, partition %s)", cfg.Backend, cfg.TasksTable, cfg.TasksPartition)
	default:
		return cfg.Backend
	}
}

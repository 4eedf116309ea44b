package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"notes/internal/config"
	"notes/internal/exitcode"
	"notes/internal/service"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd forgets the Google Tasks token. The OAuth client file and
// notes.env are left alone so a later login or backend switch needs no setup.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Forget the Google Tasks token" }
func (c *LogoutCmd) Usage() string     { return "notes logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	hadToken := cfg.HasToken()
	if hadToken {
		if err := cfg.RemoveToken(); err != nil {
			return reportError(errOut, &service.Failure{
				Kind: service.Unknown,
				Msg:  fmt.Sprintf("remove %s: %v", cfg.TokenPath(), err),
				Err:  service.ErrAuth,
			})
		}
	}
	if cfg.Quiet {
		return exitcode.Success
	}

	if hadToken {
		fmt.Fprintln(out, "ok")
	} else {
		fmt.Fprintln(out, "not logged in")
	}
	if cfg.Backend != config.BackendGoogleTasks {
		fmt.Fprintf(errOut, "note: backend is %s; the Google token is only used when NOTES_BACKEND=%s\n",
			cfg.Backend, config.BackendGoogleTasks)
	}
	return exitcode.Success
}

// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"notes/internal/config"
	"notes/internal/exitcode"
	"notes/internal/pipeline"
	"notes/internal/service"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a backend.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided (config dir, paths).
	// svc is nil if NeedsAuth() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}

// Mutator is implemented by commands that change tasks. The dispatcher
// refuses them on a backend that would forget the change on exit.
type Mutator interface {
	Mutates() bool
}

// reportError prints err and returns the matching exit code.
func reportError(errOut io.Writer, err error) int {
	code := exitcode.FromError(err)
	switch code {
	case exitcode.AuthError:
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
	case exitcode.BackendError:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return code
}

func reportOK(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// runOnRefs resolves every ref in args against one snapshot of both lists,
// then dispatches the action built for each task in order.
func runOnRefs(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer, build func(service.Task) pipeline.Action) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		return reportRefError(errOut, err)
	}

	store := pipeline.New(svc)
	snap, err := loadSnapshot(ctx, store)
	if err != nil {
		return reportError(errOut, err)
	}

	targets := make([]service.Task, 0, len(refs))
	for _, ref := range refs {
		task, err := snap.find(ref)
		if err != nil {
			return reportError(errOut, err)
		}
		targets = append(targets, task)
	}

	for _, task := range targets {
		if err := store.Dispatch(ctx, build(task)); err != nil {
			return reportError(errOut, err)
		}
	}
	return reportOK(cfg, out)
}

func reportRefError(errOut io.Writer, err error) int {
	if errors.Is(err, ErrTaskRefRequired) {
		fmt.Fprintln(errOut, "error: task reference required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"notes/internal/changes"
	"notes/internal/config"
	"notes/internal/exitcode"
	"notes/internal/pipeline"
	"notes/internal/server"
	"notes/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve both task lists over HTTP" }
func (c *ServeCmd) Usage() string     { return "notes serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsAuth() bool   { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	addr := c.addr
	if addr == "" {
		addr = cfg.ListenAddr
	}

	logger := log.StandardLogger()
	store := pipeline.New(svc, pipeline.WithLogger(logger))
	// A failed first load is published to subscribers; serving continues.
	_ = store.Refresh(ctx)

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid REDIS_URL: %v\n", err)
			return exitcode.UserError
		}
		rc := redis.NewClient(opts)
		defer rc.Close()

		notices, err := changes.Listen(ctx, rc, cfg.ChangesChannel, cfg.Origin, logger)
		if err != nil {
			return reportError(errOut, service.ConnectivityError(err))
		}
		go store.Watch(ctx, notices)
	}

	if !cfg.Quiet {
		fmt.Fprintf(errOut, "listening on %s\n", addr)
	}
	if err := server.New(store, logger).Run(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}

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
	Register(&FavCmd{})
	Register(&UnfavCmd{})
}

// FavCmd implements the fav command.
type FavCmd struct{}

func (c *FavCmd) Name() string      { return "fav" }
func (c *FavCmd) Aliases() []string { return nil }
func (c *FavCmd) Synopsis() string  { return "Mark tasks as favorite" }
func (c *FavCmd) Usage() string     { return "notes fav <ref...>" }
func (c *FavCmd) NeedsAuth() bool   { return true }
func (c *FavCmd) Mutates() bool     { return true }

func (c *FavCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FavCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runOnRefs(ctx, cfg, svc, args, out, errOut, func(t service.Task) pipeline.Action {
		return pipeline.SetFavorite{Task: t, Favorite: true}
	})
}

// UnfavCmd implements the unfav command.
type UnfavCmd struct{}

func (c *UnfavCmd) Name() string      { return "unfav" }
func (c *UnfavCmd) Aliases() []string { return nil }
func (c *UnfavCmd) Synopsis() string  { return "Clear the favorite mark" }
func (c *UnfavCmd) Usage() string     { return "notes unfav <ref...>" }
func (c *UnfavCmd) NeedsAuth() bool   { return true }
func (c *UnfavCmd) Mutates() bool     { return true }

func (c *UnfavCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UnfavCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runOnRefs(ctx, cfg, svc, args, out, errOut, func(t service.Task) pipeline.Action {
		return pipeline.SetFavorite{Task: t, Favorite: false}
	})
}

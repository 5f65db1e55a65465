package cli

import (
	"context"

	"github.com/matzehuels/swarmcheck/pkg/api"
	"github.com/matzehuels/swarmcheck/pkg/cache"
	"github.com/matzehuels/swarmcheck/pkg/store"
)

// newRunner builds an [api.Runner] backed by the CLI's configured cache and
// (if Mongo.URI is set) run-history store. A store connection failure is
// logged and treated as "persistence disabled" rather than a command
// failure, the same degrade-on-unreachable posture [CLI.newCache] takes.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *api.Runner {
	var runStore api.RunStore
	if c.Config.Mongo.URI != "" {
		s, err := store.New(ctx, store.Config{
			URI:        c.Config.Mongo.URI,
			Database:   c.Config.Mongo.Database,
			Collection: c.Config.Mongo.Collection,
		})
		if err != nil {
			c.Logger.Warn("run history store unavailable, persistence disabled", "err", err)
		} else {
			runStore = s
		}
	}
	return api.NewRunner(c.newCache(ctx, noCache), cache.NewDefaultKeyer(), runStore, c.Logger)
}

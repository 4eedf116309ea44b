package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"notes/internal/backend/aztables"
	"notes/internal/backend/googletasks"
	"notes/internal/backend/memory"
	"notes/internal/changes"
	"notes/internal/config"
	"notes/internal/service"
)

// OpenService builds the backend selected by cfg.Backend. When cfg.RedisURL
// is set, confirmed mutations are announced on the change channel.
func OpenService(ctx context.Context, cfg *config.Config) (service.Service, error) {
	var svc service.Service
	switch cfg.Backend {
	case config.BackendGoogleTasks:
		if !cfg.HasOAuthClient() {
			return nil, authFailure(fmt.Sprintf("oauth_client.json not found in %s", cfg.Dir))
		}
		if !cfg.HasToken() {
			return nil, authFailure("not logged in (run: notes login)")
		}
		client, err := googletasks.New(ctx, cfg)
		if err != nil {
			return nil, authFailure(err.Error())
		}
		svc = client
	case config.BackendAzTables:
		store, err := aztables.New(cfg.StorageConnectionString, cfg.TasksTable, cfg.TasksPartition)
		if err != nil {
			return nil, fmt.Errorf("storage: %w", err)
		}
		if err := store.EnsureTable(ctx); err != nil {
			return nil, err
		}
		svc = store
	default:
		svc = memory.New()
	}

	if cfg.RedisURL == "" {
		return svc, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, service.Validationf("invalid REDIS_URL: %v", err)
	}
	pub := changes.NewRedisPublisher(redis.NewClient(opts), cfg.ChangesChannel)
	return changes.NewNotifying(svc, pub, cfg.Origin, log.StandardLogger()), nil
}

func authFailure(msg string) error {
	return &service.Failure{Kind: service.Unknown, Msg: msg, Err: service.ErrAuth}
}

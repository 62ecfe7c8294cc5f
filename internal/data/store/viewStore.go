package store

import (
	"context"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/domain/viewModel"
)

// NewViewStore prefers redis when enabled and reachable, otherwise memory.
func NewViewStore(ctx context.Context, cfg config.RedisConfig) viewModel.ViewStore {
	if cfg.Enabled {
		if s := GetRedisViewStore(ctx, cfg); s != nil {
			return s
		}
		inMemLogger.Warn("Redis unavailable, keeping views in memory", "addr", cfg.Addr)
	}
	return InitInMemoryViewStore(cfg.ViewTTL)
}

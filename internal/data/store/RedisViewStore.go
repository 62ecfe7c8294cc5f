package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/akolanti/DocQA/internal/config"
	"github.com/akolanti/DocQA/internal/data/redisStore"
	"github.com/akolanti/DocQA/internal/domain/viewModel"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

const viewKeyPrefix = "docqa:view:"

type RedisViewStore struct {
	store  *redisStore.Store
	ttl    time.Duration
	logger *logger_i.Logger
}

// GetRedisViewStore returns nil when redis is offline.
func GetRedisViewStore(ctx context.Context, cfg config.RedisConfig) *RedisViewStore {
	s := redisStore.GetRedisStore(ctx, cfg)
	if s == nil {
		return nil
	}
	return NewRedisViewStore(s, cfg.ViewTTL)
}

func NewRedisViewStore(s *redisStore.Store, ttl time.Duration) *RedisViewStore {
	return &RedisViewStore{
		store:  s,
		ttl:    ttl,
		logger: logger_i.NewLogger("ViewStore"),
	}
}

func (s *RedisViewStore) SaveView(ctx context.Context, sessionId string, view viewModel.SessionView) error {
	log := s.logger.With("traceId", config.TraceID(ctx), "sessionId", sessionId)
	if view.UpdatedAt.IsZero() {
		view.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(view)
	if err != nil {
		return err
	}

	err = s.store.Set(ctx, viewKeyPrefix+sessionId, data, s.ttl)
	if err == nil {
		log.Debug("Saved view to Redis")
	}
	return err
}

func (s *RedisViewStore) GetView(ctx context.Context, sessionId string) (viewModel.SessionView, bool) {
	var view viewModel.SessionView
	log := s.logger.With("traceId", config.TraceID(ctx), "sessionId", sessionId)
	val, err := s.store.Get(ctx, viewKeyPrefix+sessionId)
	if s.store.IsNil(err) {
		return view, false
	} else if err != nil {
		log.Error("Error reading view from Redis", "error", err)
		return view, false
	}

	if err = json.Unmarshal([]byte(val), &view); err != nil {
		log.Error("Stored view is not valid json", "error", err)
		return viewModel.SessionView{}, false
	}
	return view, true
}

func (s *RedisViewStore) DeleteView(ctx context.Context, sessionId string) {
	if err := s.store.Del(ctx, viewKeyPrefix+sessionId); err != nil {
		s.logger.Error("Error deleting view from Redis", "sessionId", sessionId, "error", err)
		return
	}
	s.logger.Debug("View deleted from Redis", "sessionId", sessionId)
}

package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/DocQA/internal/domain/viewModel"
	"github.com/akolanti/DocQA/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem ViewStore")

// InMemoryViewStore keeps session views in process. Views older than ttl are
// treated as missing; a ttl of zero keeps them forever.
type InMemoryViewStore struct {
	viewMutex *sync.RWMutex
	viewMap   map[string]viewModel.SessionView
	ttl       time.Duration
	now       func() time.Time
}

func InitInMemoryViewStore(ttl time.Duration) *InMemoryViewStore {
	return &InMemoryViewStore{
		viewMutex: new(sync.RWMutex),
		viewMap:   make(map[string]viewModel.SessionView),
		ttl:       ttl,
		now:       time.Now,
	}
}

func (store *InMemoryViewStore) SaveView(ctx context.Context, sessionId string, view viewModel.SessionView) error {
	store.viewMutex.Lock()
	defer store.viewMutex.Unlock()
	if view.UpdatedAt.IsZero() {
		view.UpdatedAt = store.now()
	}
	store.viewMap[sessionId] = view
	inMemLogger.Debug("Saved view", "sessionId", sessionId, "mode", view.Mode)
	return nil
}

func (store *InMemoryViewStore) GetView(ctx context.Context, sessionId string) (viewModel.SessionView, bool) {
	store.viewMutex.RLock()
	result, found := store.viewMap[sessionId]
	store.viewMutex.RUnlock()

	if found && store.expired(result) {
		store.DeleteView(ctx, sessionId)
		return viewModel.SessionView{}, false
	}
	return result, found
}

func (store *InMemoryViewStore) DeleteView(ctx context.Context, sessionId string) {
	store.viewMutex.Lock()
	defer store.viewMutex.Unlock()
	delete(store.viewMap, sessionId)
}

func (store *InMemoryViewStore) expired(view viewModel.SessionView) bool {
	return store.ttl > 0 && store.now().Sub(view.UpdatedAt) > store.ttl
}

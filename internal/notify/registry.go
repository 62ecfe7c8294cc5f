package notify

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/DocQA/pkg/logger_i"
)

// Session groups the indicators of one browser session.
type Session struct {
	Loading *Loading
	Banner  *Banner

	lastSeen time.Time
}

func (s *Session) BeginLoading() string {
	return s.Loading.Begin()
}

func (s *Session) EndLoading(token string) {
	s.Loading.End(token)
}

func (s *Session) ShowError(message string) {
	s.Banner.Show(message)
}

// Registry hands out one Session per session id.
type Registry struct {
	mu             sync.Mutex
	sessions       map[string]*Session
	bannerDuration time.Duration
	now            func() time.Time
	logger         *logger_i.Logger
}

func NewRegistry(bannerDuration time.Duration) *Registry {
	return &Registry{
		sessions:       make(map[string]*Session),
		bannerDuration: bannerDuration,
		now:            time.Now,
		logger:         logger_i.NewLogger("Notifications"),
	}
}

func (r *Registry) For(sessionId string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionId]
	if !ok {
		s = &Session{Loading: NewLoading(), Banner: NewBanner(r.bannerDuration)}
		r.sessions[sessionId] = s
	}
	s.lastSeen = r.now()
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions not seen for idle and with nothing in flight.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-idle)
	removed := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) && !s.Loading.Visible() {
			s.Banner.Dismiss()
			s.Loading.releaseAll()
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps every period until ctx is done.
func (r *Registry) StartJanitor(ctx context.Context, period time.Duration, idle time.Duration) {
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Sweep(idle); n > 0 {
					r.logger.Debug("Dropped idle notification sessions", "count", n)
				}
			}
		}
	}()
}

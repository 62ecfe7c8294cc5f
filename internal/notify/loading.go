package notify

import (
	"sync"

	"github.com/akolanti/DocQA/internal/adapter/utils"
	"github.com/akolanti/DocQA/internal/metrics"
)

// Loading is visible while at least one action holds a token. Each Begin is
// matched by exactly one End, so overlapping actions cannot hide each other.
type Loading struct {
	mu     sync.Mutex
	tokens map[string]struct{}
}

func NewLoading() *Loading {
	return &Loading{tokens: make(map[string]struct{})}
}

func (l *Loading) Begin() string {
	token := utils.GetNewUUID()
	l.mu.Lock()
	l.tokens[token] = struct{}{}
	l.mu.Unlock()
	metrics.IncrementLoading()
	return token
}

// End releases token. Unknown or already released tokens are ignored.
func (l *Loading) End(token string) {
	l.mu.Lock()
	_, held := l.tokens[token]
	delete(l.tokens, token)
	l.mu.Unlock()
	if held {
		metrics.DecrementLoading()
	}
}

func (l *Loading) Visible() bool {
	return l.InFlight() > 0
}

func (l *Loading) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tokens)
}

func (l *Loading) releaseAll() {
	l.mu.Lock()
	n := len(l.tokens)
	l.tokens = make(map[string]struct{})
	l.mu.Unlock()
	for i := 0; i < n; i++ {
		metrics.DecrementLoading()
	}
}

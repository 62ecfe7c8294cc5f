package notify

import (
	"sync"
	"time"
)

// Banner shows one error message at a time and hides it after duration.
// Showing a new message stops the previous timer, and a timer that fires late
// checks the generation it was armed for, so it can only hide its own message.
type Banner struct {
	mu         sync.Mutex
	duration   time.Duration
	message    string
	visible    bool
	generation uint64
	timer      *time.Timer
	hideAt     time.Time
}

func NewBanner(duration time.Duration) *Banner {
	return &Banner{duration: duration}
}

func (b *Banner) Show(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopTimerLocked()
	b.generation++
	b.message = message
	b.visible = true
	b.hideAt = time.Now().Add(b.duration)

	armed := b.generation
	b.timer = time.AfterFunc(b.duration, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.generation == armed {
			b.visible = false
			b.timer = nil
		}
	})
}

func (b *Banner) Dismiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopTimerLocked()
	b.generation++
	b.visible = false
}

// Current returns the message and whether it is still showing.
func (b *Banner) Current() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.visible {
		return "", false
	}
	return b.message, true
}

// Remaining is how long the current message stays up, zero when hidden.
func (b *Banner) Remaining() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.visible {
		return 0
	}
	return max(time.Until(b.hideAt), 0)
}

func (b *Banner) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

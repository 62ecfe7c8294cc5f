package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/akolanti/DocQA/internal/notify"
)

// cliNotifier prints banner messages on stderr. Loading is tracked but not drawn.
type cliNotifier struct {
	mu      sync.Mutex
	out     io.Writer
	loading *notify.Loading
}

func newCLINotifier(out io.Writer) *cliNotifier {
	return &cliNotifier{out: out, loading: notify.NewLoading()}
}

func (n *cliNotifier) BeginLoading() string {
	return n.loading.Begin()
}

func (n *cliNotifier) EndLoading(token string) {
	n.loading.End(token)
}

func (n *cliNotifier) ShowError(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, message)
}

package customHttpClient

import (
	"net/http"

	"github.com/akolanti/DocQA/internal/config"
)

// newTransport keeps connections to the QA service warm across requests.
func newTransport(cfg config.ServiceConfig) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = cfg.MaxIdleConns
	transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	transport.IdleConnTimeout = cfg.IdleConnTimeout
	return transport
}

func newHttpClient(cfg config.ServiceConfig) *http.Client {
	return &http.Client{
		Transport: newTransport(cfg),
		Timeout:   cfg.Timeout,
	}
}

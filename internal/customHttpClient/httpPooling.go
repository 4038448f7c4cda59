package customHttpClient

import (
	"net/http"
	"sync"

	"github.com/chatlet/chatlet/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var (
	client     *http.Client
	clientOnce sync.Once
)

// GetClient returns the shared pooled client used for page fetches during URL
// ingestion. Per-request deadlines come from the caller's context, so no
// client-level timeout here.
func GetClient() *http.Client {
	clientOnce.Do(func() {
		client = &http.Client{
			Transport: customTransport,
		}
	})
	return client
}

package proxy

import (
	"net"
	"net/http"
	"time"

	"github.com/cloudsound/gateway/internal/config"
)

// NewTransport builds the pooled transport shared by every backend call.
// One long-lived connection pool serves the whole gateway.
func NewTransport(cfg config.ProxyConfig) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          cfg.MaxIdleConns,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:       time.Duration(cfg.IdleConnTimeoutSeconds) * time.Second,
		TLSHandshakeTimeout:   time.Duration(cfg.TLSHandshakeTimeoutSeconds) * time.Second,
		ResponseHeaderTimeout: time.Duration(cfg.ResponseHeaderTimeoutSeconds) * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

package proxy

import (
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/williampepple1/redirlookup/internal/config"
)

// Manager handles proxy selection and rotation. It is safe for concurrent use.
type Manager struct {
	Config *config.ProxyConfig
	next   atomic.Uint64
}

// NewManager creates a new proxy manager
func NewManager(config *config.ProxyConfig) *Manager {
	return &Manager{
		Config: config,
	}
}

// Enabled reports whether requests should go through a proxy.
func (m *Manager) Enabled() bool {
	return m.Config != nil && m.Config.Enabled && len(m.Config.List) > 0
}

// GetProxyURL returns the proxy to use for the next trace, or nil when
// proxies are disabled. With rotation on, proxies are handed out round-robin.
func (m *Manager) GetProxyURL() (*url.URL, error) {
	if !m.Enabled() {
		return nil, nil
	}

	proxyStr := m.Config.List[0]
	if m.Config.Rotate && len(m.Config.List) > 1 {
		i := m.next.Add(1) - 1
		proxyStr = m.Config.List[i%uint64(len(m.Config.List))]
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", proxyStr, err)
	}
	if proxyURL.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q: missing host", proxyStr)
	}

	if m.Config.Auth.Username != "" && m.Config.Auth.Password != "" {
		proxyURL.User = url.UserPassword(m.Config.Auth.Username, m.Config.Auth.Password)
	}

	return proxyURL, nil
}

// ApplyToTransport applies the next proxy to an HTTP transport and returns
// the proxy used, or "" when none applies.
func (m *Manager) ApplyToTransport(transport *http.Transport) (string, error) {
	proxyURL, err := m.GetProxyURL()
	if err != nil {
		return "", err
	}

	if proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
		return proxyURL.Redacted(), nil
	}

	return "", nil
}

package proxy

import (
	"math/rand"
	"net/url"
	"sync"

	"github.com/williampepple1/listing-scraper/internal/config"
)

// Manager handles proxy selection and rotation for both fetch backends
type Manager struct {
	Config *config.ProxyConfig

	mu   sync.Mutex
	next int
}

// NewManager creates a new proxy manager
func NewManager(config *config.ProxyConfig) *Manager {
	return &Manager{
		Config: config,
	}
}

// Enabled reports whether requests should go through a proxy
func (m *Manager) Enabled() bool {
	return m != nil && m.Config.Enabled && len(m.Config.List) > 0
}

// GetProxyURL returns a proxy URL from the configuration, nil when disabled
func (m *Manager) GetProxyURL() (*url.URL, error) {
	if !m.Enabled() {
		return nil, nil
	}

	proxyStr := m.pick()

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		return nil, err
	}

	// Add authentication if provided
	if m.Config.Auth.Username != "" && m.Config.Auth.Password != "" {
		proxyURL.User = url.UserPassword(m.Config.Auth.Username, m.Config.Auth.Password)
	}

	return proxyURL, nil
}

// Server returns the proxy as scheme://host for the browser, which takes
// credentials separately
func (m *Manager) Server() (string, error) {
	proxyURL, err := m.GetProxyURL()
	if err != nil || proxyURL == nil {
		return "", err
	}
	return proxyURL.Scheme + "://" + proxyURL.Host, nil
}

func (m *Manager) pick() string {
	list := m.Config.List
	if !m.Config.Rotate || len(list) == 1 {
		return list[0]
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next == 0 {
		m.next = rand.Intn(len(list))
	}
	p := list[m.next%len(list)]
	m.next++
	return p
}

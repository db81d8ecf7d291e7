package client

import (
	"fmt"
	"sync"

	"github.com/yungbote/temporalguard/internal/envutil"
	"github.com/yungbote/temporalguard/logger"

	"go.opentelemetry.io/otel"
	temporalsdkclient "go.temporal.io/sdk/client"
	sdkotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/interceptor"
)

// Manager hands out one Temporal client per namespace, dialing lazily and
// caching the result. When TELEMETRY_ENABLED is set, every client shares a
// single tracing interceptor.
type Manager struct {
	log *logger.Logger

	mu      sync.Mutex
	clients map[string]temporalsdkclient.Client

	tracingOnce sync.Once
	tracing     interceptor.ClientInterceptor
	tracingErr  error
}

func NewManager(log *logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		log:     log,
		clients: map[string]temporalsdkclient.Client{},
	}
}

// Default returns the client for the configured namespace.
func (m *Manager) Default() (temporalsdkclient.Client, error) {
	return m.For(LoadConfig().Namespace)
}

// For returns the cached client for the namespace, dialing it on first use.
func (m *Manager) For(namespace string) (temporalsdkclient.Client, error) {
	if m == nil {
		return nil, fmt.Errorf("client: nil manager")
	}
	if namespace == "" {
		return nil, fmt.Errorf("client: manager: empty namespace")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.clients[namespace]; ok {
		return c, nil
	}

	ics, err := m.interceptors()
	if err != nil {
		return nil, err
	}

	cfg := LoadConfig()
	cfg.Namespace = namespace
	c, err := dial(m.log, cfg, ics)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("client: manager: temporal disabled (no address configured)")
	}

	m.clients[namespace] = c
	return c, nil
}

func (m *Manager) interceptors() ([]interceptor.ClientInterceptor, error) {
	if !envutil.Bool("TELEMETRY_ENABLED", false) {
		return nil, nil
	}
	m.tracingOnce.Do(func() {
		ti, err := sdkotel.NewTracingInterceptor(sdkotel.TracerOptions{
			Tracer: otel.Tracer("temporalguard"),
		})
		if err != nil {
			m.tracingErr = fmt.Errorf("client: manager: init tracing interceptor: %w", err)
			return
		}
		m.tracing = ti
	})
	if m.tracingErr != nil {
		return nil, m.tracingErr
	}
	return []interceptor.ClientInterceptor{m.tracing}, nil
}

// CloseAll closes every cached client. The manager stays usable; the next
// For call dials again.
func (m *Manager) CloseAll() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for ns, c := range m.clients {
		c.Close()
		delete(m.clients, ns)
	}
}

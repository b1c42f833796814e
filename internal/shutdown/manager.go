package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"table2spatial/internal/logger"
)

const DefaultTimeout = 10 * time.Second

type Shutdownable interface {
	Shutdown()
}

// ShutdownFunc adapts a plain function to Shutdownable.
type ShutdownFunc func()

func (f ShutdownFunc) Shutdown() { f() }

type entry struct {
	name      string
	component Shutdownable
}

type Manager struct {
	components []entry
	logger     logger.Logger
	timeout    time.Duration
	mu         sync.Mutex
	done       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewManager(log logger.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		components: make([]entry, 0),
		logger:     log,
		timeout:    DefaultTimeout,
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// SetTimeout bounds how long a single component may take to shut down.
func (m *Manager) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = d
}

func (m *Manager) Register(name string, component Shutdownable) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.components = append(m.components, entry{name: name, component: component})
}

func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			m.logger.Info("ShutdownManager", "shutdown signal received", map[string]interface{}{
				"signal": sig.String(),
			})
			m.Shutdown()
		case <-m.done:
		}
		signal.Stop(sigChan)
	}()
}

func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return // Already shutting down
	default:
		close(m.done)
	}

	m.logger.Info("ShutdownManager", "shutdown sequence initiated", map[string]interface{}{
		"components": len(m.components),
	})

	m.cancel()

	// Reverse registration order
	for i := len(m.components) - 1; i >= 0; i-- {
		e := m.components[i]

		done := make(chan struct{})
		go func() {
			defer close(done)
			e.component.Shutdown()
		}()

		select {
		case <-done:
			m.logger.Debug("ShutdownManager", "component stopped", map[string]interface{}{
				"component": e.name,
			})
		case <-time.After(m.timeout):
			m.logger.Warning("ShutdownManager", "component shutdown timeout", map[string]interface{}{
				"component": e.name,
				"timeout":   m.timeout.String(),
			})
		}
	}

	m.logger.Info("ShutdownManager", "shutdown sequence completed", nil)
}

func (m *Manager) Context() context.Context {
	return m.ctx
}

func (m *Manager) Done() <-chan struct{} {
	return m.done
}

package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
)

var ErrCycle = errors.New("circular service dependency")

// Hub owns registered services and drives them through their lifecycle in dependency order
type Hub struct {
	mu       sync.RWMutex
	services map[string]Service
	sorted   []string // Dependency order, computed on InitAll
	started  []string // Services that completed Start, for rollback and StopAll
	logger   *log.Logger
}

// NewHub creates an empty hub; a nil logger discards
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Hub{
		services: make(map[string]Service),
		logger:   logger,
	}
}

// Register adds a service
func (h *Hub) Register(svc Service) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, exists := h.services[name]; exists {
		return fmt.Errorf("service already registered: %s", name)
	}
	h.services[name] = svc
	h.sorted = nil
	return nil
}

// Get retrieves a service by name
func (h *Hub) Get(name string) (Service, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	svc, ok := h.services[name]
	return svc, ok
}

// InitAll resolves dependencies and calls Init on every service with args
// On failure, already-initialized services are stopped in reverse order
func (h *Hub) InitAll(args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sorted == nil {
		order, err := dependencyOrder(h.services)
		if err != nil {
			return err
		}
		h.sorted = order
	}

	var initialized []string
	for _, name := range h.sorted {
		if err := h.services[name].Init(args...); err != nil {
			for i := len(initialized) - 1; i >= 0; i-- {
				h.stop(initialized[i])
			}
			return fmt.Errorf("service %s init failed: %w", name, err)
		}
		initialized = append(initialized, name)
	}
	return nil
}

// StartAll calls Start in dependency order
// On failure, already-started services are stopped in reverse order
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sorted == nil {
		return errors.New("StartAll before InitAll")
	}

	h.started = nil
	for _, name := range h.sorted {
		if err := h.services[name].Start(); err != nil {
			for i := len(h.started) - 1; i >= 0; i-- {
				h.stop(h.started[i])
			}
			h.started = nil
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
		h.started = append(h.started, name)
		h.logger.Printf("service: %s started", name)
	}
	return nil
}

// StopAll stops started services in reverse order
// Errors are logged; every service gets its Stop call
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i := len(h.started) - 1; i >= 0; i-- {
		h.stop(h.started[i])
	}
	h.started = nil
}

func (h *Hub) stop(name string) {
	if err := h.services[name].Stop(); err != nil {
		h.logger.Printf("service: %s stop: %v", name, err)
	}
}

// Order returns the dependency order computed by InitAll
func (h *Hub) Order() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.sorted...)
}

// dependencyOrder sorts services so each follows everything it depends on
// Among services that are ready at the same time, names are taken alphabetically
func dependencyOrder(services map[string]Service) ([]string, error) {
	pending := make(map[string]int, len(services)) // Unsatisfied dependency count
	users := make(map[string][]string)

	for name := range services {
		pending[name] = 0
	}
	for name, svc := range services {
		for _, dep := range svc.Dependencies() {
			if _, ok := services[dep]; !ok {
				return nil, fmt.Errorf("service %s depends on unregistered service: %s", name, dep)
			}
			pending[name]++
			users[dep] = append(users[dep], name)
		}
	}

	order := make([]string, 0, len(services))
	for len(order) < len(services) {
		next := ""
		for name, n := range pending {
			if n == 0 && (next == "" || name < next) {
				next = name
			}
		}
		if next == "" {
			return nil, ErrCycle
		}
		delete(pending, next)
		order = append(order, next)
		for _, user := range users[next] {
			pending[user]--
		}
	}
	return order, nil
}

// Names returns registered service names, sorted
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.services))
	for name := range h.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

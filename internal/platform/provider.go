package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
)

// Provider bundles the capabilities of one backend.
type Provider struct {
	Name     string
	Keyboard Keyboard
	Mouse    Mouse
	// Close releases backend resources. It may be nil.
	Close func() error
}

// Shutdown calls Close when set.
func (p *Provider) Shutdown() error {
	if p == nil || p.Close == nil {
		return nil
	}
	return p.Close()
}

// ErrUnsupported is returned when no backend can be opened on this system.
var ErrUnsupported = fmt.Errorf("no input backend is available on %s/%s", runtime.GOOS, runtime.GOARCH)

// ErrUnknownBackend is returned by NewProvider for unregistered names.
var ErrUnknownBackend = errors.New("unknown input backend")

// Options are passed to backend factories.
type Options struct {
	// DeviceName names virtual devices created by the backend.
	DeviceName string
	Logger     *slog.Logger
}

// Factory opens a backend.
type Factory func(opts Options) (*Provider, error)

// Backend describes a registered backend.
type Backend struct {
	Name string
	// Priority orders backends for "auto"; higher is tried first. Backends
	// with a zero priority are only used when named explicitly.
	Priority int
	New      Factory
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Backend{}
)

// Register makes a backend available. Backend packages call it from init().
func Register(b Backend) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[b.Name] = b
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewProvider opens the named backend. "auto" (or "") tries every backend
// with a positive priority, highest first, and returns the first that opens.
func NewProvider(name string, opts Options) (*Provider, error) {
	if opts.DeviceName == "" {
		opts.DeviceName = "macropad"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	registryMu.RLock()
	var candidates []Backend
	if name == "" || name == "auto" {
		for _, b := range registry {
			if b.Priority > 0 {
				candidates = append(candidates, b)
			}
		}
	} else if b, ok := registry[name]; ok {
		candidates = append(candidates, b)
	}
	registryMu.RUnlock()

	if len(candidates) == 0 {
		if name == "" || name == "auto" {
			return nil, ErrUnsupported
		}
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, Backends())
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Priority > candidates[j].Priority })

	var errs []error
	for _, b := range candidates {
		p, err := b.New(opts)
		if err != nil {
			opts.Logger.Debug("input backend unavailable", "backend", b.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
			continue
		}
		if p.Name == "" {
			p.Name = b.Name
		}
		return p, nil
	}
	if len(candidates) == 1 {
		return nil, errs[0]
	}
	return nil, fmt.Errorf("%w: %w", ErrUnsupported, errors.Join(errs...))
}

package logger

import "sync"

// registry caches component loggers derived from the global logger.
var registry = &namedLoggers{byName: make(map[string]*Logger)}

type namedLoggers struct {
	mu     sync.Mutex
	byName map[string]*Logger
	pinned map[string]bool
}

func (r *namedLoggers) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range r.byName {
		if !r.pinned[name] {
			delete(r.byName, name)
		}
	}
}

// Register pins l under name. Pinned loggers survive Init.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if registry.pinned == nil {
		registry.pinned = make(map[string]bool)
	}
	registry.byName[name] = l
	registry.pinned[name] = true
}

// Get returns the logger registered under name, or the global logger tagged
// with component=name.
func Get(name string) *Logger {
	registry.mu.Lock()
	l, ok := registry.byName[name]
	registry.mu.Unlock()
	if ok {
		return l
	}

	l = GetGlobalLogger().WithComponent(name)
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if cached, ok := registry.byName[name]; ok {
		return cached
	}
	registry.byName[name] = l
	return l
}

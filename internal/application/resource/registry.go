package resource

import (
	"context"
	"fmt"
	"sort"

	"github.com/bizsuite/backend/internal/domain/shared"
)

// Lister is the type-erased read side of a Service. Exports resolve
// their data type through it.
type Lister interface {
	Group() string
	Name() string
	Label() string
	ListRecords(ctx context.Context, p shared.Principal, filter shared.Filter) ([]any, int64, error)
}

// Registry indexes services by their "<group>.<name>" key.
type Registry struct {
	byKey map[string]Lister
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: map[string]Lister{}}
}

// Add registers l. Registering a key twice panics.
func (r *Registry) Add(l Lister) {
	key := l.Group() + "." + l.Name()
	if _, dup := r.byKey[key]; dup {
		panic(fmt.Sprintf("resource %s registered twice", key))
	}
	r.byKey[key] = l
}

// Get returns the service registered under key.
func (r *Registry) Get(key string) (Lister, bool) {
	l, ok := r.byKey[key]
	return l, ok
}

// Has reports whether key names a registered service.
func (r *Registry) Has(key string) bool {
	_, ok := r.byKey[key]
	return ok
}

// Keys returns every registered key in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

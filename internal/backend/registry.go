package backend

import "fmt"

// Registry maps explicit backend identifiers to implementations. Selection
// is by identifier supplied with the request; an empty identifier resolves
// to the default backend.
type Registry struct {
	backends  map[string]Backend
	defaultID string
}

func NewRegistry(defaultID string) *Registry {
	return &Registry{
		backends:  make(map[string]Backend),
		defaultID: defaultID,
	}
}

func (r *Registry) Register(id string, b Backend) {
	r.backends[id] = b
}

func (r *Registry) Get(id string) (Backend, error) {
	if id == "" {
		id = r.defaultID
	}
	b, ok := r.backends[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, id)
	}
	return b, nil
}

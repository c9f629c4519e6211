package services

import (
	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
)

// AdapterRegistry maps each source kind to its adapter. Adding a source
// means adding one adapter implementation and one Register call; the
// orchestrator never branches on kinds.
type AdapterRegistry struct {
	adapters map[domain.SourceKind]driven.SourceAdapter
}

// NewAdapterRegistry creates an empty registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{
		adapters: make(map[domain.SourceKind]driven.SourceAdapter),
	}
}

// Register adds an adapter under its own kind, replacing any previous
// registration for that kind.
func (r *AdapterRegistry) Register(adapter driven.SourceAdapter) {
	r.adapters[adapter.Kind()] = adapter
}

// Get returns the adapter for a kind, or nil when none is registered.
func (r *AdapterRegistry) Get(kind domain.SourceKind) driven.SourceAdapter {
	return r.adapters[kind]
}

// Kinds returns the registered kinds in priority order.
func (r *AdapterRegistry) Kinds() []domain.SourceKind {
	kinds := make([]domain.SourceKind, 0, len(r.adapters))
	for _, k := range domain.AllSourceKinds() {
		if _, ok := r.adapters[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

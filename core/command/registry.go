package command

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps identifiers to receivers. An identifier maps to at most one
// receiver; a receiver may appear under several identifiers.
//
// Registration is expected during setup, before dispatch starts. Lookups are
// safe for concurrent use by several dispatchers.
type Registry struct {
	receivers map[Identifier]Receiver
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{receivers: make(map[Identifier]Receiver)}
}

// Register installs r for id, replacing any previous mapping.
//
// Example:
//
//	device := command.Share(command.NewSimpleReceiver("UART0"))
//	_ = registry.Register(command.SimpleDataRequest, device)
//	_ = registry.Register(command.UnimplementedRequest, device)
func (r *Registry) Register(id Identifier, receiver Receiver) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidIdentifier, uint8(id))
	}
	if receiver == nil {
		return fmt.Errorf("%w: %s", ErrNilReceiver, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.receivers[id] = receiver
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(id Identifier, receiver Receiver) {
	if err := r.Register(id, receiver); err != nil {
		panic(err)
	}
}

// Resolve returns the receiver registered for id.
func (r *Registry) Resolve(id Identifier) (Receiver, bool) {
	r.mu.RLock()
	receiver, ok := r.receivers[id]
	r.mu.RUnlock()
	return receiver, ok
}

// Identifiers returns the registered identifiers in ascending order.
func (r *Registry) Identifiers() []Identifier {
	r.mu.RLock()
	ids := make([]Identifier, 0, len(r.receivers))
	for id := range r.receivers {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Len returns the number of registered identifiers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.receivers)
}

// Package presence tracks which chat rooms the viewer currently has open and
// pushes online/offline signals to every open room transport.
package presence

import "sync"

type Set map[string]struct{}

// Registry records the rooms the viewer is actively viewing. State is binary
// per room, default inactive, and resets with the process.
type Registry struct {
	mu          sync.RWMutex
	activeRooms Set
}

func NewRegistry() *Registry {
	return &Registry{activeRooms: make(Set)}
}

// MarkActive adds a room to the active set. Idempotent, no-op on empty id.
func (r *Registry) MarkActive(roomID string) {
	if roomID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeRooms[roomID] = struct{}{}
}

// MarkInactive removes a room from the active set. Idempotent.
func (r *Registry) MarkInactive(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.activeRooms, roomID)
}

// IsActive is a pure membership test.
func (r *Registry) IsActive(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.activeRooms[roomID]
	return ok
}

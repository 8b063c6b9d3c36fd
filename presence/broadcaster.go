package presence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"agro-chat/contract"
)

// statusPayload is the wire shape the room backend expects for presence.
type statusPayload struct {
	IsOnline bool `json:"is_online"`
}

// Broadcaster pushes the viewer's online/offline state to every room whose
// transport is currently open. Presence is soft state: every send is
// best-effort and fire-and-forget, with no retry, no acknowledgement, and no
// ordering guarantee across rooms.
type Broadcaster struct {
	mu         sync.RWMutex
	transports map[string]contract.Transport
	log        *slog.Logger
}

func NewBroadcaster(log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		transports: make(map[string]contract.Transport),
		log:        log,
	}
}

// Track registers the transport of an opened room. The broadcaster never
// opens or closes the transport itself.
func (b *Broadcaster) Track(roomID string, t contract.Transport) {
	if roomID == "" || t == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transports[roomID] = t
}

// Untrack forgets a room transport, usually after the routing surface closed it.
func (b *Broadcaster) Untrack(roomID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.transports, roomID)
}

// Transport resolves the tracked handle of a room, for callers that need to
// push a payload to one specific room.
func (b *Broadcaster) Transport(roomID string) (contract.Transport, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	t, ok := b.transports[roomID]
	return t, ok
}

// SetOnline broadcasts the presence flag to every ready transport and reports
// whether the broadcast loop completed. Transports that are not ready are
// silently skipped; a failing room send is logged and does not stop the loop.
// A panicking transport is recovered and turned into a negative result, never
// propagated to the caller.
func (b *Broadcaster) SetOnline(isOnline bool) (completed bool) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Presence broadcast aborted", "panic", r)
			completed = false
		}
	}()

	payload, err := json.Marshal(statusPayload{IsOnline: isOnline})
	if err != nil {
		b.log.Error("Presence payload encoding failed", "error", err)
		return false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for roomID, transport := range b.transports {
		if !transport.Ready() {
			continue
		}
		if err := transport.Send(payload); err != nil {
			b.log.Warn(fmt.Sprintf("Presence send failed for room %s", roomID), "error", err)
			continue
		}
		b.log.Debug("Sent online status", "room", roomID, "online", isOnline)
	}
	return true
}

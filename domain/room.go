package domain

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// LastMessage is the preview text shown on a room card.
type LastMessage struct {
	Text string    `json:"text"`
	At   time.Time `json:"timestamp"`
}

// RoomSummary is a read-only projection of a marketplace chat room, consumed
// from the backend for list rendering. The client never mutates it.
type RoomSummary struct {
	RoomID       string       `json:"room_id"`
	Counterparty string       `json:"counterparty_name"`
	ProductRef   string       `json:"product_ref,omitempty"`
	Last         *LastMessage `json:"last_message,omitempty"`
	HasUnread    bool         `json:"has_unread"`
}

// FilterRooms keeps the summaries matching a case-insensitive substring of the
// counterparty name, product reference, or last message preview. An empty term
// returns the input unchanged.
func FilterRooms(rooms []RoomSummary, term string) []RoomSummary {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rooms
	}
	return lo.Filter(rooms, func(r RoomSummary, _ int) bool {
		if strings.Contains(strings.ToLower(r.Counterparty), term) {
			return true
		}
		if strings.Contains(strings.ToLower(r.ProductRef), term) {
			return true
		}
		return r.Last != nil && strings.Contains(strings.ToLower(r.Last.Text), term)
	})
}

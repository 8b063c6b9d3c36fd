// Package domain contains core concepts of the marketplace chat client.
// This file defines Message entities and related rules.
// A message text is mutable only while its Streaming flag is raised.
package domain

import (
	"time"

	"github.com/google/uuid"
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message represents one entry of a conversation log.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Streaming bool      `json:"streaming,omitempty"`
	At        time.Time `json:"at"`
}

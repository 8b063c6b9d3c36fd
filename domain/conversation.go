package domain

import (
	"time"

	"github.com/google/uuid"
)

// Texts shown to the viewer by the assistant surface.
const (
	GreetingText = "Hello! How can I help you with your agricultural needs today?"
	ClearedText  = "Chat history cleared. How can I help you today?"
	ApologyText  = "Sorry, I encountered an error. Please try again."
)

// GuestViewerID is used when no authenticated identity is known.
const GuestViewerID = "guest"

// Conversation is the ordered message history of one viewer on the assistant
// surface. Insertion order is significant and never changed afterwards.
// At most one message is streaming at any time, and it is always the last one.
type Conversation struct {
	ViewerID string
	Messages []Message
}

// NewConversation seeds a conversation with the deterministic greeting so the
// surface is never empty.
func NewConversation(viewerID string) *Conversation {
	return &Conversation{
		ViewerID: viewerID,
		Messages: []Message{assistantMessage(GreetingText)},
	}
}

// Restore rebuilds a conversation from a persisted message list. It returns
// false when the list is structurally unusable (empty), in which case the
// caller must reseed. A lingering streaming flag from an interrupted session
// is cleared: no chunk producer can exist for it anymore.
func Restore(viewerID string, messages []Message) (*Conversation, bool) {
	if len(messages) == 0 {
		return nil, false
	}
	for i := range messages {
		messages[i].Streaming = false
	}
	return &Conversation{ViewerID: viewerID, Messages: messages}, true
}

// AppendUser records the viewer's outgoing text.
func (c *Conversation) AppendUser(text string) Message {
	m := Message{
		ID:     uuid.New(),
		Sender: SenderUser,
		Text:   text,
		At:     time.Now().UTC(),
	}
	c.Messages = append(c.Messages, m)
	return m
}

// BeginReply appends the empty streaming placeholder the chunks will fill.
func (c *Conversation) BeginReply() {
	c.Messages = append(c.Messages, Message{
		ID:        uuid.New(),
		Sender:    SenderAssistant,
		Streaming: true,
		At:        time.Now().UTC(),
	})
}

// AppendChunk concatenates a fragment to the trailing streaming reply.
// It reports whether the chunk was applied: a chunk arriving after the reply
// completed, failed, or was cleared must be dropped, not resurrected.
func (c *Conversation) AppendChunk(fragment string) bool {
	last := c.tail()
	if last == nil || last.Sender != SenderAssistant || !last.Streaming {
		return false
	}
	last.Text += fragment
	return true
}

// FinishReply lowers the streaming flag of the trailing reply.
func (c *Conversation) FinishReply() {
	if last := c.tail(); last != nil && last.Sender == SenderAssistant && last.Streaming {
		last.Streaming = false
	}
}

// FailReply terminates the trailing streaming reply with the fixed apology
// text so no message is ever left permanently streaming.
func (c *Conversation) FailReply() {
	if last := c.tail(); last != nil && last.Sender == SenderAssistant && last.Streaming {
		last.Text = ApologyText
		last.Streaming = false
	}
}

// Reset discards the history and reseeds with the acknowledgement message.
func (c *Conversation) Reset() {
	c.Messages = []Message{assistantMessage(ClearedText)}
}

// Streaming reports whether a reply is currently under construction.
func (c *Conversation) Streaming() bool {
	last := c.tail()
	return last != nil && last.Streaming
}

func (c *Conversation) tail() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

func assistantMessage(text string) Message {
	return Message{
		ID:     uuid.New(),
		Sender: SenderAssistant,
		Text:   text,
		At:     time.Now().UTC(),
	}
}

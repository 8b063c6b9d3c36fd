//go:generate go run go.uber.org/mock/mockgen -source=conversation.go -destination=../mocks/mock_conversation_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"agro-chat/domain"
)

// Conversations are stored under one key per viewer so a snapshot write
// replaces the previous one atomically.
const conversationKeyPrefix = "agrobot_chat_"

type IConversationRepository interface {
	Get(viewerID string) ([]domain.Message, error)
	Set(viewerID string, messages []domain.Message) error
	Remove(viewerID string) error
}

type ConversationRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewConversationRepository(db *badger.DB, log *slog.Logger) ConversationRepository {
	return ConversationRepository{db: db, log: log}
}

// Get loads the persisted message list for a viewer. An absent key is not an
// error and yields a nil slice; an undecodable value is an error so the caller
// can discard the snapshot and reseed.
func (c ConversationRepository) Get(viewerID string) ([]domain.Message, error) {
	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(conversationKey(viewerID))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil, fmt.Errorf("corrupted conversation for %q: %w", viewerID, err)
	}
	return messages, nil
}

// Set persists the full message list for a viewer as one JSON snapshot.
func (c ConversationRepository) Set(viewerID string, messages []domain.Message) error {
	raw, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(conversationKey(viewerID), raw)
	})
}

// Remove drops the persisted conversation of a viewer. Removing an absent key
// is a no-op.
func (c ConversationRepository) Remove(viewerID string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(conversationKey(viewerID))
	})
}

func conversationKey(viewerID string) []byte {
	if viewerID == "" {
		viewerID = domain.GuestViewerID
	}
	return []byte(conversationKeyPrefix + viewerID)
}

package repositories

import (
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"agro-chat/domain"
)

func TestConversationRepository_RoundTrip(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	repository := NewConversationRepository(db, slog.Default())

	// Given a two-message conversation
	messages := []domain.Message{
		{ID: uuid.New(), Sender: domain.SenderAssistant, Text: domain.GreetingText, At: time.Now().UTC()},
		{ID: uuid.New(), Sender: domain.SenderUser, Text: "When should I plant maize?", At: time.Now().UTC()},
	}

	// When writing and reading it back
	req.NoError(repository.Set("farmer-1", messages))
	loaded, err := repository.Get("farmer-1")

	// Then the snapshot is identical
	req.NoError(err)
	req.Len(loaded, 2)
	req.Equal(messages[0].ID, loaded[0].ID)
	req.Equal(messages[1].Text, loaded[1].Text)
	req.Equal(domain.SenderUser, loaded[1].Sender)
}

func TestConversationRepository_AbsentViewerIsNotAnError(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	repository := NewConversationRepository(db, slog.Default())

	// When reading a viewer that never wrote anything
	loaded, err := repository.Get("nobody")

	// Then both the snapshot and the error are nil
	req.NoError(err)
	req.Nil(loaded)
}

func TestConversationRepository_CorruptedValueSurfacesError(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	// Given a value under the viewer key that is not JSON
	req.NoError(db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("agrobot_chat_farmer-1"), []byte("not json at all"))
	}))
	repository := NewConversationRepository(db, slog.Default())

	// When reading the viewer
	loaded, err := repository.Get("farmer-1")

	// Then the corruption is reported instead of silently swallowed
	req.Error(err)
	req.Nil(loaded)
}

func TestConversationRepository_Remove(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	repository := NewConversationRepository(db, slog.Default())
	req.NoError(repository.Set("farmer-1", []domain.Message{{Text: "to be dropped"}}))

	// When removing the viewer, twice
	req.NoError(repository.Remove("farmer-1"))
	req.NoError(repository.Remove("farmer-1"))

	// Then the snapshot is gone and the second remove was a no-op
	loaded, err := repository.Get("farmer-1")
	req.NoError(err)
	req.Nil(loaded)
}

func TestConversationRepository_EmptyViewerFallsBackToGuest(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	defer db.Close()

	repository := NewConversationRepository(db, slog.Default())

	// When writing with an empty viewer id
	req.NoError(repository.Set("", []domain.Message{{Text: "anonymous note"}}))

	// Then the snapshot lands under the guest identity
	loaded, err := repository.Get(domain.GuestViewerID)
	req.NoError(err)
	req.Len(loaded, 1)
	req.Equal("anonymous note", loaded[0].Text)
}

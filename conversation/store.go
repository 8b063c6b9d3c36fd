//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=../mocks/mock_streamer.go -package=mocks
// Package conversation owns the ordered message log of the assistant surface
// and mediates between a send request and the incremental arrival of the
// reply. It is the single writer of the conversation; chunk callbacks,
// completions, and clears may interleave from different goroutines.
package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"agro-chat/ai"
	"agro-chat/domain"
	"agro-chat/domain/search"
	"agro-chat/errors"
	"agro-chat/repositories"
)

// Streamer is the send-and-stream collaborator boundary. onChunk may be
// invoked zero or more times, in order, before the call returns.
type Streamer interface {
	SendAndStream(ctx context.Context, session *ai.Session, text string, onChunk ai.ChunkFunc) (string, error)
}

type sendRequest struct {
	Text string `validate:"required,max=2000"`
}

var validate = validator.New()

// Store holds one viewer's conversation, persists it after every mutation,
// and guards streamed appends with a generation token: Clear or a new Send
// bumps the generation, and any chunk or completion carrying a stale
// generation is dropped instead of resurrecting old text.
type Store struct {
	mu         sync.Mutex
	log        *slog.Logger
	repository repositories.IConversationRepository
	index      *repositories.HistoryIndex
	streamer   Streamer

	session    *ai.Session
	conv       *domain.Conversation
	generation uint64
	inFlight   bool
}

func NewStore(log *slog.Logger, repository repositories.IConversationRepository,
	index *repositories.HistoryIndex, streamer Streamer) *Store {
	return &Store{
		log:        log,
		repository: repository,
		index:      index,
		streamer:   streamer,
	}
}

// Initialize loads the persisted conversation for a viewer, discarding any
// absent, corrupted, or empty snapshot in favour of the seed greeting. It
// never fails: every problem is logged and recovered locally. The session may
// be nil when the vendor credential is invalid; sends are then rejected until
// a session is attached.
func (s *Store) Initialize(viewerID string, session *ai.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session
	s.generation++

	messages, err := s.repository.Get(viewerID)
	if err != nil {
		s.log.Warn("Discarding unreadable conversation snapshot", "viewer", viewerID, "error", err)
		messages = nil
	}

	conv, ok := domain.Restore(viewerID, messages)
	if !ok {
		conv = domain.NewConversation(viewerID)
	}
	s.conv = conv
	s.persistLocked()
}

// AttachSession installs a session established after a retry.
func (s *Store) AttachSession(session *ai.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

// Messages returns a snapshot of the conversation for rendering.
func (s *Store) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Message, len(s.conv.Messages))
	copy(out, s.conv.Messages)
	return out
}

// Send appends the user turn plus a streaming placeholder, then feeds the
// placeholder from the collaborator's chunk callbacks. Re-entrant sends are
// rejected outright while a prior stream is unresolved. The conversation is
// always left consistent: on failure the placeholder is terminated with the
// fixed apology text.
func (s *Store) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.ErrEmptyMessage
	}
	if err := validate.Struct(sendRequest{Text: text}); err != nil {
		return errors.ErrMessageTooLong
	}

	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return errors.ErrNoSession
	}
	if s.inFlight {
		s.mu.Unlock()
		return errors.ErrSendInFlight
	}
	s.inFlight = true
	s.generation++
	generation := s.generation

	userMessage := s.conv.AppendUser(text)
	s.conv.BeginReply()
	s.persistLocked()
	session := s.session
	s.mu.Unlock()

	_, err := s.streamer.SendAndStream(ctx, session, text, func(fragment string) {
		s.applyChunk(generation, fragment)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if s.generation != generation {
		// The conversation was cleared mid-stream; the placeholder is gone.
		return nil
	}

	if err != nil {
		s.log.Warn("Assistant send failed", "viewer", s.conv.ViewerID, "error", err)
		s.conv.FailReply()
		s.persistLocked()
		return nil
	}

	s.conv.FinishReply()
	s.persistLocked()
	s.indexExchangeLocked(userMessage)
	return nil
}

// Clear discards the persisted and in-memory history and reseeds with the
// acknowledgement message. An in-flight stream is invalidated by the
// generation bump; its late chunks are dropped. Calling Clear twice yields
// the same single-message state as calling it once.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	if err := s.repository.Remove(s.conv.ViewerID); err != nil {
		s.log.Warn("Failed to drop conversation snapshot", "viewer", s.conv.ViewerID, "error", err)
	}
	s.conv.Reset()
	s.persistLocked()

	if s.index != nil {
		if err := s.index.Purge(ctx, s.conv.ViewerID); err != nil {
			s.log.Warn("Failed to purge history index", "viewer", s.conv.ViewerID, "error", err)
		}
	}
}

// SearchHistory runs a /find query over the viewer's indexed history.
func (s *Store) SearchHistory(ctx context.Context, rawInput string) ([]repositories.Hit, uint64, error) {
	s.mu.Lock()
	viewerID := s.conv.ViewerID
	s.mu.Unlock()

	if s.index == nil {
		return nil, 0, nil
	}
	return s.index.Search(ctx, viewerID, search.NewQuery(rawInput))
}

// applyChunk appends one fragment to the trailing streaming message, dropping
// it when the generation is stale or the trailing message stopped streaming.
func (s *Store) applyChunk(generation uint64, fragment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return
	}
	if !s.conv.AppendChunk(fragment) {
		return
	}
	s.persistLocked()
}

// persistLocked writes the full snapshot; persistence failure is non-fatal.
// Caller must hold s.mu.
func (s *Store) persistLocked() {
	if err := s.repository.Set(s.conv.ViewerID, s.conv.Messages); err != nil {
		s.log.Warn("Failed to persist conversation", "viewer", s.conv.ViewerID, "error", err)
	}
}

// indexExchangeLocked mirrors the completed exchange into the history index.
// Caller must hold s.mu.
func (s *Store) indexExchangeLocked(userMessage domain.Message) {
	if s.index == nil {
		return
	}
	reply := s.conv.Messages[len(s.conv.Messages)-1]
	for _, m := range []domain.Message{userMessage, reply} {
		if err := s.index.Index(s.conv.ViewerID, m); err != nil {
			s.log.Warn("Failed to index message", "viewer", s.conv.ViewerID, "error", err)
		}
	}
}

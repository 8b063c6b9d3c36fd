package e2e

import (
	"context"
	"log/slog"
	"testing"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/suite"

	"agro-chat/ai"
	"agro-chat/conversation"
	"agro-chat/domain"
	"agro-chat/repositories"
)

const scenarioViewerID = "farmer-e2e"

// scriptedStreamer replays canned replies chunk by chunk, standing in for the
// vendor endpoint so the flow runs offline.
type scriptedStreamer struct {
	replies map[string][]string
}

func (s *scriptedStreamer) SendAndStream(_ context.Context, _ *ai.Session, text string, onChunk ai.ChunkFunc) (string, error) {
	fragments, ok := s.replies[text]
	if !ok {
		fragments = []string{"I do not know."}
	}
	var full string
	for _, fragment := range fragments {
		onChunk(fragment)
		full += fragment
	}
	return full, nil
}

type testChatFlowSuite struct {
	suite.Suite
	Config Config

	db     *badger.DB
	writer *bluge.Writer
}

func TestChatFlowSuite(t *testing.T) {
	suite.Run(t, &testChatFlowSuite{})
}

func (s *testChatFlowSuite) SetupSuite() {
	cfg, err := LoadConfig()
	s.Require().NoError(err)
	s.Config = cfg
}

func (s *testChatFlowSuite) SetupTest() {
	db, err := badger.Open(badger.DefaultOptions(s.T().TempDir()).WithLoggingLevel(badger.ERROR))
	s.Require().NoError(err)
	s.db = db

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(s.T().TempDir()))
	s.Require().NoError(err)
	s.writer = writer
}

func (s *testChatFlowSuite) TearDownTest() {
	s.Require().NoError(s.writer.Close())
	s.Require().NoError(s.db.Close())
}

func (s *testChatFlowSuite) newStore(streamer conversation.Streamer) *conversation.Store {
	repository := repositories.NewConversationRepository(s.db, slog.Default())
	index := repositories.NewHistoryIndex(s.writer, slog.Default())
	return conversation.NewStore(slog.Default(), repository, index, streamer)
}

func (s *testChatFlowSuite) TestFullChatFlow() {
	ctx := context.Background()
	streamer := &scriptedStreamer{replies: map[string][]string{
		"Hello": {"Hi ", "there", "!"},
	}}

	store := s.newStore(streamer)

	// --- STEP 1: FRESH START ---
	s.Run("Step 1: First visit seeds the greeting", func() {
		store.Initialize(scenarioViewerID, &ai.Session{})
		messages := store.Messages()
		s.Require().Len(messages, 1)
		s.Require().Equal(domain.GreetingText, messages[0].Text)
		s.Require().Equal(domain.SenderAssistant, messages[0].Sender)
	})

	// --- STEP 2: ONE FULL EXCHANGE ---
	s.Run("Step 2: Send a message and receive the chunked reply", func() {
		s.Require().NoError(store.Send(ctx, "Hello"))

		messages := store.Messages()
		s.Require().Len(messages, 3)
		s.Require().Equal("Hello", messages[1].Text)
		s.Require().Equal(domain.SenderUser, messages[1].Sender)
		s.Require().Equal("Hi there!", messages[2].Text)
		s.Require().Equal(domain.SenderAssistant, messages[2].Sender)
		s.Require().False(messages[2].Streaming)
	})

	// --- STEP 3: RESTART SURVIVAL ---
	s.Run("Step 3: A new store over the same database restores the history", func() {
		reopened := s.newStore(streamer)
		reopened.Initialize(scenarioViewerID, &ai.Session{})

		messages := reopened.Messages()
		s.Require().Len(messages, 3)
		s.Require().Equal("Hi there!", messages[2].Text)
	})

	// --- STEP 4: HISTORY SEARCH ---
	s.Run("Step 4: The completed exchange is searchable", func() {
		hits, total, err := store.SearchHistory(ctx, "there")
		s.Require().NoError(err)
		s.Require().EqualValues(1, total)
		s.Require().Equal("Hi there!", hits[0].Text)
	})

	// --- STEP 5: CLEAR ---
	s.Run("Step 5: Clear resets to the acknowledgement, durably", func() {
		store.Clear(ctx)

		messages := store.Messages()
		s.Require().Len(messages, 1)
		s.Require().Equal(domain.ClearedText, messages[0].Text)

		reopened := s.newStore(streamer)
		reopened.Initialize(scenarioViewerID, &ai.Session{})
		s.Require().Len(reopened.Messages(), 1)
		s.Require().Equal(domain.ClearedText, reopened.Messages()[0].Text)

		_, total, err := store.SearchHistory(ctx, "there")
		s.Require().NoError(err)
		s.Require().Zero(total)
	})
}

func (s *testChatFlowSuite) TestLiveVendorExchange() {
	if s.Config.GeminiAPIKey == "" {
		s.T().Skip("GEMINI_API_KEY not set, skipping live vendor scenario")
	}

	client, err := ai.NewClient(s.Config.GeminiAPIKey, slog.Default())
	s.Require().NoError(err)

	store := s.newStore(client)
	store.Initialize(scenarioViewerID, client.InitSession())

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.VendorTimeout)
	defer cancel()

	s.Require().NoError(store.Send(ctx, "In one sentence, when should I irrigate tomatoes?"))

	messages := store.Messages()
	s.Require().Len(messages, 3)
	s.Require().NotEmpty(messages[2].Text)
	s.Require().False(messages[2].Streaming)
}

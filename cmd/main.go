package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"

	"agro-chat/ai"
	"agro-chat/contract"
	"agro-chat/conversation"
	"agro-chat/moderation"
	"agro-chat/presence"
	"agro-chat/repositories"
	"agro-chat/rooms"
	"agro-chat/runtime/workers"

	agroauth "agro-chat/auth"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the process lifecycle, and
// centralizes error reporting. Returning the error to main (instead of
// os.Exit in place) guarantees the deferred database cleanups execute and
// keeps the wiring testable.
func run() error {
	// 1. Configuration & Logger
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	maskChar, err := CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}

	// 2. Local stores (BadgerDB snapshot + Bluge history index)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Assistant session. A missing or rejected credential is not fatal:
	// the surface shows a disabled input with a retry hint instead.
	var session *ai.Session
	var client *ai.Client
	client, err = ai.NewClient(config.GeminiAPIKey, log)
	if err != nil {
		log.Warn("Assistant unavailable, chat input disabled", "error", err)
	} else {
		session = client.InitSession()
	}

	// 4. Conversation store for the authenticated viewer (guest fallback)
	viewerID := agroauth.ViewerID(config.AuthToken)
	repository := repositories.NewConversationRepository(db, log)
	index := repositories.NewHistoryIndex(blugeWriter, log)

	var streamer conversation.Streamer
	if client != nil {
		streamer = client
	}
	store := conversation.NewStore(log, repository, index, streamer)
	store.Initialize(viewerID, session)

	// 5. Presence: registry + broadcaster, room services
	registry := presence.NewRegistry()
	broadcaster := presence.NewBroadcaster(log)
	signals := make(chan contract.Signal, config.SignalBufferSize)

	moderator, err := moderation.NewModerator(splitWords(config.ForbiddenWords), maskChar)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}
	outbound := rooms.NewOutbound(moderator, log)
	roomService := rooms.NewService(config.APIBaseURL, log)

	// 6. Supervision
	sup := workers.NewSupervisor(log)
	sup.Add(
		workers.NewLifecycleWorker(broadcaster, signals, log),
		workers.NewTelemetryWorker(log, config.TelemetryInterval),
		NewConsoleWorker(store, roomService, outbound, registry, broadcaster,
			signals, config.AuthToken, log),
	)

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		// Last-chance offline broadcast before the workers unwind.
		signals <- contract.SignalTeardown
		close(signals)
	}()

	log.Info("Chat client started", "viewer", viewerID)
	sup.Run(ctx)
	log.Info("Program stopped cleanly")

	return nil
}

func splitWords(raw string) []string {
	var words []string
	for _, w := range strings.Split(raw, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

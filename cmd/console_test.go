package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"agro-chat/contract"
	"agro-chat/mocks"
	"agro-chat/moderation"
	"agro-chat/presence"
	"agro-chat/rooms"
)

func newConsoleWorker(t *testing.T, registry contract.IPresenceRegistry,
	broadcaster *presence.Broadcaster) *ConsoleWorker {
	moderator, err := moderation.NewModerator([]string{"scam"}, '*')
	require.NoError(t, err)
	outbound := rooms.NewOutbound(moderator, slog.Default())
	signals := make(chan contract.Signal, 1)
	return NewConsoleWorker(nil, nil, outbound, registry, broadcaster, signals, "", slog.Default())
}

func TestConsole_CloseDrivesThePresenceContract(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	// Given a presence registry behind its contract and one open room
	registry := mocks.NewMockIPresenceRegistry(ctrl)
	registry.EXPECT().MarkInactive("room-1")

	broadcaster := presence.NewBroadcaster(slog.Default())
	broadcaster.Track("room-1", mocks.NewMockTransport(ctrl))

	worker := newConsoleWorker(t, registry, broadcaster)

	// When closing the room from the console
	worker.handle(context.Background(), "/close room-1")

	// Then the transport is untracked and the registry was told
	_, ok := broadcaster.Transport("room-1")
	req.False(ok)
}

func TestConsole_AttachRejectsNonImageBeforeTheWire(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)

	// Given an open room whose transport must never receive a payload
	transport := mocks.NewMockTransport(ctrl)
	transport.EXPECT().Ready().Return(true)

	broadcaster := presence.NewBroadcaster(slog.Default())
	broadcaster.Track("room-1", transport)

	worker := newConsoleWorker(t, presence.NewRegistry(), broadcaster)

	// Given a text file masquerading as a picture
	path := filepath.Join(t.TempDir(), "photo.png")
	req.NoError(os.WriteFile(path, []byte("plain text, no image magic"), 0o600))

	// When attaching it to the room
	worker.handle(context.Background(), "/attach room-1 "+path)

	// Then the mock records no Send call: the upload died at the sniffer
}

func TestConsole_AttachOnUnknownRoomIsRefused(t *testing.T) {
	req := require.New(t)

	worker := newConsoleWorker(t, presence.NewRegistry(), presence.NewBroadcaster(slog.Default()))

	// No transport was ever tracked for this room
	worker.handle(context.Background(), "/attach room-9 /tmp/whatever.png")

	req.NotNil(worker)
}

package presence

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"agro-chat/mocks"
)

func TestBroadcaster_Sends_Presence_To_Ready_Transports_Only(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	b := NewBroadcaster(slog.Default())

	// Given one open and one closed transport
	open := mocks.NewMockTransport(ctrl)
	open.EXPECT().Ready().Return(true)
	open.EXPECT().Send([]byte(`{"is_online":true}`)).Return(nil)

	closed := mocks.NewMockTransport(ctrl)
	closed.EXPECT().Ready().Return(false)
	// No Send expectation: a closed transport must never receive a payload

	b.Track("room1", open)
	b.Track("room2", closed)

	// When broadcasting online
	completed := b.SetOnline(true)

	// Then the loop completed and only the open transport was reached
	req.True(completed)
}

func TestBroadcaster_Broadcasts_Only_To_Tracked_Rooms(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	b := NewBroadcaster(slog.Default())

	room1 := mocks.NewMockTransport(ctrl)
	room1.EXPECT().Ready().Return(true)
	room1.EXPECT().Send(gomock.Any()).Return(nil)

	// room2 exists somewhere but was never tracked; nothing to expect on it
	b.Track("room1", room1)

	req.True(b.SetOnline(true))
}

func TestBroadcaster_Zero_Transports_Is_Not_An_Error(t *testing.T) {
	req := require.New(t)
	b := NewBroadcaster(slog.Default())

	req.True(b.SetOnline(true))
	req.True(b.SetOnline(false))
}

func TestBroadcaster_Failing_Room_Does_Not_Stop_The_Loop(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	b := NewBroadcaster(slog.Default())

	failing := mocks.NewMockTransport(ctrl)
	failing.EXPECT().Ready().Return(true)
	failing.EXPECT().Send(gomock.Any()).Return(errClosedWrite)

	healthy := mocks.NewMockTransport(ctrl)
	healthy.EXPECT().Ready().Return(true)
	healthy.EXPECT().Send(gomock.Any()).Return(nil)

	b.Track("failing", failing)
	b.Track("healthy", healthy)

	// Presence is best effort: the loop still completes
	req.True(b.SetOnline(false))
}

func TestBroadcaster_Recovers_A_Panicking_Transport(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	b := NewBroadcaster(slog.Default())

	panicking := mocks.NewMockTransport(ctrl)
	panicking.EXPECT().Ready().Return(true)
	panicking.EXPECT().Send(gomock.Any()).DoAndReturn(func([]byte) error {
		panic("socket gone")
	})

	b.Track("room1", panicking)

	req.False(b.SetOnline(true))
}

func TestBroadcaster_Untrack_Stops_Future_Broadcasts(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	b := NewBroadcaster(slog.Default())

	transport := mocks.NewMockTransport(ctrl)
	b.Track("room1", transport)
	b.Untrack("room1")

	_, ok := b.Transport("room1")
	req.False(ok)
	req.True(b.SetOnline(false))
}

var errClosedWrite = errTransport("write on closed connection")

type errTransport string

func (e errTransport) Error() string { return string(e) }

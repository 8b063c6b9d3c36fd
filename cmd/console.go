package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"agro-chat/contract"
	"agro-chat/conversation"
	"agro-chat/domain"
	"agro-chat/presence"
	"agro-chat/rooms"
	"agro-chat/transport"
)

// ConsoleWorker drives the chat client from stdin, standing in for the
// marketplace surfaces during local runs. One command per line:
//
//	/clear              reset the assistant history
//	/find <terms>       search the assistant history
//	/rooms [term]       list (and filter) marketplace chat rooms
//	/open <room> <base> dial a room transport (base like ws://host:8000)
//	/close <room>       drop a room transport and mark the room inactive
//	/say <room> <text>  send a moderated message to an open room
//	/attach <room> <f>  send an image file to an open room
//	/hide, /show        simulate the surface visibility change
//	anything else       send to the assistant
type ConsoleWorker struct {
	store       *conversation.Store
	roomService *rooms.Service
	outbound    rooms.Outbound
	registry    contract.IPresenceRegistry
	broadcaster *presence.Broadcaster
	signals     chan contract.Signal
	authToken   string
	log         *slog.Logger
}

func NewConsoleWorker(store *conversation.Store, roomService *rooms.Service,
	outbound rooms.Outbound, registry contract.IPresenceRegistry,
	broadcaster *presence.Broadcaster, signals chan contract.Signal,
	authToken string, log *slog.Logger) *ConsoleWorker {
	return &ConsoleWorker{
		store:       store,
		roomService: roomService,
		outbound:    outbound,
		registry:    registry,
		broadcaster: broadcaster,
		signals:     signals,
		authToken:   authToken,
		log:         log,
	}
}

func (w *ConsoleWorker) Run(ctx context.Context) error {
	w.printHistory()

	scanner := bufio.NewScanner(os.Stdin)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			w.handle(ctx, strings.TrimSpace(line))
		}
	}
}

func (w *ConsoleWorker) handle(ctx context.Context, line string) {
	switch {
	case line == "":
	case line == "/clear":
		w.store.Clear(ctx)
		w.printHistory()
	case strings.HasPrefix(line, "/find"):
		w.find(ctx, line)
	case strings.HasPrefix(line, "/rooms"):
		w.listRooms(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/rooms")))
	case strings.HasPrefix(line, "/open "):
		w.openRoom(ctx, line)
	case strings.HasPrefix(line, "/close "):
		roomID := strings.TrimSpace(strings.TrimPrefix(line, "/close "))
		w.broadcaster.Untrack(roomID)
		w.registry.MarkInactive(roomID)
	case strings.HasPrefix(line, "/say "):
		w.say(line)
	case strings.HasPrefix(line, "/attach "):
		w.attach(line)
	case line == "/hide":
		w.signals <- contract.SignalHidden
	case line == "/show":
		w.signals <- contract.SignalVisible
	default:
		if err := w.store.Send(ctx, line); err != nil {
			fmt.Printf("! %v\n", err)
			return
		}
		w.printLast()
	}
}

func (w *ConsoleWorker) find(ctx context.Context, line string) {
	hits, total, err := w.store.SearchHistory(ctx, line)
	if err != nil {
		fmt.Printf("! search failed: %v\n", err)
		return
	}
	fmt.Printf("%d match(es)\n", total)
	for _, hit := range hits {
		fmt.Printf("  [%s] %s\n", hit.Sender, hit.Text)
	}
}

func (w *ConsoleWorker) listRooms(ctx context.Context, term string) {
	summaries, notice := w.roomService.ListRooms(ctx, w.authToken, term)
	if notice != "" {
		fmt.Println(notice)
		return
	}
	for _, r := range summaries {
		marker := " "
		if r.HasUnread {
			marker = "*"
		}
		preview := ""
		if r.Last != nil {
			preview = r.Last.Text
		}
		fmt.Printf("%s %s — %s : %s\n", marker, r.RoomID, r.Counterparty, preview)
	}
}

func (w *ConsoleWorker) openRoom(ctx context.Context, line string) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		fmt.Println("usage: /open <room> <ws-base>")
		return
	}
	roomID, wsBase := parts[1], parts[2]

	t, err := transport.Dial(ctx, transport.RoomURL(wsBase, roomID, w.authToken))
	if err != nil {
		fmt.Printf("! %v\n", err)
		return
	}
	w.broadcaster.Track(roomID, t)
	w.registry.MarkActive(roomID)
	w.broadcaster.SetOnline(true)
}

func (w *ConsoleWorker) say(line string) {
	parts := strings.SplitN(strings.TrimPrefix(line, "/say "), " ", 2)
	if len(parts) != 2 {
		fmt.Println("usage: /say <room> <text>")
		return
	}
	roomID, text := parts[0], parts[1]

	t, ok := w.broadcaster.Transport(roomID)
	if !ok {
		fmt.Printf("! room %s is not open\n", roomID)
		return
	}
	if err := w.outbound.Send(t, roomID, text); err != nil {
		fmt.Printf("! %v\n", err)
	}
}

func (w *ConsoleWorker) attach(line string) {
	parts := strings.Fields(line)
	if len(parts) != 3 {
		fmt.Println("usage: /attach <room> <file>")
		return
	}
	roomID, path := parts[1], parts[2]

	t, ok := w.broadcaster.Transport(roomID)
	if !ok {
		fmt.Printf("! room %s is not open\n", roomID)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("! %v\n", err)
		return
	}
	if err := w.outbound.SendImage(t, roomID, data); err != nil {
		fmt.Printf("! %v\n", err)
	}
}

func (w *ConsoleWorker) printHistory() {
	for _, m := range w.store.Messages() {
		printMessage(m)
	}
}

func (w *ConsoleWorker) printLast() {
	messages := w.store.Messages()
	if len(messages) > 0 {
		printMessage(messages[len(messages)-1])
	}
}

func printMessage(m domain.Message) {
	label := "AgroBot"
	if m.Sender == domain.SenderUser {
		label = "You"
	}
	fmt.Printf("[%s] %s\n", label, m.Text)
}

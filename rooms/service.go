// Package rooms consumes the backend room-summary projection for list
// rendering and pushes moderated outgoing messages to room transports.
package rooms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"agro-chat/domain"
)

// FetchFailedNotice is the transient text shown when the room list cannot be
// loaded. The list itself falls back to empty, never to a crash.
const FetchFailedNotice = "Failed to load chats. Please try again."

type IRoomService interface {
	GetRooms(ctx context.Context, token string) ([]domain.RoomSummary, error)
	ListRooms(ctx context.Context, token, filterTerm string) ([]domain.RoomSummary, string)
}

type Service struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Service)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(s *Service) {
		s.httpClient = httpClient
	}
}

func NewService(baseURL string, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetRooms fetches the viewer's room summaries with a bearer token. No retry:
// callers decide how a failure is surfaced.
func (s *Service) GetRooms(ctx context.Context, token string) ([]domain.RoomSummary, error) {
	url := s.baseURL + "/api/chat/rooms/"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("rooms: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rooms: request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("rooms: unexpected status %d from %s", res.StatusCode, url)
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("rooms: read response: %w", err)
	}

	var summaries []domain.RoomSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return nil, fmt.Errorf("rooms: decode response: %w", err)
	}
	return summaries, nil
}

// ListRooms is the list-rendering entry point: it fetches, applies the
// client-side substring filter, and converts any failure into an empty list
// plus a user-facing notice instead of an error.
func (s *Service) ListRooms(ctx context.Context, token, filterTerm string) ([]domain.RoomSummary, string) {
	summaries, err := s.GetRooms(ctx, token)
	if err != nil {
		s.log.Warn("Room list fetch failed", "error", err)
		return []domain.RoomSummary{}, FetchFailedNotice
	}
	return domain.FilterRooms(summaries, filterTerm), ""
}

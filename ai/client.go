// Package ai is a focused client for the AgroBot generative assistant. It
// talks to a Gemini-style generateContent endpoint and keeps the multi-turn
// history inside a Session so every request carries the full context.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"agro-chat/errors"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-pro"

	roleUser  = "user"
	roleModel = "model"
)

// The priming exchange every session starts with.
const (
	primingPrompt = "You are AgroBot, an agricultural assistant for AgroConnect platform. " +
		"Provide helpful, concise information about farming, crops, and agricultural practices. " +
		"Keep responses brief and focused."
	primingAck = "I understand my role as AgroBot. I'll provide helpful agricultural " +
		"information in a concise manner. How can I assist you today?"
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	TopK             int     `json:"topK"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// generateRequest is the minimal request shape for the generateContent endpoint.
type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

// generateResponse is the minimal response shape returned by the endpoint.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("assistant: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

// Session holds the accumulated turns of one assistant conversation. It is an
// opaque handle for callers; only the client mutates it.
type Session struct {
	mu      sync.Mutex
	history []content
}

// Client calls the generative assistant vendor API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// NewClient builds a vendor client. The API key is mandatory: a missing
// credential is the one initialization failure the chat surface must surface
// as a disabled-input state.
func NewClient(apiKey string, log *slog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.ErrMissingAPIKey
	}
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// InitSession starts a new assistant session seeded with the AgroBot priming
// exchange, so the model answers in the marketplace persona from the first
// real turn.
func (c *Client) InitSession() *Session {
	return &Session{
		history: []content{
			{Role: roleUser, Parts: []part{{Text: primingPrompt}}},
			{Role: roleModel, Parts: []part{{Text: primingAck}}},
		},
	}
}

// SendMessage sends one user turn and returns the full model reply. The
// session history is extended with both turns only on success, so a failed
// call never records a half exchange.
func (c *Client) SendMessage(ctx context.Context, session *Session, text string) (string, error) {
	if session == nil {
		return "", errors.ErrNoSession
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	turns := append(append([]content{}, session.history...),
		content{Role: roleUser, Parts: []part{{Text: text}}})

	body, err := json.Marshal(generateRequest{
		Contents: turns,
		GenerationConfig: generationConfig{
			Temperature:      0.9,
			TopP:             0.95,
			TopK:             40,
			MaxOutputTokens:  8192,
			ResponseMimeType: "text/plain",
		},
		SafetySettings: defaultSafetySettings(),
	})
	if err != nil {
		return "", fmt.Errorf("assistant: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("assistant: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		return "", fmt.Errorf("assistant: request failed: %w", err)
	}

	var payload generateResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("assistant: decode response: %w", err)
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("assistant: no candidates in response")
	}
	reply := payload.Candidates[0].Content.Parts[0].Text

	session.history = append(session.history,
		content{Role: roleUser, Parts: []part{{Text: text}}},
		content{Role: roleModel, Parts: []part{{Text: reply}}},
	)
	return reply, nil
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{StatusCode: res.StatusCode, URL: url, Body: string(buf)}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}

func defaultSafetySettings() []safetySetting {
	categories := []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}
	settings := make([]safetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, safetySetting{
			Category:  category,
			Threshold: "BLOCK_MEDIUM_AND_ABOVE",
		})
	}
	return settings
}

package ai

import (
	"context"
	"time"
	"unicode"
)

// The vendor endpoint answers in one shot; the surface still wants the
// progressive typing effect, so replies are re-delivered as small in-order
// fragments with a short pause between them.
const (
	chunkRuneLimit = 20
	chunkDelay     = 30 * time.Millisecond
)

// ChunkFunc receives one reply fragment. Fragments concatenate, in delivery
// order, to the full reply text.
type ChunkFunc func(fragment string)

// SendAndStream sends one user turn and delivers the reply through onChunk
// before returning the full text. Chunks stop as soon as ctx is cancelled;
// the error then reports the cancellation.
func (c *Client) SendAndStream(ctx context.Context, session *Session, text string, onChunk ChunkFunc) (string, error) {
	reply, err := c.SendMessage(ctx, session, text)
	if err != nil {
		return "", err
	}
	if onChunk == nil {
		return reply, nil
	}

	for _, fragment := range splitChunks(reply, chunkRuneLimit) {
		onChunk(fragment)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(chunkDelay):
		}
	}
	return reply, nil
}

// splitChunks cuts text into fragments of at most limit runes, preferring a
// whitespace boundary so words stay whole. Words longer than the limit are
// hard-cut. The fragments always concatenate back to the input.
func splitChunks(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		if len(runes)-start <= limit {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := start + limit
		boundary := -1
		for i := cut; i > start; i-- {
			if unicode.IsSpace(runes[i-1]) {
				boundary = i
				break
			}
		}
		if boundary > start {
			cut = boundary
		}
		chunks = append(chunks, string(runes[start:cut]))
		start = cut
	}
	return chunks
}

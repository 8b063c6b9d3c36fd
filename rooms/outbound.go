package rooms

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"

	"agro-chat/attachment"
	"agro-chat/contract"
	"agro-chat/errors"
	"agro-chat/moderation"
)

// chatPayload is the wire shape the room backend expects for a message.
type chatPayload struct {
	Message string `json:"message"`
}

// imagePayload is the wire shape for an image message: base64 content plus
// the sniffed mime type, never the type the picker claimed.
type imagePayload struct {
	Image    string `json:"image"`
	MimeType string `json:"mime_type"`
}

// Outbound pushes the viewer's messages to a room transport after the
// moderation pass. Delivery state beyond the transport handoff is the
// backend's concern.
type Outbound struct {
	moderator moderation.Moderator
	log       *slog.Logger
}

func NewOutbound(moderator moderation.Moderator, log *slog.Logger) Outbound {
	return Outbound{moderator: moderator, log: log}
}

// Send censors the text and hands it to the room transport. A transport that
// is not ready is an error for the caller to surface; the message is not
// queued.
func (o Outbound) Send(t contract.Transport, roomID, text string) error {
	if t == nil || !t.Ready() {
		return errors.ErrTransportClosed
	}

	sanitized, foundWords := o.moderator.Censor(text)
	if len(foundWords) > 0 {
		o.log.Warn("Masked forbidden words in outgoing message",
			"room", roomID,
			"words", len(foundWords),
			"lang", moderation.DetectLanguage(text))
	}

	payload, err := json.Marshal(chatPayload{Message: sanitized})
	if err != nil {
		return err
	}
	return t.Send(payload)
}

// SendImage sniffs the attachment bytes and pushes an image payload to the
// room transport. Content that is not really an image is rejected before it
// reaches the wire, whatever filename or type the picker reported.
func (o Outbound) SendImage(t contract.Transport, roomID string, data []byte) error {
	if t == nil || !t.Ready() {
		return errors.ErrTransportClosed
	}

	info, err := attachment.SniffImage(data)
	if err != nil {
		o.log.Warn("Rejected non-image attachment", "room", roomID, "error", err)
		return err
	}

	payload, err := json.Marshal(imagePayload{
		Image:    base64.StdEncoding.EncodeToString(data),
		MimeType: info.MimeType,
	})
	if err != nil {
		return err
	}
	return t.Send(payload)
}

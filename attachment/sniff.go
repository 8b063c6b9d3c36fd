// Package attachment validates chat image uploads before they leave the
// client. Only content sniffing is done here; size limits and upload itself
// belong to the backend contract.
package attachment

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"agro-chat/errors"
)

// Info describes a sniffed attachment.
type Info struct {
	MimeType  string
	Extension string
}

// SniffImage detects the real content type from the bytes, ignoring whatever
// filename or header the picker reported, and rejects anything that is not an
// image.
func SniffImage(data []byte) (Info, error) {
	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return Info{}, errors.ErrNotAnImage
	}
	return Info{
		MimeType:  detected.String(),
		Extension: detected.Extension(),
	}, nil
}

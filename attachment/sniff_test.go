package attachment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"agro-chat/errors"
)

// Minimal but valid PNG header bytes.
var pngHeader = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R'}

func TestSniffImage_AcceptsPNG(t *testing.T) {
	req := require.New(t)

	info, err := SniffImage(pngHeader)

	req.NoError(err)
	req.Equal("image/png", info.MimeType)
	req.Equal(".png", info.Extension)
}

func TestSniffImage_RejectsTextRenamedToImage(t *testing.T) {
	req := require.New(t)

	// Content sniffing ignores the filename, so plain text is rejected
	// whatever the picker claimed.
	_, err := SniffImage([]byte("definitely not a picture"))

	req.ErrorIs(err, errors.ErrNotAnImage)
}

func TestSniffImage_RejectsEmptyPayload(t *testing.T) {
	req := require.New(t)

	_, err := SniffImage(nil)

	req.ErrorIs(err, errors.ErrNotAnImage)
}

package imgutil

import (
	"errors"
	"io"
	"strings"

	"github.com/h2non/filetype"
)

// Kind identifies an image container format.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindWebP
	KindGIF
	KindTIFF
)

// headerSize is the prefix length filetype needs to match every image matcher.
const headerSize = 262

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindWebP:
		return "webp"
	case KindGIF:
		return "gif"
	case KindTIFF:
		return "tiff"
	default:
		return "unknown"
	}
}

// MatchesExtension reports whether ext (with dot, any case) names this kind.
func (k Kind) MatchesExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return k == KindJPEG
	case ".png":
		return k == KindPNG
	case ".webp":
		return k == KindWebP
	case ".gif":
		return k == KindGIF
	case ".tif", ".tiff":
		return k == KindTIFF
	default:
		return false
	}
}

// DetectHeader inspects the leading bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < 8 {
		return KindUnknown, errors.New("header too short")
	}

	t, err := filetype.Image(header)
	if err != nil {
		if errors.Is(err, filetype.ErrEmptyBuffer) {
			return KindUnknown, err
		}
		return KindUnknown, nil
	}

	switch t.Extension {
	case "jpg":
		return KindJPEG, nil
	case "png":
		return KindPNG, nil
	case "webp":
		return KindWebP, nil
	case "gif":
		return KindGIF, nil
	case "tif":
		return KindTIFF, nil
	default:
		return KindUnknown, nil
	}
}

// SniffReader reads up to the first 262 bytes from r and determines its type.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, headerSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return KindUnknown, err
	}

	return DetectHeader(header[:n])
}

// SniffBytes is SniffReader for an in-memory payload.
func SniffBytes(data []byte) (Kind, error) {
	if len(data) > headerSize {
		data = data[:headerSize]
	}
	return DetectHeader(data)
}

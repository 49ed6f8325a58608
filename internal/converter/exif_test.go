package converter

import (
	"bytes"
	"context"
	"encoding/binary"
	"image/jpeg"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

func TestReadMetadata(t *testing.T) {
	var plain bytes.Buffer
	if err := jpeg.Encode(&plain, noise(8, 8), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	meta, err := readMetadata(bytes.NewReader(plain.Bytes()))
	if err != nil {
		t.Fatalf("plain jpeg: %v", err)
	}
	if !meta.empty() {
		t.Fatalf("plain jpeg metadata = %+v", meta)
	}

	rotated := jpegWithOrientation(plain.Bytes(), 6)
	meta, err = readMetadata(bytes.NewReader(rotated))
	if err != nil {
		t.Fatalf("rotated jpeg: %v", err)
	}
	if meta.Orientation != 6 || meta.HasGPS || meta.Camera != "" || meta.empty() {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

// jpegWithOrientation inserts an APP1 EXIF segment holding a single
// Orientation tag right after the SOI marker of an encoded JPEG.
func jpegWithOrientation(encoded []byte, orientation uint16) []byte {
	var tiff bytes.Buffer
	tiff.Write([]byte{0x49, 0x49, 0x2a, 0x00})
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(8))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(1))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0x0112))
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(3))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(1))
	_ = binary.Write(&tiff, binary.LittleEndian, orientation)
	_ = binary.Write(&tiff, binary.LittleEndian, uint16(0))
	_ = binary.Write(&tiff, binary.LittleEndian, uint32(0))

	exif := append([]byte("Exif\x00\x00"), tiff.Bytes()...)

	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})
	buf.Write([]byte{0xff, 0xe1})
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(exif)+2))
	buf.Write(exif)
	buf.Write(encoded[2:])
	return buf.Bytes()
}

func TestRunWarnsAboutDroppedOrientation(t *testing.T) {
	var plain bytes.Buffer
	if err := jpeg.Encode(&plain, noise(16, 16), nil); err != nil {
		t.Fatalf("encode: %v", err)
	}
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, filepath.Join(imagesDir, "rotated.jpg"), jpegWithOrientation(plain.Bytes(), 6), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var logs bytes.Buffer
	log := zerolog.New(&logs)
	res, err := Run(context.Background(), Options{Fs: fs, ImagesDir: imagesDir, Quality: 85, Logger: &log}, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Report.Totals().Success != 1 {
		t.Fatalf("unexpected totals: %+v", res.Report.Totals())
	}
	if !strings.Contains(logs.String(), `"orientation":6`) {
		t.Fatalf("orientation warning missing from logs:\n%s", logs.String())
	}
}

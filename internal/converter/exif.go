package converter

import (
	"errors"
	"io"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// sourceMetadata is the part of a JPEG's EXIF block worth reporting before
// it is left behind by the WebP output.
type sourceMetadata struct {
	Orientation int
	Camera      string
	HasGPS      bool
}

func (m sourceMetadata) empty() bool {
	return m.Orientation <= 1 && m.Camera == "" && !m.HasGPS
}

// readMetadata returns the zero value when the file carries no EXIF block.
func readMetadata(rs io.ReadSeeker) (sourceMetadata, error) {
	var meta sourceMetadata
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return meta, err
	}

	raw, err := exif.SearchAndExtractExifWithReader(rs)
	if err != nil {
		if errorsIsNoExif(err) {
			return meta, nil
		}
		return meta, err
	}
	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return meta, err
	}

	var camMake, model string
	for _, tag := range tags {
		switch {
		case tag.TagName == "Orientation":
			meta.Orientation = orientationValue(tag)
		case tag.TagName == "Make":
			camMake = strings.TrimSpace(tag.FormattedFirst)
		case tag.TagName == "Model":
			model = strings.TrimSpace(tag.FormattedFirst)
		case strings.HasPrefix(tag.TagName, "GPS") && tag.TagName != "GPSVersionID":
			meta.HasGPS = true
		}
	}
	meta.Camera = strings.TrimSpace(camMake + " " + model)
	return meta, nil
}

func orientationValue(tag exif.ExifTag) int {
	if values, ok := tag.Value.([]uint16); ok && len(values) > 0 {
		return int(values[0])
	}
	if v, err := strconv.Atoi(strings.TrimSpace(tag.FormattedFirst)); err == nil {
		return v
	}
	return 0
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

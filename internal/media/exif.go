package media

import (
	"bytes"
	"strings"

	"camera-transfer/internal/domain"

	"github.com/rwcarlsen/goexif/exif"
)

// ReadImageMetadata decodes the EXIF block of an image.
// The datetime comes from the DateTime tag, falling back to DateTimeOriginal.
// A sub-IFD that fails to load (GPS, Interop, Exif) is not fatal: the tags
// that did decode are returned along with the error.
func ReadImageMetadata(content []byte) (domain.ImageMetadata, error) {
	x, err := exif.Decode(bytes.NewReader(content))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return domain.ImageMetadata{}, err
	}

	var meta domain.ImageMetadata
	meta.DateTime = stringTag(x, exif.DateTime)
	if meta.DateTime == "" {
		meta.DateTime = stringTag(x, exif.DateTimeOriginal)
	}
	meta.Model = strings.TrimSpace(stringTag(x, exif.Model))
	return meta, err
}

// stringTag returns an ASCII tag's value, or "" if absent or not a string.
func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimRight(s, "\x00")
}

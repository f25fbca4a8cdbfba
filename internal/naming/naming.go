// Package naming derives canonical output file names from media records.
//
// Images are named from their EXIF capture time, a short device code and the
// sequence digits left in the camera's own file name:
//
//	DSCN6228.JPG  ->  2022-07-27T115409_S9700_6228.JPG
//
// Videos are named from their modification time alone:
//
//	MVI_0042.MOV  ->  2024-01-25T170003_video.mp4
package naming

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"camera-transfer/internal/domain"
)

const (
	// exifLayout is the EXIF datetime format.
	exifLayout = "2006:01:02 15:04:05"
	// condensedLayout is the timestamp prefix of every canonical name.
	condensedLayout = "2006-01-02T150405"
	// videoSuffix replaces the original extension of every video.
	videoSuffix = "_video.mp4"
)

// Strategy names media records using a device-model to short-code map.
type Strategy struct {
	modelCodes map[string]string
}

// NewStrategy returns a Strategy resolving models through modelCodes.
func NewStrategy(modelCodes map[string]string) *Strategy {
	codes := make(map[string]string, len(modelCodes))
	for k, v := range modelCodes {
		codes[k] = v
	}
	return &Strategy{modelCodes: codes}
}

// CanonicalName returns the output file name for rec.
func (s *Strategy) CanonicalName(rec domain.MediaRecord) (string, error) {
	switch rec.Category {
	case domain.CategoryImage:
		if rec.Image == nil {
			return "", fmt.Errorf("%w: %q has no image metadata", domain.ErrMissingOrMalformedMetadata, rec.OriginalName)
		}
		return s.imageName(rec.OriginalName, *rec.Image)
	case domain.CategoryVideo:
		return VideoName(rec.LastModified), nil
	default:
		return "", fmt.Errorf("%w: %q has category %q", domain.ErrUnrecognizedFileType, rec.OriginalName, rec.Category)
	}
}

// imageName composes {condensed}_{code}_{digits}{ext}.
func (s *Strategy) imageName(original string, meta domain.ImageMetadata) (string, error) {
	condensed, stampDigits, err := CondenseTimestamp(meta.DateTime)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", domain.ErrMissingOrMalformedMetadata, original, err)
	}

	code, ok := s.modelCodes[meta.Model]
	if !ok {
		return "", fmt.Errorf("%w: %q (file %q)", domain.ErrUnknownCameraModel, meta.Model, original)
	}

	seq := SequenceDigits(meta.FilenameDigits, stampDigits)
	return condensed + "_" + code + "_" + seq + filepath.Ext(original), nil
}

// VideoName returns the canonical name of a video modified at mod.
func VideoName(mod time.Time) string {
	return mod.Format(condensedLayout) + videoSuffix
}

// CondenseTimestamp parses an EXIF datetime and returns it condensed to
// 2006-01-02T150405 together with its 14 digits.
func CondenseTimestamp(exifDateTime string) (condensed, digits string, err error) {
	s := strings.TrimSpace(exifDateTime)
	if s == "" {
		return "", "", fmt.Errorf("no capture timestamp")
	}
	t, err := time.Parse(exifLayout, s)
	if err != nil {
		return "", "", fmt.Errorf("capture timestamp %q: %w", exifDateTime, err)
	}
	return t.Format(condensedLayout), t.Format("20060102150405"), nil
}

// SequenceDigits removes the capture timestamp from a file name's digit run.
// Occurrences of the timestamp digits and of their +1 and -1 neighbours are
// removed; some phones stamp the file name a second off the EXIF time. An
// empty result becomes "0".
func SequenceDigits(filenameDigits, stampDigits string) string {
	digits := filenameDigits
	if stampDigits != "" {
		digits = strings.ReplaceAll(digits, stampDigits, "")
		if n, err := strconv.ParseInt(stampDigits, 10, 64); err == nil {
			digits = strings.ReplaceAll(digits, strconv.FormatInt(n+1, 10), "")
			digits = strings.ReplaceAll(digits, strconv.FormatInt(n-1, 10), "")
		}
	}
	if digits == "" {
		return "0"
	}
	return digits
}

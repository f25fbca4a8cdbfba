// Package media classifies raw camera files into image or video records and
// extracts the metadata each category is named from.
package media

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"camera-transfer/internal/domain"
	"camera-transfer/internal/logging"
)

// =============================================================================
// Classifier
// =============================================================================

// Classifier maps file extensions to media categories.
// The table is built once from the configured extension sets.
type Classifier struct {
	categories map[string]domain.Category
	logger     *slog.Logger
}

// NewClassifier builds a Classifier from the image and video extension sets.
// Extensions include the leading dot and are matched case-sensitively, so each
// casing (".jpg", ".JPG") must be listed. An extension present in both sets is
// a configuration error.
func NewClassifier(imageExts, videoExts []string, logger *slog.Logger) (*Classifier, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	categories := make(map[string]domain.Category, len(imageExts)+len(videoExts))
	for _, ext := range imageExts {
		categories[ext] = domain.CategoryImage
	}

	var overlap []string
	for _, ext := range videoExts {
		if categories[ext] == domain.CategoryImage {
			overlap = append(overlap, ext)
			continue
		}
		categories[ext] = domain.CategoryVideo
	}
	if len(overlap) > 0 {
		sort.Strings(overlap)
		return nil, fmt.Errorf("%w: extensions in both image and video sets: %s",
			domain.ErrConfigurationInvalid, strings.Join(overlap, ", "))
	}

	return &Classifier{categories: categories, logger: logger}, nil
}

// CategoryOf returns the category for a file name's extension, or false if
// the extension is not configured.
func (c *Classifier) CategoryOf(name string) (domain.Category, bool) {
	cat, ok := c.categories[filepath.Ext(name)]
	return cat, ok
}

// Classify turns a raw file into a media record. Image metadata that cannot be
// decoded is left empty; naming reports it.
func (c *Classifier) Classify(f domain.RawFile) (domain.MediaRecord, error) {
	cat, ok := c.CategoryOf(f.Name)
	if !ok {
		return domain.MediaRecord{}, fmt.Errorf("%w: %q (extension %q)",
			domain.ErrUnrecognizedFileType, f.Name, filepath.Ext(f.Name))
	}

	rec := domain.MediaRecord{
		OriginalName: f.Name,
		SourcePath:   f.Path,
		Content:      f.Content,
		LastModified: f.LastModified,
		Category:     cat,
	}

	if cat == domain.CategoryImage {
		meta, err := ReadImageMetadata(f.Content)
		if err != nil {
			c.logger.Debug("no usable EXIF data", "file", f.Name, "error", err)
		}
		meta.FilenameDigits = FilenameDigits(f.Name)
		rec.Image = &meta
	}

	return rec, nil
}

// FilenameDigits returns the numeric characters of a file name's stem, in order.
func FilenameDigits(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, stem)
}


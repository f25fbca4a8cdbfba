package domain

import "time"

// ImageMetadata is the capture metadata embedded in an image.
// Empty fields mean the tag was absent or the EXIF block could not be decoded.
type ImageMetadata struct {
	DateTime       string // EXIF datetime, "2006:01:02 15:04:05"
	Model          string // Device model, whitespace trimmed
	FilenameDigits string // Numeric characters of the filename stem
}

// MediaRecord is a classified camera file. Exactly one variant applies:
// Image is non-nil iff Category is CategoryImage; videos carry no embedded
// metadata and are named from LastModified alone.
type MediaRecord struct {
	OriginalName string
	SourcePath   string
	Content      []byte
	LastModified time.Time
	Category     Category
	Image        *ImageMetadata
}

// IsImage reports whether r is the image variant.
func (r MediaRecord) IsImage() bool {
	return r.Category == CategoryImage && r.Image != nil
}

// Hash returns the content hash of the record's bytes.
func (r MediaRecord) Hash() ContentHash {
	return HashContent(r.Content)
}

// Package domain holds the data model shared by the transfer pipeline:
// raw files from the camera, the media records classified from them, and
// the error kinds every stage reports.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Category is the media category a file extension maps to.
type Category string

const (
	CategoryImage Category = "image"
	CategoryVideo Category = "video"
)

// RawFile is one file read from the camera folder.
type RawFile struct {
	Name         string    // Base name, e.g. DSCN6228.JPG
	Path         string    // Path relative to the camera folder
	Content      []byte    // Full file content
	LastModified time.Time // Source modification time
}

// ContentHash is the SHA-256 digest of a file's bytes, the dedup key.
type ContentHash [sha256.Size]byte

// HashContent returns the content hash of b.
func HashContent(b []byte) ContentHash {
	return ContentHash(sha256.Sum256(b))
}

// String returns the lowercase hex form of the hash.
func (h ContentHash) String() string {
	return hex.EncodeToString(h[:])
}

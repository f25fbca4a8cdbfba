package transfer

import (
	"iter"
	"time"

	"camera-transfer/internal/domain"
)

// Source yields the candidate files on the camera storage.
type Source interface {
	List() iter.Seq2[domain.RawFile, error]
}

// Classifier turns a raw file into a categorised media record.
type Classifier interface {
	Classify(f domain.RawFile) (domain.MediaRecord, error)
}

// Namer assigns the canonical output name of a record.
type Namer interface {
	CanonicalName(rec domain.MediaRecord) (string, error)
}

// Writer stores a named file in the library of its category.
type Writer interface {
	Write(name string, lastModified time.Time, content []byte, category domain.Category, subfolder string) error
}

// Ledger remembers the content hashes that were already transferred.
type Ledger interface {
	Contains(hash domain.ContentHash) (bool, error)
	Record(hash domain.ContentHash, name string) error
}

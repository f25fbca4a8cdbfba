// Package transfer runs the camera-to-library pipeline: list, classify, hash,
// dedup, name, write, record.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"camera-transfer/internal/domain"
	"camera-transfer/internal/logging"
)

// subfolderLayout partitions every library by the year and month of the run.
const subfolderLayout = "2006/01"

// Outcome is the terminal state of a file that did not fail.
type Outcome int

const (
	// Written means the file was placed in its library (or would have been,
	// in dry-run mode) and its hash recorded.
	Written Outcome = iota + 1
	// SkippedDuplicate means the file's content hash was already in the ledger.
	SkippedDuplicate
)

func (o Outcome) String() string {
	switch o {
	case Written:
		return "written"
	case SkippedDuplicate:
		return "skipped-duplicate"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Transfer describes one written file.
type Transfer struct {
	SourcePath    string
	Name          string
	Category      domain.Category
	Subfolder     string
	Hash          domain.ContentHash
	TransferredAt time.Time
}

// Stats summarises a completed run.
type Stats struct {
	Written   int
	Skipped   int
	Transfers []Transfer
}

// Config wires the pipeline stages into an Orchestrator.
type Config struct {
	Source     Source
	Classifier Classifier
	Namer      Namer
	Writer     Writer
	Ledger     Ledger

	// Now is the run clock. Defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Orchestrator drives each source file through the pipeline, one at a time.
// The first failure aborts the run.
//
// A per-file skip mode (log and continue on unknown models or unreadable
// metadata) would hook into Run's error branch; it is not offered.
type Orchestrator struct {
	source     Source
	classifier Classifier
	namer      Namer
	writer     Writer
	ledger     Ledger
	now        func() time.Time
	logger     *slog.Logger
}

// New returns an Orchestrator for cfg. Every stage is required.
func New(cfg Config) (*Orchestrator, error) {
	var missing []error
	if cfg.Source == nil {
		missing = append(missing, errors.New("source"))
	}
	if cfg.Classifier == nil {
		missing = append(missing, errors.New("classifier"))
	}
	if cfg.Namer == nil {
		missing = append(missing, errors.New("namer"))
	}
	if cfg.Writer == nil {
		missing = append(missing, errors.New("writer"))
	}
	if cfg.Ledger == nil {
		missing = append(missing, errors.New("ledger"))
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing pipeline stage: %w", domain.ErrConfigurationInvalid, errors.Join(missing...))
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Orchestrator{
		source:     cfg.Source,
		classifier: cfg.Classifier,
		namer:      cfg.Namer,
		writer:     cfg.Writer,
		ledger:     cfg.Ledger,
		now:        now,
		logger:     logger,
	}, nil
}

// Run transfers every file the source yields. The context is checked between
// files; a file in progress always finishes. On error the returned Stats
// cover the files handled before the failure.
func (o *Orchestrator) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	for f, err := range o.source.List() {
		if err != nil {
			return stats, err
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		outcome, t, err := o.process(f)
		if err != nil {
			return stats, err
		}

		switch outcome {
		case Written:
			stats.Written++
			stats.Transfers = append(stats.Transfers, t)
		case SkippedDuplicate:
			stats.Skipped++
		}
	}

	o.logger.Info("transfer complete", "written", stats.Written, "skipped", stats.Skipped)
	return stats, nil
}

func (o *Orchestrator) process(f domain.RawFile) (Outcome, Transfer, error) {
	o.logger.Info("processing camera file", "file", f.Path)

	rec, err := o.classifier.Classify(f)
	if err != nil {
		return 0, Transfer{}, err
	}

	hash := rec.Hash()
	seen, err := o.ledger.Contains(hash)
	if err != nil {
		return 0, Transfer{}, err
	}
	if seen {
		o.logger.Info("skipping duplicate camera file", "file", f.Path, "hash", hash)
		return SkippedDuplicate, Transfer{}, nil
	}

	name, err := o.namer.CanonicalName(rec)
	if err != nil {
		return 0, Transfer{}, fmt.Errorf("%s: %w", f.Path, err)
	}

	now := o.now()
	subfolder := now.Format(subfolderLayout)
	if err := o.writer.Write(name, rec.LastModified, rec.Content, rec.Category, subfolder); err != nil {
		return 0, Transfer{}, fmt.Errorf("%s: %w", f.Path, err)
	}

	if err := o.ledger.Record(hash, name); err != nil {
		return 0, Transfer{}, err
	}

	return Written, Transfer{
		SourcePath:    f.Path,
		Name:          name,
		Category:      rec.Category,
		Subfolder:     subfolder,
		Hash:          hash,
		TransferredAt: now,
	}, nil
}

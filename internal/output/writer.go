// Package output places transferred files in the photo and video libraries.
package output

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"camera-transfer/internal/domain"
	"camera-transfer/internal/logging"

	"github.com/spf13/afero"
)

// Writer writes files under a per-category library root. Existing files are
// never overwritten.
type Writer struct {
	fs        afero.Fs
	photoRoot string
	videoRoot string
	dryRun    bool
	logger    *slog.Logger
}

// Config holds the library roots and the dry-run switch for a Writer.
type Config struct {
	PhotoRoot string
	VideoRoot string
	DryRun    bool
	Logger    *slog.Logger
}

// New returns a Writer on fs.
func New(fs afero.Fs, cfg Config) *Writer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Writer{
		fs:        fs,
		photoRoot: cfg.PhotoRoot,
		videoRoot: cfg.VideoRoot,
		dryRun:    cfg.DryRun,
		logger:    logger,
	}
}

// Destination returns root/subfolder/name for the category's library.
func (w *Writer) Destination(name string, category domain.Category, subfolder string) (string, error) {
	var root string
	switch category {
	case domain.CategoryImage:
		root = w.photoRoot
	case domain.CategoryVideo:
		root = w.videoRoot
	default:
		return "", fmt.Errorf("%w: no library for category %q", domain.ErrUnrecognizedFileType, category)
	}
	return filepath.Join(root, subfolder, name), nil
}

// Write stores content at the destination for name and sets its access and
// modification times to lastModified. In dry-run mode only the destination is
// computed and logged; nothing is checked or created.
func (w *Writer) Write(name string, lastModified time.Time, content []byte, category domain.Category, subfolder string) error {
	dst, err := w.Destination(name, category, subfolder)
	if err != nil {
		return err
	}

	if w.dryRun {
		w.logger.Info("would write file", "destination", dst, "bytes", len(content))
		return nil
	}

	w.logger.Debug("writing file", "destination", dst, "bytes", len(content))

	if fi, err := w.fs.Stat(dst); err == nil {
		kind := "file"
		if fi.IsDir() {
			kind = "directory"
		}
		return fmt.Errorf("%w: %s (existing %s)", domain.ErrDestinationAlreadyExists, dst, kind)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", dst, err)
	}

	if err := w.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", filepath.Dir(dst), err)
	}

	if err := w.writeNew(dst, content); err != nil {
		return err
	}

	if err := w.fs.Chtimes(dst, lastModified, lastModified); err != nil {
		_ = w.fs.Remove(dst)
		return fmt.Errorf("set times on %s: %w", dst, err)
	}
	w.logger.Info("wrote file", "destination", dst)
	return nil
}

// writeNew creates dst exclusively and writes content, removing the file if
// the write does not complete.
func (w *Writer) writeNew(dst string, content []byte) (err error) {
	f, err := w.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrDestinationAlreadyExists, dst)
		}
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
		if err != nil {
			_ = w.fs.Remove(dst)
		}
	}()

	if _, err := f.Write(content); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	return f.Sync()
}

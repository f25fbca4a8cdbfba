// Package source lists candidate media files on the camera storage.
package source

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"camera-transfer/internal/domain"
	"camera-transfer/internal/logging"

	"github.com/spf13/afero"
)

// errStop ends a walk early when the consumer stops iterating.
var errStop = errors.New("source: iteration stopped")

// Enumerator walks a camera folder and yields files with a configured
// extension. It is stateless between calls; every List walks afresh.
type Enumerator struct {
	fs         afero.Fs
	root       string
	exts       map[string]bool
	skipHidden bool
	logger     *slog.Logger
}

// Options tunes an Enumerator.
type Options struct {
	// SkipHidden skips dot-directories (.Trashes, .Spotlight-V100, ...) and
	// dot-files such as macOS "._DSCN0001.JPG" companions.
	SkipHidden bool
	Logger     *slog.Logger
}

// New returns an Enumerator over root on fs, matching extensions exactly
// (leading dot, case-sensitive).
func New(fs afero.Fs, root string, extensions []string, opts Options) *Enumerator {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[ext] = true
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Enumerator{
		fs:         fs,
		root:       filepath.Clean(root),
		exts:       exts,
		skipHidden: opts.SkipHidden,
		logger:     logger,
	}
}

// List returns a single-pass sequence of the matching files under the root.
// Content and modification time are read when each file is yielded. A walk
// failure is yielded once as the final element.
func (e *Enumerator) List() iter.Seq2[domain.RawFile, error] {
	return func(yield func(domain.RawFile, error) bool) {
		if err := e.checkRoot(); err != nil {
			yield(domain.RawFile{}, err)
			return
		}

		e.logger.Info("listing files", "location", e.root)

		err := afero.Walk(e.fs, e.root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			// Skip directories we don't want to descend into
			if info.IsDir() {
				if path != e.root && e.skipHidden && isHidden(info.Name()) {
					return filepath.SkipDir
				}
				return nil
			}

			if e.skipHidden && isHidden(info.Name()) {
				return nil
			}
			if !info.Mode().IsRegular() || !e.exts[filepath.Ext(info.Name())] {
				return nil
			}

			rel, err := filepath.Rel(e.root, path)
			if err != nil {
				rel = path
			}
			e.logger.Debug("found camera file", "path", rel)

			content, err := afero.ReadFile(e.fs, path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			f := domain.RawFile{
				Name:         info.Name(),
				Path:         rel,
				Content:      content,
				LastModified: info.ModTime(),
			}
			if !yield(f, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			yield(domain.RawFile{}, fmt.Errorf("walk %s: %w", e.root, err))
		}
	}
}

// checkRoot verifies the camera folder exists and is a directory.
func (e *Enumerator) checkRoot() error {
	info, err := e.fs.Stat(e.root)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.MissingCameraFolder(e.root)
		}
		return fmt.Errorf("stat %s: %w", e.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: camera folder %s is not a directory", domain.ErrConfigurationInvalid, e.root)
	}
	return nil
}

// isHidden reports whether a file or directory name is a dot-name.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Package manifest keeps a CSV record of every file placed in the libraries.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	"camera-transfer/internal/transfer"

	"github.com/spf13/afero"
)

// timeLayout formats transferred_at.
const timeLayout = "2006-01-02 15:04:05"

// Header is the manifest's column row.
var Header = []string{
	"filename",       // Canonical file name
	"relative_path",  // subfolder/filename inside the category's library
	"source_path",    // Path on the camera storage, relative to its root
	"category",       // image or video
	"subfolder",      // YYYY/MM partition of the run
	"content_hash",   // SHA-256 of the file content
	"transferred_at", // Local time of the transfer
}

// keyColumn is the index of relative_path, which identifies a row.
const keyColumn = 1

// Row converts a completed transfer into a manifest row.
func Row(t transfer.Transfer) []string {
	return []string{
		t.Name,
		path.Join(filepath.ToSlash(t.Subfolder), t.Name),
		filepath.ToSlash(t.SourcePath),
		string(t.Category),
		filepath.ToSlash(t.Subfolder),
		t.Hash.String(),
		t.TransferredAt.Format(timeLayout),
	}
}

// Update merges transfers into the manifest at file, creating it and its
// directory when needed. Existing rows are kept; a transfer whose
// relative_path is already listed is not added again. The file is rewritten
// sorted by relative_path. Update returns the number of rows added.
func Update(fsys afero.Fs, file string, transfers []transfer.Transfer) (int, error) {
	rows, err := read(fsys, file)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, t := range transfers {
		row := Row(t)
		if _, ok := rows[row[keyColumn]]; ok {
			continue
		}
		rows[row[keyColumn]] = row
		added++
	}

	if err := write(fsys, file, rows); err != nil {
		return 0, err
	}
	return added, nil
}

// read returns the rows of file keyed by relative_path. A missing file has
// no rows.
func read(fsys afero.Fs, file string) (map[string][]string, error) {
	rows := make(map[string][]string)

	f, err := fsys.Open(file)
	if errors.Is(err, fs.ErrNotExist) {
		return rows, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Header)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", file, err)
	}
	if len(records) == 0 {
		return rows, nil
	}
	for _, row := range records[1:] {
		rows[row[keyColumn]] = row
	}
	return rows, nil
}

func write(fsys afero.Fs, file string, rows map[string][]string) (err error) {
	if err := fsys.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return fmt.Errorf("create manifest directory: %w", err)
	}

	tmp := file + ".tmp"
	f, err := fsys.Create(tmp)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	defer func() {
		if err != nil {
			_ = fsys.Remove(tmp)
		}
	}()

	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	for _, k := range keys {
		if err := w.Write(rows[k]); err != nil {
			f.Close()
			return fmt.Errorf("write manifest: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	if err := fsys.Rename(tmp, file); err != nil {
		return fmt.Errorf("replace manifest: %w", err)
	}
	return nil
}

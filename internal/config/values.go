package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"camera-transfer/internal/logging"
)

// ModelCodes maps an EXIF camera model to the short code used in file names.
// It decodes from a JSON object.
type ModelCodes map[string]string

func (m *ModelCodes) Decode(value string) error {
	codes := map[string]string{}
	if strings.TrimSpace(value) != "" {
		if err := json.Unmarshal([]byte(value), &codes); err != nil {
			return fmt.Errorf("camera model map must be a JSON object of strings: %w", err)
		}
	}
	for model, code := range codes {
		if model == "" || code == "" {
			return fmt.Errorf("camera model map has an empty entry (%q: %q)", model, code)
		}
	}
	*m = codes
	return nil
}

// Extensions is a list of file extensions with their leading dot. It decodes
// from a JSON list or a comma-separated string.
type Extensions []string

func (e *Extensions) Decode(value string) error {
	var exts []string
	value = strings.TrimSpace(value)
	if strings.HasPrefix(value, "[") {
		if err := json.Unmarshal([]byte(value), &exts); err != nil {
			return fmt.Errorf("extension list must be a JSON list of strings: %w", err)
		}
	} else if value != "" {
		for _, ext := range strings.Split(value, ",") {
			exts = append(exts, strings.TrimSpace(ext))
		}
	}
	for _, ext := range exts {
		if len(ext) < 2 || ext[0] != '.' {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	*e = exts
	return nil
}

// overlap returns the extensions present in both lists, sorted.
func (e Extensions) overlap(other Extensions) []string {
	seen := make(map[string]bool, len(e))
	for _, ext := range e {
		seen[ext] = true
	}
	var both []string
	for _, ext := range other {
		if seen[ext] {
			both = append(both, ext)
			delete(seen, ext)
		}
	}
	sort.Strings(both)
	return both
}

// LogLevel is a slog level spelled DEBUG, INFO, WARN(ING) or ERROR.
type LogLevel slog.Level

func (l *LogLevel) Decode(value string) error {
	lvl, err := logging.ParseLevel(value)
	if err != nil {
		return err
	}
	*l = LogLevel(lvl)
	return nil
}

// Level returns l as a slog.Level.
func (l LogLevel) Level() slog.Level { return slog.Level(l) }

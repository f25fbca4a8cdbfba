package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"camera-transfer/internal/domain"

	"github.com/spf13/afero"
)

// Validate checks the settings against the filesystem: the three folders
// must exist and the image and video extension sets must be non-empty and
// disjoint. A missing camera folder gets its own message, since it usually
// means the SD card is not mounted.
func (s *Settings) Validate(fsys afero.Fs) error {
	if err := requireDir(fsys, "CAMERA_FOLDER", s.CameraFolder); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.MissingCameraFolder(s.CameraFolder)
		}
		return err
	}
	if err := requireDir(fsys, "MAIN_PHOTOS_FOLDER", s.MainPhotosFolder); err != nil {
		return err
	}
	if err := requireDir(fsys, "MAIN_VIDEOS_FOLDER", s.MainVideosFolder); err != nil {
		return err
	}

	if len(s.ImageFormats) == 0 {
		return fmt.Errorf("%w: %s_IMAGE_FORMATS is empty", domain.ErrConfigurationInvalid, Prefix)
	}
	if len(s.VideoFormats) == 0 {
		return fmt.Errorf("%w: %s_VIDEO_FORMATS is empty", domain.ErrConfigurationInvalid, Prefix)
	}
	if both := s.ImageFormats.overlap(s.VideoFormats); len(both) > 0 {
		return fmt.Errorf("%w: extensions listed as both image and video: %s",
			domain.ErrConfigurationInvalid, strings.Join(both, ", "))
	}

	if s.SQLiteDatabase != "" {
		if info, err := fsys.Stat(s.SQLiteDatabase); err == nil && info.IsDir() {
			return fmt.Errorf("%w: %s_SQLITE_DATABASE %s is a directory",
				domain.ErrConfigurationInvalid, Prefix, s.SQLiteDatabase)
		}
	}
	return nil
}

// requireDir returns an error wrapping both ErrConfigurationInvalid and the
// stat error when path is not an existing directory.
func requireDir(fsys afero.Fs, key, path string) error {
	if path == "" {
		return fmt.Errorf("%w: %s_%s is empty", domain.ErrConfigurationInvalid, Prefix, key)
	}
	info, err := fsys.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s_%s: %w", domain.ErrConfigurationInvalid, Prefix, key, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s_%s: %s is not a directory", domain.ErrConfigurationInvalid, Prefix, key, path)
	}
	return nil
}

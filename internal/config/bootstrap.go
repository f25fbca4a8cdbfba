package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"camera-transfer/internal/domain"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const appName = "camera-transfer"

// DefaultModelCodes seeds the camera model map of a new settings file.
var DefaultModelCodes = map[string]string{
	"COOLPIX S9700": "S9700",
	"TFY-LX1":       "chris-phone",
}

// DefaultPath is the settings file used when none is given:
// $XDG_CONFIG_HOME/camera-transfer/settings.env.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "settings.env")
}

// Defaults returns the settings written into a new settings file, derived
// from the user's XDG directories.
func Defaults() map[string]string {
	codes, _ := json.Marshal(DefaultModelCodes)
	key := func(k string) string { return Prefix + "_" + k }
	return map[string]string{
		key("CAMERA_FOLDER"):            ".",
		key("MAIN_PHOTOS_FOLDER"):       xdg.UserDirs.Pictures,
		key("MAIN_VIDEOS_FOLDER"):       xdg.UserDirs.Videos,
		key("SQLITE_DATABASE"):          filepath.Join(xdg.DataHome, appName, appName+".db"),
		key("CAMERA_MODEL_SHORT_NAMES"): string(codes),
		key("IMAGE_FORMATS"):            strings.Join([]string{".jpg", ".JPG", ".jpeg", ".JPEG", ".png", ".PNG"}, ","),
		key("VIDEO_FORMATS"):            strings.Join([]string{".mov", ".MOV", ".mp4", ".MP4"}, ","),
		key("LOG_LEVEL"):                "INFO",
	}
}

// Bootstrap writes values to a new settings file at path, creating its
// directory. An existing file is left alone and Bootstrap reports false.
func Bootstrap(path string, values map[string]string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("%w: settings %s: %w", domain.ErrConfigurationInvalid, path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("%w: create settings directory: %w", domain.ErrConfigurationInvalid, err)
	}
	if err := godotenv.Write(values, path); err != nil {
		return false, fmt.Errorf("%w: write settings %s: %w", domain.ErrConfigurationInvalid, path, err)
	}
	return true, nil
}

// Package config loads the camera-transfer settings.
//
// Settings come from a dotenv file and the process environment, all keys
// prefixed CT_. A variable set in the environment wins over the file.
package config

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"camera-transfer/internal/domain"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the namespace of every settings key; Settings tags spell it out.
const Prefix = "CT"

// Settings is the validated run configuration.
type Settings struct {
	CameraFolder     string `envconfig:"CT_CAMERA_FOLDER" required:"true"`
	MainPhotosFolder string `envconfig:"CT_MAIN_PHOTOS_FOLDER" required:"true"`
	MainVideosFolder string `envconfig:"CT_MAIN_VIDEOS_FOLDER" required:"true"`

	// SQLiteDatabase is the ledger file. Empty keeps the ledger in memory.
	SQLiteDatabase string `envconfig:"CT_SQLITE_DATABASE"`

	CameraModelShortNames ModelCodes `envconfig:"CT_CAMERA_MODEL_SHORT_NAMES" required:"true"`
	ImageFormats          Extensions `envconfig:"CT_IMAGE_FORMATS" default:".jpg,.JPG"`
	VideoFormats          Extensions `envconfig:"CT_VIDEO_FORMATS" default:".mov,.MOV,.mp4,.MP4"`

	DryRun   bool     `envconfig:"CT_DRY_RUN" default:"false"`
	LogLevel LogLevel `envconfig:"CT_LOG_LEVEL" default:"INFO"`

	// ManifestFile is the transfer manifest CSV. Empty disables it.
	ManifestFile string `envconfig:"CT_MANIFEST_FILE"`
	SkipHidden   bool   `envconfig:"CT_SKIP_HIDDEN" default:"true"`
}

// Load reads the settings file at path, overlays the process environment and
// decodes the result. It does not check the filesystem; see Validate.
//
// Values from the file are exported into the environment only for the
// duration of the call, so Load must not run concurrently with itself.
func Load(path string) (*Settings, error) {
	file, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read settings %s: %w", domain.ErrConfigurationInvalid, path, err)
	}

	if unknown := unknownKeys(file); len(unknown) > 0 {
		return nil, fmt.Errorf("%w: unknown settings in %s: %s",
			domain.ErrConfigurationInvalid, path, strings.Join(unknown, ", "))
	}

	restore, err := exportMissing(file)
	defer restore()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigurationInvalid, err)
	}

	// Tags hold full CT_ keys; bare names such as DRY_RUN are never read.
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConfigurationInvalid, err)
	}
	return &s, nil
}

// Extensions returns every configured extension, images first.
func (s *Settings) Extensions() []string {
	exts := make([]string, 0, len(s.ImageFormats)+len(s.VideoFormats))
	exts = append(exts, s.ImageFormats...)
	return append(exts, s.VideoFormats...)
}

// Keys returns the full names of the recognised settings, sorted.
func Keys() []string {
	t := reflect.TypeOf(Settings{})
	keys := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if tag := t.Field(i).Tag.Get("envconfig"); tag != "" {
			keys = append(keys, tag)
		}
	}
	sort.Strings(keys)
	return keys
}

func unknownKeys(file map[string]string) []string {
	known := make(map[string]bool)
	for _, k := range Keys() {
		known[k] = true
	}
	var unknown []string
	for k := range file {
		if strings.HasPrefix(k, Prefix+"_") && !known[k] {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// exportMissing sets the CT_ keys of file that the environment lacks. The
// returned func unsets them again.
func exportMissing(file map[string]string) (func(), error) {
	var set []string
	restore := func() {
		for _, k := range set {
			_ = os.Unsetenv(k)
		}
	}
	for k, v := range file {
		if !strings.HasPrefix(k, Prefix+"_") {
			continue
		}
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return restore, fmt.Errorf("export %s: %w", k, err)
		}
		set = append(set, k)
	}
	return restore, nil
}

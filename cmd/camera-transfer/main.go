// Camera Transfer - copy new photos and videos off a camera card
//
// This tool walks the camera folder (usually a mounted SD card), names every
// image from its EXIF capture time and camera model and every video from its
// modification time, and copies them into the photo and video libraries under
// a YYYY/MM folder for the current month. A SQLite ledger of content hashes
// makes sure each file is copied only once, across runs.
//
// Usage:
//
//	camera-transfer                     # Transfer using the default settings
//	camera-transfer -n                  # Preview (dry-run)
//	camera-transfer --settings ./ct.env # Use another settings file
//
// Settings are read from $XDG_CONFIG_HOME/camera-transfer/settings.env, which
// is created with defaults on first use. Every CT_* key can be overridden
// from the environment.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"camera-transfer/internal/config"
	"camera-transfer/internal/ledger"
	"camera-transfer/internal/logging"
	"camera-transfer/internal/manifest"
	"camera-transfer/internal/media"
	"camera-transfer/internal/naming"
	"camera-transfer/internal/output"
	"camera-transfer/internal/source"
	"camera-transfer/internal/transfer"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitBadUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// =============================================================================
// Command Line
// =============================================================================

type options struct {
	dryRun   bool
	settings string
	version  bool
}

// parseFlags reads the command line. The returned code is meaningful only
// when done is true.
func parseFlags(args []string, stderr io.Writer) (opts options, done bool, code int) {
	name := "camera-transfer"
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.BoolVar(&opts.dryRun, "dry-run", false, "Preview the transfer without writing anything")
	fs.BoolVar(&opts.dryRun, "n", false, "Preview (short for --dry-run)")
	fs.StringVar(&opts.settings, "settings", "", "Settings file (default: "+config.DefaultPath()+")")
	fs.BoolVar(&opts.version, "version", false, "Print the version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Camera Transfer - Copy new photos and videos off a camera card\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  %s [options]\n\n", name)
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s                     # Transfer new files\n", name)
		fmt.Fprintf(stderr, "  %s -n                  # Preview (dry-run)\n", name)
		fmt.Fprintf(stderr, "  %s --settings ./ct.env # Use another settings file\n", name)
		fmt.Fprintf(stderr, "\nSettings keys: %s\n", strings.Join(config.Keys(), ", "))
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, true, exitOK
		}
		return opts, true, exitBadUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return opts, true, exitBadUsage
	}
	if opts.settings == "" {
		opts.settings = config.DefaultPath()
	}
	return opts, false, exitOK
}

// =============================================================================
// Main Entry Point
// =============================================================================

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, done, code := parseFlags(args, stderr)
	if done {
		return code
	}
	if opts.version {
		fmt.Fprintf(stdout, "camera-transfer %s\n", version)
		return exitOK
	}

	created, err := config.Bootstrap(opts.settings, config.Defaults())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if created {
		fmt.Fprintf(stdout, "Created settings file at %s\n", opts.settings)
		fmt.Fprintln(stdout, "Next steps:")
		fmt.Fprintln(stdout, "  1. Set CT_CAMERA_FOLDER to the mounted camera card")
		fmt.Fprintln(stdout, "  2. Check the library folders and the camera model map")
		fmt.Fprintln(stdout, "  3. Run: camera-transfer -n (preview)")
		return exitOK
	}

	settings, err := config.Load(opts.settings)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	if opts.dryRun {
		settings.DryRun = true
	}

	logger := logging.New(stderr, settings.LogLevel.Level()).With("run", uuid.NewString())

	osFs := afero.NewOsFs()
	if err := settings.Validate(osFs); err != nil {
		logger.Error("invalid settings", "settings", opts.settings, "error", err)
		return exitFailure
	}

	printBanner(stdout, settings)

	l, err := ledger.Open(settings.SQLiteDatabase, ledger.Options{DryRun: settings.DryRun, Logger: logger})
	if err != nil {
		logger.Error("cannot open ledger", "error", err)
		return exitFailure
	}
	defer func() {
		if err := l.Close(); err != nil {
			logger.Warn("closing ledger", "error", err)
		}
	}()

	stats, err := transferFiles(ctx, osFs, settings, l, logger)
	if err != nil {
		logger.Error("transfer failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}

	if !settings.DryRun && settings.ManifestFile != "" && len(stats.Transfers) > 0 {
		added, err := manifest.Update(osFs, settings.ManifestFile, stats.Transfers)
		if err != nil {
			logger.Error("cannot update manifest", "manifest", settings.ManifestFile, "error", err)
			return exitFailure
		}
		fmt.Fprintf(stdout, "Added %d entries to manifest\n", added)
	}

	printSummary(stdout, settings.DryRun, stats)
	return exitOK
}

// transferFiles wires the pipeline stages and runs one transfer.
func transferFiles(ctx context.Context, fsys afero.Fs, s *config.Settings, l *ledger.Ledger, logger *slog.Logger) (transfer.Stats, error) {
	classifier, err := media.NewClassifier(s.ImageFormats, s.VideoFormats, logger)
	if err != nil {
		return transfer.Stats{}, err
	}

	orch, err := transfer.New(transfer.Config{
		Source:     source.New(fsys, s.CameraFolder, s.Extensions(), source.Options{SkipHidden: s.SkipHidden, Logger: logger}),
		Classifier: classifier,
		Namer:      naming.NewStrategy(s.CameraModelShortNames),
		Writer: output.New(fsys, output.Config{
			PhotoRoot: s.MainPhotosFolder,
			VideoRoot: s.MainVideosFolder,
			DryRun:    s.DryRun,
			Logger:    logger,
		}),
		Ledger: l,
		Logger: logger,
	})
	if err != nil {
		return transfer.Stats{}, err
	}
	return orch.Run(ctx)
}

// =============================================================================
// Output
// =============================================================================

func printBanner(w io.Writer, s *config.Settings) {
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w, "Camera Transfer")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Camera: %s\n", s.CameraFolder)
	fmt.Fprintf(w, "Photos: %s\n", s.MainPhotosFolder)
	fmt.Fprintf(w, "Videos: %s\n", s.MainVideosFolder)
	fmt.Fprintln(w)
	if s.DryRun {
		fmt.Fprintf(w, "[DRY RUN MODE - nothing will be written]\n\n")
	}
}

func printSummary(w io.Writer, dryRun bool, stats transfer.Stats) {
	if dryRun {
		fmt.Fprintf(w, "\n[DRY RUN] Would transfer %d files\n", stats.Written)
		if stats.Skipped > 0 {
			fmt.Fprintf(w, "[DRY RUN] Would skip %d duplicates\n", stats.Skipped)
		}
	} else {
		fmt.Fprintf(w, "\nTransferred %d files\n", stats.Written)
		if stats.Skipped > 0 {
			fmt.Fprintf(w, "Skipped %d duplicates\n", stats.Skipped)
		}
	}
	fmt.Fprintln(w, "\nDone!")
}

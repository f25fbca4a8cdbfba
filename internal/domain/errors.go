package domain

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedFileType is returned when a file extension belongs to neither
// the image nor the video extension set.
var ErrUnrecognizedFileType = errors.New("unrecognized file type")

// ErrMissingOrMalformedMetadata is returned when an image has no usable
// capture timestamp.
var ErrMissingOrMalformedMetadata = errors.New("missing or malformed metadata")

// ErrUnknownCameraModel is returned when a device model has no short code in
// the configured model map.
var ErrUnknownCameraModel = errors.New("unknown camera model")

// ErrDestinationAlreadyExists is returned when the output path is already taken.
var ErrDestinationAlreadyExists = errors.New("destination already exists")

// ErrConfigurationInvalid is returned for missing directories and malformed
// settings values.
var ErrConfigurationInvalid = errors.New("configuration invalid")

// ErrLedgerIO is returned when the hash ledger's backing store cannot be
// opened, read or written.
var ErrLedgerIO = errors.New("ledger I/O failure")

// MissingCameraFolder reports a camera folder that does not exist, usually an
// SD card that is not mounted.
func MissingCameraFolder(path string) error {
	return fmt.Errorf("%w: The folder `%s` does not exist. Please check that the SD card is properly inserted.",
		ErrConfigurationInvalid, path)
}

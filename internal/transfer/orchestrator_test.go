package transfer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"camera-transfer/internal/domain"
	"camera-transfer/internal/media"
	"camera-transfer/internal/media/mediatest"
	"camera-transfer/internal/naming"
	"camera-transfer/internal/transfer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var runTime = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	source *transfer.MockSource
	writer *transfer.MockWriter
	ledger *transfer.MockLedger
	orch   *transfer.Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	classifier, err := media.NewClassifier([]string{".jpg", ".JPG"}, []string{".mov", ".MOV", ".mp4", ".MP4"}, nil)
	require.NoError(t, err)

	f := &fixture{
		source: transfer.NewMockSource(),
		writer: transfer.NewMockWriter(),
		ledger: transfer.NewMockLedger(),
	}
	f.orch, err = transfer.New(transfer.Config{
		Source:     f.source,
		Classifier: classifier,
		Namer:      naming.NewStrategy(map[string]string{"COOLPIX S9700": "S9700"}),
		Writer:     f.writer,
		Ledger:     f.ledger,
		Now:        func() time.Time { return runTime },
	})
	require.NoError(t, err)
	return f
}

func coolpixImage(payload string) domain.RawFile {
	return domain.RawFile{
		Name: "DSCN6228.JPG",
		Path: "DCIM/100NIKON/DSCN6228.JPG",
		Content: mediatest.JPEG(mediatest.Tags{
			Model:    "COOLPIX S9700",
			DateTime: "2022:07:27 11:54:09",
		}, []byte(payload)),
		LastModified: time.Date(2022, 7, 27, 11, 54, 9, 0, time.UTC),
	}
}

func TestOrchestrator_Run_WritesAndRecordsNewImage(t *testing.T) {
	// Arrange
	f := newFixture(t)
	file := coolpixImage("a")
	hash := domain.HashContent(file.Content)
	const name = "2022-07-27T115409_S9700_6228.JPG"

	f.source.On("List").Return([]domain.RawFile{file}, nil)
	f.ledger.On("Contains", hash).Return(false, nil)
	f.writer.On("Write", name, file.LastModified, file.Content, domain.CategoryImage, "2026/10").Return(nil)
	f.ledger.On("Record", hash, name).Return(nil)

	// Act
	stats, err := f.orch.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Written)
	assert.Equal(t, 0, stats.Skipped)
	require.Len(t, stats.Transfers, 1)
	assert.Equal(t, transfer.Transfer{
		SourcePath:    file.Path,
		Name:          name,
		Category:      domain.CategoryImage,
		Subfolder:     "2026/10",
		Hash:          hash,
		TransferredAt: runTime,
	}, stats.Transfers[0])
	f.ledger.AssertExpectations(t)
	f.writer.AssertExpectations(t)
}

func TestOrchestrator_Run_NamesVideoFromModificationTime(t *testing.T) {
	f := newFixture(t)
	mod := time.Date(2024, 1, 25, 17, 0, 3, 0, time.Local)
	file := domain.RawFile{Name: "MVI_0042.MOV", Path: "DCIM/MVI_0042.MOV", Content: []byte("moov"), LastModified: mod}
	hash := domain.HashContent(file.Content)

	f.source.On("List").Return([]domain.RawFile{file}, nil)
	f.ledger.On("Contains", hash).Return(false, nil)
	f.writer.On("Write", "2024-01-25T170003_video.mp4", mod, file.Content, domain.CategoryVideo, "2026/10").Return(nil)
	f.ledger.On("Record", hash, "2024-01-25T170003_video.mp4").Return(nil)

	stats, err := f.orch.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Written)
	f.writer.AssertExpectations(t)
}

func TestOrchestrator_Run_SkipsKnownHash(t *testing.T) {
	f := newFixture(t)
	file := coolpixImage("a")

	f.source.On("List").Return([]domain.RawFile{file}, nil)
	f.ledger.On("Contains", domain.HashContent(file.Content)).Return(true, nil)

	stats, err := f.orch.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, stats.Written)
	assert.Equal(t, 1, stats.Skipped)
	assert.Empty(t, stats.Transfers)
	f.writer.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestOrchestrator_Run_UnknownModelAbortsRun(t *testing.T) {
	f := newFixture(t)
	canon := domain.RawFile{
		Name:    "IMG_0001.JPG",
		Path:    "DCIM/IMG_0001.JPG",
		Content: mediatest.JPEG(mediatest.Tags{Model: "Canon EOS 5D", DateTime: "2021:01:02 03:04:05"}, nil),
	}
	next := coolpixImage("after")

	f.source.On("List").Return([]domain.RawFile{canon, next}, nil)
	f.ledger.On("Contains", mock.Anything).Return(false, nil)

	stats, err := f.orch.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownCameraModel)
	assert.Contains(t, err.Error(), "DCIM/IMG_0001.JPG")
	assert.Zero(t, stats.Written)
	f.ledger.AssertNumberOfCalls(t, "Contains", 1)
	f.writer.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_Run_MissingMetadataAbortsRun(t *testing.T) {
	f := newFixture(t)
	file := domain.RawFile{Name: "DSCN0001.JPG", Path: "DSCN0001.JPG", Content: mediatest.PlainJPEG([]byte("x"))}

	f.source.On("List").Return([]domain.RawFile{file}, nil)
	f.ledger.On("Contains", mock.Anything).Return(false, nil)

	_, err := f.orch.Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrMissingOrMalformedMetadata)
}

func TestOrchestrator_Run_UnrecognizedTypeAbortsBeforeLedger(t *testing.T) {
	f := newFixture(t)
	f.source.On("List").Return([]domain.RawFile{{Name: "notes.txt", Path: "notes.txt"}}, nil)

	_, err := f.orch.Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrUnrecognizedFileType)
	f.ledger.AssertNotCalled(t, "Contains", mock.Anything)
}

func TestOrchestrator_Run_WriteFailureSkipsRecord(t *testing.T) {
	f := newFixture(t)
	file := coolpixImage("a")

	f.source.On("List").Return([]domain.RawFile{file}, nil)
	f.ledger.On("Contains", mock.Anything).Return(false, nil)
	f.writer.On("Write", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.ErrDestinationAlreadyExists)

	_, err := f.orch.Run(context.Background())

	assert.ErrorIs(t, err, domain.ErrDestinationAlreadyExists)
	f.ledger.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestOrchestrator_Run_LedgerFailures(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		f := newFixture(t)
		f.source.On("List").Return([]domain.RawFile{coolpixImage("a")}, nil)
		f.ledger.On("Contains", mock.Anything).Return(false, domain.ErrLedgerIO)

		_, err := f.orch.Run(context.Background())

		assert.ErrorIs(t, err, domain.ErrLedgerIO)
		f.writer.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("record", func(t *testing.T) {
		f := newFixture(t)
		f.source.On("List").Return([]domain.RawFile{coolpixImage("a")}, nil)
		f.ledger.On("Contains", mock.Anything).Return(false, nil)
		f.writer.On("Write", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.ledger.On("Record", mock.Anything, mock.Anything).Return(domain.ErrLedgerIO)

		stats, err := f.orch.Run(context.Background())

		assert.ErrorIs(t, err, domain.ErrLedgerIO)
		assert.Zero(t, stats.Written)
	})
}

func TestOrchestrator_Run_SourceErrorIsReturned(t *testing.T) {
	f := newFixture(t)
	f.source.On("List").Return([]domain.RawFile{}, domain.MissingCameraFolder("/media/sd"))

	_, err := f.orch.Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigurationInvalid)
	assert.Contains(t, err.Error(), "/media/sd")
}

func TestOrchestrator_Run_StopsBetweenFilesWhenCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.source.On("List").Return([]domain.RawFile{coolpixImage("a")}, nil)

	stats, err := f.orch.Run(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, stats.Written)
	f.ledger.AssertNotCalled(t, "Contains", mock.Anything)
}

func TestOrchestrator_Run_EmptySource(t *testing.T) {
	f := newFixture(t)
	f.source.On("List").Return([]domain.RawFile{}, nil)

	stats, err := f.orch.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, transfer.Stats{}, stats)
}

func TestNew_RequiresEveryStage(t *testing.T) {
	_, err := transfer.New(transfer.Config{Source: transfer.NewMockSource()})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigurationInvalid)
	for _, stage := range []string{"classifier", "namer", "writer", "ledger"} {
		assert.Contains(t, err.Error(), stage)
	}
	assert.NotContains(t, err.Error(), "source")
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "written", transfer.Written.String())
	assert.Equal(t, "skipped-duplicate", transfer.SkippedDuplicate.String())
	assert.Equal(t, "Outcome(0)", transfer.Outcome(0).String())
}

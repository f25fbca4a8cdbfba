package transfer

import (
	"iter"
	"time"

	"camera-transfer/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockSource yields a fixed list of files, then an optional trailing error.
type MockSource struct {
	mock.Mock
}

func NewMockSource() *MockSource {
	return &MockSource{}
}

func (m *MockSource) List() iter.Seq2[domain.RawFile, error] {
	args := m.Called()
	files := args.Get(0).([]domain.RawFile)
	tail := args.Error(1)
	return func(yield func(domain.RawFile, error) bool) {
		for _, f := range files {
			if !yield(f, nil) {
				return
			}
		}
		if tail != nil {
			yield(domain.RawFile{}, tail)
		}
	}
}

type MockWriter struct {
	mock.Mock
}

func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

func (m *MockWriter) Write(name string, lastModified time.Time, content []byte, category domain.Category, subfolder string) error {
	args := m.Called(name, lastModified, content, category, subfolder)
	return args.Error(0)
}

type MockLedger struct {
	mock.Mock
}

func NewMockLedger() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) Contains(hash domain.ContentHash) (bool, error) {
	args := m.Called(hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) Record(hash domain.ContentHash, name string) error {
	args := m.Called(hash, name)
	return args.Error(0)
}

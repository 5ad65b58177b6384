package runtime

import (
	"io"
	"os"
	"path/filepath"

	"github.com/taskcluster/slugid-go/slugid"
)

// TemporaryStorage can create temporary folders and files.
type TemporaryStorage interface {
	NewFolder() (TemporaryFolder, error)
	NewFile(suffix string) (TemporaryFile, error)
}

// TemporaryFolder is a temporary folder that is backed by the filesystem.
// Users are nicely asked to stay within the folder they've been issued.
//
// We don't mock the filesystem interface as paths need to be handed to
// external programs, so we have to expose real file paths.
type TemporaryFolder interface {
	TemporaryStorage
	Path() string
	Remove() error
}

// TemporaryFile is a temporary file that will be removed when closed.
//
// The suffix given at creation is kept in the file name, so consumers that
// infer a format from the basename (remote upload endpoints do) see the
// right extension.
type TemporaryFile interface {
	io.ReadWriteSeeker
	io.Closer
	Path() string
}

type temporaryFolder struct {
	path string
}

type temporaryFile struct {
	*os.File
	path string
}

// NewTemporaryStorage returns TemporaryStorage rooted in the given path.
func NewTemporaryStorage(path string) (TemporaryStorage, error) {
	err := os.MkdirAll(path, 0700)
	if err != nil {
		return nil, err
	}
	return &temporaryFolder{path: path}, nil
}

// NewTemporaryTestStorage returns TemporaryStorage rooted in the system
// temporary directory, for use in tests and one-shot commands.
func NewTemporaryTestStorage(prefix string) (TemporaryStorage, error) {
	return NewTemporaryStorage(filepath.Join(os.TempDir(), prefix+slugid.Nice()))
}

func (s *temporaryFolder) Path() string {
	return s.path
}

func (s *temporaryFolder) NewFolder() (TemporaryFolder, error) {
	path := filepath.Join(s.path, slugid.Nice())
	err := os.Mkdir(path, 0700)
	if err != nil {
		return nil, err
	}
	return &temporaryFolder{path: path}, nil
}

func (s *temporaryFolder) NewFile(suffix string) (TemporaryFile, error) {
	path := filepath.Join(s.path, slugid.Nice()+suffix)
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &temporaryFile{file, path}, nil
}

func (s *temporaryFolder) Remove() error {
	return os.RemoveAll(s.path)
}

func (f *temporaryFile) Path() string {
	return f.path
}

func (f *temporaryFile) Close() error {
	f.File.Close()
	return os.Remove(f.path)
}

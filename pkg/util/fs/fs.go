// Package fs provides the FileSystem interface used by the assembly to stage
// the build context.
package fs

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
)

var log = utillog.StderrLog

// FileSystem allows filesystem operations to be mocked in tests.
type FileSystem interface {
	Chmod(file string, mode os.FileMode) error
	Rename(from, to string) error
	MkdirAll(dirname string) error
	Mkdir(dirname string) error
	Exists(file string) bool
	Copy(sourcePath, targetPath string) error
	CopyContents(sourcePath, targetPath string) error
	RemoveDirectory(dir string) error
	CreateWorkingDirectory() (string, error)
	Open(file string) (io.ReadCloser, error)
	Create(file string) (io.WriteCloser, error)
	WriteFile(file string, data []byte) error
	ReadDir(dir string) ([]os.FileInfo, error)
	Stat(file string) (os.FileInfo, error)
}

// NewFileSystem creates a new instance of the default FileSystem
// implementation
func NewFileSystem() FileSystem {
	return &fs{}
}

type fs struct{}

// Chmod sets the file mode
func (h *fs) Chmod(file string, mode os.FileMode) error {
	return os.Chmod(file, mode)
}

// Rename renames or moves a file
func (h *fs) Rename(from, to string) error {
	return os.Rename(from, to)
}

// MkdirAll creates the directory and all its parents
func (h *fs) MkdirAll(dirname string) error {
	return os.MkdirAll(dirname, 0700)
}

// Mkdir creates the specified directory
func (h *fs) Mkdir(dirname string) error {
	return os.Mkdir(dirname, 0700)
}

// Exists determines whether the given file exists
func (h *fs) Exists(file string) bool {
	_, err := os.Stat(file)
	return err == nil
}

// Copy copies the source to a destination. If the source is a file, then the
// destination has to be a file as well, otherwise both have to be directories.
func (h *fs) Copy(source string, dest string) error {
	return doCopy(h, source, dest)
}

func doCopy(h FileSystem, source, dest string) error {
	sourceInfo, err := h.Stat(source)
	if err != nil {
		return err
	}
	if sourceInfo.IsDir() {
		log.V(5).Infof("D %q -> %q", source, dest)
		return h.CopyContents(source, dest)
	}

	log.V(5).Infof("F %q -> %q", source, dest)
	in, err := h.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := h.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return h.Chmod(dest, sourceInfo.Mode())
}

// CopyContents copies the content of the source directory to a destination
// directory. If the destination directory does not exist, it is created.
func (h *fs) CopyContents(src string, dest string) error {
	sourceInfo, err := h.Stat(src)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(dest, sourceInfo.Mode()); err != nil {
		return err
	}
	entries, err := h.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		sourcePath := filepath.Join(src, entry.Name())
		targetPath := filepath.Join(dest, entry.Name())
		if err = doCopy(h, sourcePath, targetPath); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDirectory removes the specified directory and all its contents
func (h *fs) RemoveDirectory(dir string) error {
	log.V(2).Infof("Removing directory '%s'", dir)

	err := os.RemoveAll(dir)
	if err != nil {
		log.Errorf("Error removing directory '%s': %v", dir, err)
	}
	return err
}

// CreateWorkingDirectory creates a directory to be used for the build
func (h *fs) CreateWorkingDirectory() (directory string, err error) {
	directory, err = ioutil.TempDir("", "d2i")
	if err != nil {
		return "", fmt.Errorf("error creating temporary directory '%s': %v", directory, err)
	}
	return directory, err
}

// Open opens a file and returns a ReadCloser interface to that file
func (h *fs) Open(filename string) (io.ReadCloser, error) {
	return os.Open(filename)
}

// Create creates a file and returns a WriteCloser interface to that file
func (h *fs) Create(filename string) (io.WriteCloser, error) {
	return os.Create(filename)
}

// WriteFile opens a file and writes data to it, returning an error if any
func (h *fs) WriteFile(filename string, data []byte) error {
	return ioutil.WriteFile(filename, data, 0644)
}

// ReadDir reads the files in specified directory
func (h *fs) ReadDir(dir string) ([]os.FileInfo, error) {
	return ioutil.ReadDir(dir)
}

// Stat returns a FileInfo describing the named file
func (h *fs) Stat(file string) (os.FileInfo, error) {
	return os.Stat(file)
}

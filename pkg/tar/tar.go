// Package tar creates the tar stream that uploads the build context into the
// assemble container.
package tar

import (
	"archive/tar"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/overcooked-ai/demo2image/pkg/util/fs"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
)

var log = utillog.StderrLog

// DefaultExclusionPattern is the pattern of files that will not be included
// in a tar file when creating one. By default it is any file inside a .git
// metadata directory.
var DefaultExclusionPattern = regexp.MustCompile(`(^|/)\.git(/|$)`)

// Tar writes a directory tree as a tar stream.
type Tar interface {
	// SetExclusionPattern sets the exclusion pattern for tar creation.
	SetExclusionPattern(*regexp.Regexp)

	// CreateTarStream creates a tar from the given directory and streams
	// it to the given writer.
	CreateTarStream(dir string, includeDirInPath bool, writer io.Writer) error
}

// New creates a new Tar
func New(fs fs.FileSystem) Tar {
	return &d2iTar{
		FileSystem: fs,
		exclude:    DefaultExclusionPattern,
	}
}

type d2iTar struct {
	fs.FileSystem
	exclude *regexp.Regexp
}

// SetExclusionPattern sets the exclusion pattern for tar creation
func (t *d2iTar) SetExclusionPattern(p *regexp.Regexp) {
	t.exclude = p
}

// CreateTarStream creates a tar stream on the given writer from the given
// directory while excluding files that match the exclusion pattern.
func (t *d2iTar) CreateTarStream(dir string, includeDirInPath bool, writer io.Writer) error {
	tarWriter := tar.NewWriter(writer)
	defer tarWriter.Close()
	return t.writeTarContents(tarWriter, dir, includeDirInPath)
}

func (t *d2iTar) writeTarContents(tarWriter *tar.Writer, dir string, includeDirInPath bool) error {
	dir = filepath.Clean(dir)
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		if t.shouldExclude(relPath) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		headerName := filepath.ToSlash(relPath)
		if includeDirInPath {
			headerName = filepath.ToSlash(filepath.Join(filepath.Base(dir), relPath))
		}
		if info.IsDir() {
			header, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return err
			}
			header.Name = headerName + "/"
			return tarWriter.WriteHeader(header)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			header, err := tar.FileInfoHeader(info, target)
			if err != nil {
				return err
			}
			header.Name = headerName
			return tarWriter.WriteHeader(header)
		}
		if !info.Mode().IsRegular() {
			log.V(3).Infof("Skipping special file %q", path)
			return nil
		}
		return t.writeTarFile(tarWriter, path, headerName, info)
	})
}

func (t *d2iTar) writeTarFile(tarWriter *tar.Writer, path, headerName string, info os.FileInfo) error {
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = headerName
	if err = tarWriter.WriteHeader(header); err != nil {
		return err
	}
	file, err := t.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(tarWriter, file)
	return err
}

// shouldExclude returns true if the relative path matches the exclusion
// pattern.
func (t *d2iTar) shouldExclude(relPath string) bool {
	return t.exclude != nil && t.exclude.String() != "" && t.exclude.MatchString(strings.TrimPrefix(relPath, "/"))
}

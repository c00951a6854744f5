// Package ignore prunes files from the staged build context based on the
// contents of the ignore file, with .dockerignore matching semantics.
package ignore

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/overcooked-ai/demo2image/pkg/api/constants"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
)

var log = utillog.StderrLog

// DockerIgnorer ignores files based on the contents of the ignore file found
// in the staged directory.
type DockerIgnorer struct{}

// Ignore removes files from the staged context directory based on the
// contents of the ignore file. Patterns are not recursive, comments start
// with # and a leading ! reinstates a previously matched file.
func (b *DockerIgnorer) Ignore(dir string) error {
	filesToDel, err := b.GetListOfFilesToIgnore(dir)
	if err != nil {
		return err
	}

	for _, fileToDel := range filesToDel {
		log.V(5).Infof("attempting to remove file %s", fileToDel)
		if err := os.RemoveAll(fileToDel); err != nil {
			log.Errorf("error removing file %s because of %v", fileToDel, err)
			return err
		}
	}

	return nil
}

// GetListOfFilesToIgnore returns the files under dir matched by the ignore
// file.
func (b *DockerIgnorer) GetListOfFilesToIgnore(dir string) (map[string]string, error) {
	path := filepath.Join(dir, constants.IgnoreFile)
	m, err := NewMatcher(path)
	if err != nil {
		return nil, err
	}

	filesToDel := make(map[string]string)
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // ignore error
		}

		rp, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		if rp == "." {
			return nil
		}

		if m.Match(rp) {
			filesToDel[path] = path
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return filesToDel, nil
}

type fileSpec struct {
	glob    string
	inverse bool
}

// Matcher matches relative paths against the parsed ignore file.
type Matcher struct {
	specs []fileSpec
}

// NewMatcher parses the ignore file at the given path. A missing file yields
// a matcher that matches nothing.
func NewMatcher(ignorePath string) (Matcher, error) {
	file, err := os.Open(ignorePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Errorf("Ignore processing, problem opening %s because of %v", ignorePath, err)
			return Matcher{}, err
		}
		log.V(4).Infof("%s file does not exist", constants.IgnoreFile)
		return Matcher{}, nil
	}
	defer file.Close()

	var specs []fileSpec
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		filespec := strings.Trim(scanner.Text(), " ")

		if len(filespec) == 0 {
			continue
		}

		if strings.HasPrefix(filespec, "#") {
			continue
		}

		log.V(4).Infof("%s lists a file spec of %s", constants.IgnoreFile, filespec)

		if strings.HasPrefix(filespec, "!") {
			filespec = strings.Replace(filespec, "!", "", 1)
			specs = append(specs, fileSpec{
				glob:    filespec,
				inverse: true,
			})
			continue
		}

		specs = append(specs, fileSpec{glob: filespec})
	}

	if err := scanner.Err(); err != nil && err != io.EOF {
		log.Errorf("Problem processing %s: %v", constants.IgnoreFile, err)
		return Matcher{}, err
	}
	return Matcher{specs: specs}, nil
}

// Match returns whether the given relative path is ignored. The last
// matching pattern wins, so an inverse pattern can reinstate a file.
func (m Matcher) Match(path string) bool {
	var matches bool
	for _, spec := range m.specs {
		if ok, _ := filepath.Match(spec.glob, path); ok {
			matches = !spec.inverse
		}
	}
	return matches
}

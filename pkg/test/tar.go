package test

import (
	"io"
	"regexp"
	"sync"
)

// FakeTar provides a fake tar stream writer
type FakeTar struct {
	CreateTarDir     string
	CreateTarError   error
	ExclusionPattern *regexp.Regexp

	lock sync.Mutex
}

// SetExclusionPattern sets the exclusion pattern
func (f *FakeTar) SetExclusionPattern(p *regexp.Regexp) {
	f.ExclusionPattern = p
}

// CreateTarStream pretends to stream a directory as tar
func (f *FakeTar) CreateTarStream(dir string, includeDirInPath bool, writer io.Writer) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.CreateTarDir = dir
	return f.CreateTarError
}

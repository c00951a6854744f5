package build

import "github.com/overcooked-ai/demo2image/pkg/api"

// Builder is the interface all build strategies implement. Build executes
// the assembly for the given config and returns the Result. An error
// represents a failure performing the build rather than a failure of the
// build itself; callers should check the Success field of the result.
type Builder interface {
	Build(config *api.Config) (*api.Result, error)
}

// Preparer provides the Prepare method for builders that need to stage the
// build inputs before the build runs.
type Preparer interface {
	Prepare(config *api.Config) error
}

// Cleaner provides the Cleanup method for builders that need to clean up
// temporary containers or directories after the build finishes.
type Cleaner interface {
	Cleanup(config *api.Config)
}

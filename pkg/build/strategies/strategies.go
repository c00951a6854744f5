package strategies

import (
	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/build"
	"github.com/overcooked-ai/demo2image/pkg/build/strategies/daemon"
	"github.com/overcooked-ai/demo2image/pkg/build/strategies/dockerfile"
	"github.com/overcooked-ai/demo2image/pkg/build/strategies/external"
	dockerpkg "github.com/overcooked-ai/demo2image/pkg/docker"
	"github.com/overcooked-ai/demo2image/pkg/util/fs"
)

// Strategy decides what build strategy will be used for the assembly:
// --with-builder shells out to an external builder, --as-dockerfile only
// renders the Dockerfile, and the default is building through the docker
// daemon.
func Strategy(client dockerpkg.Client, config *api.Config) (build.Builder, error) {
	fileSystem := fs.NewFileSystem()

	switch {
	case len(config.WithBuilder) > 0:
		return external.New(config, fileSystem)
	case len(config.AsDockerfile) > 0:
		return dockerfile.New(config, fileSystem)
	default:
		return daemon.New(client, config, fileSystem)
	}
}

package assemble

import (
	"path/filepath"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/api/constants"
	d2ierr "github.com/overcooked-ai/demo2image/pkg/errors"
	"github.com/overcooked-ai/demo2image/pkg/util/fs"
)

// ValidateInputs checks that every build input the pipeline consumes exists
// under the context directory, most notably the graphics bundle selected by
// the config. Running this before any image work turns a typo in --graphics
// into an immediate error instead of a failed copy deep inside the build.
func ValidateInputs(fileSystem fs.FileSystem, config *api.Config) error {
	required := []string{
		constants.RequirementsFile,
		constants.ConfigFile,
		constants.StaticDir,
		filepath.Join(constants.GraphicsDir, config.Graphics),
	}
	for _, input := range required {
		if !fileSystem.Exists(filepath.Join(config.ContextDir, input)) {
			return d2ierr.NewMissingInputError(input)
		}
	}
	return nil
}

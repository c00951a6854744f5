// Package external shells out to an external image builder (docker, buildah
// or podman) after rendering the assembly as a Dockerfile.
package external

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path"
	"sort"
	"strings"
	"syscall"
	"text/template"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/api/constants"
	"github.com/overcooked-ai/demo2image/pkg/assemble"
	"github.com/overcooked-ai/demo2image/pkg/build/strategies/dockerfile"
	d2ierr "github.com/overcooked-ai/demo2image/pkg/errors"
	"github.com/overcooked-ai/demo2image/pkg/scm/git"
	"github.com/overcooked-ai/demo2image/pkg/util/fs"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
	"github.com/overcooked-ai/demo2image/pkg/util/status"
)

// External represents the shell out for external build commands, so the
// assembly can execute without the docker daemon API.
type External struct {
	dockerfile *dockerfile.Dockerfile
	fs         fs.FileSystem
	git        git.Git
}

// d2iDockerfile is the default filename of the rendered Dockerfile.
const d2iDockerfile = "Dockerfile.d2i"

var (
	log = utillog.StderrLog

	// supported external commands, each template is evaluated against the
	// api.Config instance
	commands = map[string]string{
		"buildah": `buildah bud --tag {{ .Tag }} --file {{ .AsDockerfile }} {{ or .ContextDir "." }}`,
		"docker":  `docker build --tag {{ .Tag }} --file {{ .AsDockerfile }} {{ or .ContextDir "." }}`,
		"podman":  `podman build --tag {{ .Tag }} --file {{ .AsDockerfile }} {{ or .ContextDir "." }}`,
	}
)

// GetBuilders returns the names of the supported external builders.
func GetBuilders() []string {
	builders := []string{}
	for k := range commands {
		builders = append(builders, k)
	}
	sort.Strings(builders)
	return builders
}

// ValidBuilderName returns a boolean based in keys of global commands map.
func ValidBuilderName(name string) bool {
	_, exists := commands[name]
	return exists
}

// renderCommand renders the shell command for the builder named by the
// config. It can return error in case of template parsing or evaluation
// issues.
func (e *External) renderCommand(config *api.Config) (string, error) {
	commandTemplate, exists := commands[config.WithBuilder]
	if !exists {
		return "", fmt.Errorf("unsupported external builder %q, use one of: %s",
			config.WithBuilder, strings.Join(GetBuilders(), ", "))
	}

	t, err := template.New("external-command").Parse(commandTemplate)
	if err != nil {
		return "", err
	}
	var output bytes.Buffer
	if err = t.Execute(&output, config); err != nil {
		return "", err
	}
	return output.String(), nil
}

// execute runs the given external command, marking the result as success
// only when the exit code is zero.
func (e *External) execute(config *api.Config, externalCommand string) (*api.Result, error) {
	log.V(0).Infof("Executing external build command: '%s'", externalCommand)

	externalCommandSlice := strings.Split(externalCommand, " ")
	cmd := exec.Command(externalCommandSlice[0], externalCommandSlice[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	res := &api.Result{Success: false}
	res.Messages = append(res.Messages, fmt.Sprintf("Running command: '%s'", externalCommand))
	if err := cmd.Start(); err != nil {
		res.Messages = append(res.Messages, err.Error())
		return res, d2ierr.NewExternalBuilderError(config.WithBuilder, err)
	}

	if err := cmd.Wait(); err != nil {
		if exitErr, okay := err.(*exec.ExitError); okay {
			if waitStatus, okay := exitErr.Sys().(syscall.WaitStatus); okay {
				exitCode := waitStatus.ExitStatus()
				log.V(0).Infof("External command return-code: %d", exitCode)
				res.Messages = append(res.Messages, fmt.Sprintf("exit-code: %d", exitCode))
				if exitCode != 0 {
					return res, d2ierr.NewExternalBuilderError(config.WithBuilder, exitErr)
				}
				res.Success = true
				return res, nil
			}
		}
		return res, d2ierr.NewExternalBuilderError(config.WithBuilder, err)
	}
	res.Success = true
	return res, nil
}

// asDockerfile returns the Dockerfile location: the --as-dockerfile option
// when informed, otherwise a default name under the context directory.
func asDockerfile(config *api.Config) string {
	if len(config.AsDockerfile) > 0 {
		return config.AsDockerfile
	}
	if len(config.ContextDir) > 0 {
		return path.Join(config.ContextDir, d2iDockerfile)
	}
	return d2iDockerfile
}

// Build checks the build inputs, renders the Dockerfile and then proceeds to
// execute the external builder against it.
func (e *External) Build(config *api.Config) (*api.Result, error) {
	buildResult := &api.Result{}

	if err := assemble.ValidateInputs(e.fs, config); err != nil {
		buildResult.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonMissingInput, status.ReasonMessageMissingInput)
		return buildResult, err
	}

	if config.CheckBranch {
		exists, err := e.git.RefExists(constants.SimulationRepoURL, config.OvercookedBranch)
		if err != nil {
			buildResult.BuildInfo.FailureReason = status.NewFailureReason(
				status.ReasonFetchSimulationFailed, status.ReasonMessageFetchSimulationFailed)
			return buildResult, d2ierr.NewBranchCheckError(config.OvercookedBranch, err)
		}
		if !exists {
			buildResult.BuildInfo.FailureReason = status.NewFailureReason(
				status.ReasonFetchSimulationFailed, status.ReasonMessageFetchSimulationFailed)
			return buildResult, d2ierr.NewBranchCheckError(config.OvercookedBranch, nil)
		}
	}

	externalCommand, err := e.renderCommand(config)
	if err != nil {
		return nil, err
	}

	if err = e.dockerfile.CreateDockerfile(config); err != nil {
		return nil, err
	}

	return e.execute(config, externalCommand)
}

// New returns an instance of the external command strategy.
func New(config *api.Config, fileSystem fs.FileSystem) (*External, error) {
	config.AsDockerfile = asDockerfile(config)
	df, err := dockerfile.New(config, fileSystem)
	if err != nil {
		return nil, err
	}
	return &External{dockerfile: df, fs: fileSystem, git: git.New()}, nil
}

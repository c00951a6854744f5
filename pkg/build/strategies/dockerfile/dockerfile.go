// Package dockerfile renders the assembly pipeline as a Dockerfile, so the
// image can be built without talking to a docker daemon.
package dockerfile

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/assemble"
	d2ierr "github.com/overcooked-ai/demo2image/pkg/errors"
	"github.com/overcooked-ai/demo2image/pkg/util/fs"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
	"github.com/overcooked-ai/demo2image/pkg/util/status"
)

var log = utillog.StderrLog

// Dockerfile is the build strategy that writes the assembly out as a
// Dockerfile instead of executing it.
type Dockerfile struct {
	fs fs.FileSystem
}

// New returns a Dockerfile strategy for the given config.
func New(config *api.Config, fileSystem fs.FileSystem) (*Dockerfile, error) {
	if len(config.AsDockerfile) == 0 {
		return nil, fmt.Errorf("as-dockerfile parameter is required by the dockerfile strategy")
	}
	return &Dockerfile{fs: fileSystem}, nil
}

// Build renders the Dockerfile for the given config.
func (builder *Dockerfile) Build(config *api.Config) (*api.Result, error) {
	buildResult := &api.Result{}

	if err := assemble.ValidateInputs(builder.fs, config); err != nil {
		buildResult.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonMissingInput, status.ReasonMessageMissingInput)
		return buildResult, err
	}

	startTime := time.Now()
	err := builder.CreateDockerfile(config)
	buildResult.BuildInfo.Stages = api.RecordStageAndStepInfo(buildResult.BuildInfo.Stages,
		api.StageGenerate, api.StepRenderDockerfile, startTime, time.Now())
	if err != nil {
		buildResult.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonDockerfileCreateFailed, status.ReasonMessageDockerfileCreateFailed)
		return buildResult, err
	}

	buildResult.Success = true
	buildResult.Messages = append(buildResult.Messages,
		fmt.Sprintf("Dockerfile written to %s", config.AsDockerfile))
	return buildResult, nil
}

// CreateDockerfile renders the assembly stages and the runtime contract as a
// Dockerfile and writes it to the path given by the config. The output is
// deterministic for identical configs. It can return error when the pipeline
// definition is invalid or the file cannot be written.
func (builder *Dockerfile) CreateDockerfile(config *api.Config) error {
	log.V(4).Infof("Rendering Dockerfile for %s", config.Tag)

	plan, err := assemble.Plan(config)
	if err != nil {
		return err
	}
	contract := assemble.Contract(config)

	var buffer bytes.Buffer
	fmt.Fprintf(&buffer, "FROM %s\n", assemble.BaseImage(config))
	fmt.Fprintf(&buffer, "WORKDIR %s\n", contract.WorkingDir)
	fmt.Fprintf(&buffer, "COPY . %s\n", contract.WorkingDir)

	for _, stage := range plan {
		if stage.Commands == nil {
			continue
		}
		commands := stage.Commands(config)
		if len(commands) == 0 {
			continue
		}
		fmt.Fprintf(&buffer, "# stage %s\n", stage.Name)
		fmt.Fprintf(&buffer, "RUN %s\n", strings.Join(commands, " && \\\n    "))
	}

	for _, env := range contract.Env {
		parts := strings.SplitN(env, "=", 2)
		fmt.Fprintf(&buffer, "ENV %s=%q\n", parts[0], parts[1])
	}
	if len(contract.Labels) > 0 {
		buffer.WriteString(renderLabels(contract.Labels))
	}
	for _, port := range contract.ExposedPorts {
		fmt.Fprintf(&buffer, "EXPOSE %s\n", port)
	}
	fmt.Fprintf(&buffer, "CMD [%s]\n", quoteJoin(contract.Cmd))

	if err := builder.fs.MkdirAll(filepath.Dir(config.AsDockerfile)); err != nil {
		return d2ierr.NewDockerfileError(config.AsDockerfile, err)
	}
	if err := builder.fs.WriteFile(config.AsDockerfile, buffer.Bytes()); err != nil {
		return d2ierr.NewDockerfileError(config.AsDockerfile, err)
	}
	return nil
}

// renderLabels renders a single LABEL instruction with the keys sorted, so
// identical configs produce identical Dockerfiles.
func renderLabels(labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%q=%q", k, labels[k])
	}
	return fmt.Sprintf("LABEL %s\n", strings.Join(pairs, " \\\n      "))
}

func quoteJoin(elements []string) string {
	quoted := make([]string, len(elements))
	for i, e := range elements {
		quoted[i] = fmt.Sprintf("%q", e)
	}
	return strings.Join(quoted, ",")
}

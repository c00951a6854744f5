// Package daemon builds the demo image through the docker daemon: it pulls
// the base image, runs the assembly stages inside a container created from
// it and commits the container with the runtime contract.
package daemon

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/api/constants"
	"github.com/overcooked-ai/demo2image/pkg/assemble"
	dockerpkg "github.com/overcooked-ai/demo2image/pkg/docker"
	d2ierr "github.com/overcooked-ai/demo2image/pkg/errors"
	"github.com/overcooked-ai/demo2image/pkg/ignore"
	"github.com/overcooked-ai/demo2image/pkg/scm/git"
	"github.com/overcooked-ai/demo2image/pkg/tar"
	"github.com/overcooked-ai/demo2image/pkg/util/fs"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
	"github.com/overcooked-ai/demo2image/pkg/util/status"
)

var log = utillog.StderrLog

// uploadDir is the subdirectory of the working directory the context is
// staged in before it gets uploaded into the container.
const uploadDir = "upload"

// Daemon is the build strategy that runs the assembly through the docker
// daemon.
type Daemon struct {
	docker  dockerpkg.Docker
	fs      fs.FileSystem
	tar     tar.Tar
	git     git.Git
	ignorer *ignore.DockerIgnorer

	config   *api.Config
	result   *api.Result
	contract assemble.RuntimeContract
}

// New returns a Daemon strategy talking to the given engine API client.
func New(client dockerpkg.Client, config *api.Config, fileSystem fs.FileSystem) (*Daemon, error) {
	return &Daemon{
		docker:  dockerpkg.New(client),
		fs:      fileSystem,
		tar:     tar.New(fileSystem),
		git:     git.New(),
		ignorer: &ignore.DockerIgnorer{},
	}, nil
}

// Build runs the whole assembly and returns its result. Every stage is
// fail-fast: the first failing step aborts the build and no partial image is
// tagged.
func (b *Daemon) Build(config *api.Config) (*api.Result, error) {
	b.config = config
	b.result = &api.Result{}
	defer b.Cleanup(config)

	if err := b.Prepare(config); err != nil {
		return b.result, err
	}

	if err := b.docker.CheckReachable(); err != nil {
		return b.fail(status.ReasonGenericBuildFailed, status.ReasonMessageGenericBuildFailed, err)
	}

	if config.CheckBranch {
		exists, err := b.git.RefExists(constants.SimulationRepoURL, config.OvercookedBranch)
		if err != nil {
			return b.fail(status.ReasonFetchSimulationFailed, status.ReasonMessageFetchSimulationFailed,
				d2ierr.NewBranchCheckError(config.OvercookedBranch, err))
		}
		if !exists {
			return b.fail(status.ReasonFetchSimulationFailed, status.ReasonMessageFetchSimulationFailed,
				d2ierr.NewBranchCheckError(config.OvercookedBranch, nil))
		}
	}

	baseImage := assemble.BaseImage(config)
	policy := config.PullPolicy
	if policy == "" {
		policy = api.DefaultPullPolicy
	}

	startTime := time.Now()
	_, err := dockerpkg.GetImage(b.docker, baseImage, policy)
	b.recordStep(api.StagePullImages, api.StepPullBaseImage, startTime)
	if err != nil {
		return b.fail(status.ReasonPullBaseImageFailed, status.ReasonMessagePullBaseImageFailed, err)
	}

	script, err := assemble.Script(config)
	if err != nil {
		return b.fail(status.ReasonGenericBuildFailed, status.ReasonMessageGenericBuildFailed, err)
	}
	b.contract = assemble.Contract(config)

	stdout, stderr := b.outputStreams()
	opts := dockerpkg.RunContainerOptions{
		Image:    baseImage,
		Command:  assemble.ScriptCommand(script),
		Stdout:   stdout,
		Stderr:   stderr,
		OnStart:  b.uploadContext,
		PostExec: b,
	}

	log.V(1).Infof("Running assembly of %s in container from %s", config.Tag, baseImage)
	assemblyStart := time.Now()
	err = b.docker.RunContainer(opts)
	b.recordStep(api.StageAssemble, api.StepRunAssembly, assemblyStart)
	if err != nil {
		if containerErr, ok := err.(d2ierr.ContainerError); ok {
			err = d2ierr.NewAssemblyError(config.Tag, containerErr.Output, containerErr)
		}
		return b.fail(status.ReasonAssemblyFailed, status.ReasonMessageAssemblyFailed, err)
	}

	b.result.Success = true
	b.result.Messages = append(b.result.Messages, "Successfully built "+config.Tag)
	return b.result, nil
}

// Prepare stages the build context in the working directory after checking
// that all build inputs exist.
func (b *Daemon) Prepare(config *api.Config) error {
	if err := assemble.ValidateInputs(b.fs, config); err != nil {
		b.result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonMissingInput, status.ReasonMessageMissingInput)
		return err
	}

	if len(config.WorkingDir) == 0 {
		workingDir, err := b.fs.CreateWorkingDirectory()
		if err != nil {
			b.result.BuildInfo.FailureReason = status.NewFailureReason(
				status.ReasonFSOperationFailed, status.ReasonMessageFSOperationFailed)
			return d2ierr.NewWorkDirError(workingDir, err)
		}
		config.WorkingDir = workingDir
	}

	startTime := time.Now()
	target := filepath.Join(config.WorkingDir, uploadDir)
	if err := b.fs.CopyContents(config.ContextDir, target); err != nil {
		b.result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonFSOperationFailed, status.ReasonMessageFSOperationFailed)
		return err
	}
	if err := b.ignorer.Ignore(target); err != nil {
		b.result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonFSOperationFailed, status.ReasonMessageFSOperationFailed)
		return err
	}
	b.recordStep(api.StageAssemble, api.StepStageContext, startTime)
	return nil
}

// Cleanup removes the working directory unless the config asks to keep it.
func (b *Daemon) Cleanup(config *api.Config) {
	if config.PreserveWorkingDir || len(config.WorkingDir) == 0 {
		return
	}
	log.V(2).Infof("Removing temporary directory %s", config.WorkingDir)
	if err := b.fs.RemoveDirectory(config.WorkingDir); err != nil {
		log.V(0).Infof("warning: Error removing temporary directory %s: %v", config.WorkingDir, err)
	}
}

// uploadContext streams the staged context into the created container, so
// the files are under the application directory when the assembly script
// starts.
func (b *Daemon) uploadContext(containerID string) error {
	source := filepath.Join(b.config.WorkingDir, uploadDir)
	startTime := time.Now()
	defer b.recordStep(api.StageAssemble, api.StepUploadContext, startTime)

	reader, writer := io.Pipe()
	go func() {
		writer.CloseWithError(b.tar.CreateTarStream(source, false, writer))
	}()
	if err := b.docker.UploadToContainer(containerID, constants.AppDir, reader); err != nil {
		b.result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonTarSourceFailed, status.ReasonMessageTarSourceFailed)
		return d2ierr.NewTarError(source, err)
	}
	return nil
}

// PostExecute commits the stopped assembly container with the runtime
// contract and tags it.
func (b *Daemon) PostExecute(containerID string) error {
	startTime := time.Now()
	imageID, err := b.docker.CommitContainer(dockerpkg.CommitContainerOptions{
		ContainerID:  containerID,
		Repository:   b.config.Tag,
		Command:      b.contract.Cmd,
		Env:          b.contract.Env,
		WorkingDir:   b.contract.WorkingDir,
		ExposedPorts: b.contract.ExposedPorts,
		Labels:       b.contract.Labels,
	})
	b.recordStep(api.StageCommit, api.StepCommitContainer, startTime)
	if err != nil {
		b.result.BuildInfo.FailureReason = status.NewFailureReason(
			status.ReasonCommitContainerFailed, status.ReasonMessageCommitContainerFailed)
		return d2ierr.NewCommitError(b.config.Tag, err)
	}

	b.result.ImageID = imageID
	log.V(1).Infof("Tagged %s as %s", imageID, b.config.Tag)
	return nil
}

func (b *Daemon) fail(reason api.StepFailureReason, message api.StepFailureMessage, err error) (*api.Result, error) {
	if len(b.result.BuildInfo.FailureReason.Reason) == 0 {
		b.result.BuildInfo.FailureReason = status.NewFailureReason(reason, message)
	}
	return b.result, err
}

func (b *Daemon) recordStep(stage api.StageName, step api.StepName, startTime time.Time) {
	b.result.BuildInfo.Stages = api.RecordStageAndStepInfo(b.result.BuildInfo.Stages, stage, step, startTime, time.Now())
}

func (b *Daemon) outputStreams() (io.Writer, io.Writer) {
	if b.config.Quiet {
		return ioutil.Discard, ioutil.Discard
	}
	return os.Stdout, os.Stderr
}

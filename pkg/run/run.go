// Package run supports running the image produced by the assembly. It is
// used by the --run=true command line option.
package run

import (
	"io"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/docker"
	d2ierr "github.com/overcooked-ai/demo2image/pkg/errors"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
)

var log = utillog.StderrLog

// DockerRunner allows running the assembled image as a new container,
// streaming stdout and stderr to the log.
type DockerRunner struct {
	ContainerClient docker.Docker
}

// New creates a DockerRunner for running the produced image in a docker
// container for verification purposes.
func New(config *api.Config) (*DockerRunner, error) {
	client, err := docker.NewEngineAPIClient(config.DockerConfig)
	if err != nil {
		log.Errorf("Failed to connect to Docker daemon: %v", err)
		return nil, err
	}
	return &DockerRunner{docker.New(client)}, nil
}

// Run invokes the Docker API to run the image defined in config as a new
// container. The container serves until it exits or the build tool is
// interrupted; no command override is passed, so the committed startup
// command runs.
func (b *DockerRunner) Run(config *api.Config) error {
	log.V(4).Infof("Attempting to run image %s", config.Tag)

	outReader, outWriter := io.Pipe()
	defer outReader.Close()
	defer outWriter.Close()
	errReader, errWriter := io.Pipe()
	defer errReader.Close()
	defer errWriter.Close()

	opts := docker.RunContainerOptions{
		Image:  config.Tag,
		Stdout: outWriter,
		Stderr: errWriter,
	}

	go docker.StreamContainerIO(errReader, nil, log.Error)
	go docker.StreamContainerIO(outReader, nil, log.Info)

	err := b.ContainerClient.RunContainer(opts)
	// If we get a ContainerError, the original message reports the
	// container name. The container is temporary and its name is
	// meaningless, therefore we make the error message more helpful by
	// replacing the container name with the image tag.
	if e, ok := err.(d2ierr.ContainerError); ok {
		return d2ierr.NewContainerError(config.Tag, e.ExitCode, e.Output)
	}
	return err
}

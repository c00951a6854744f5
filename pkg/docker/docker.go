// Package docker wraps the subset of the docker engine API the assembly
// needs: pulling the base image, running the assemble container and
// committing it with the runtime contract.
package docker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	dockertypes "github.com/docker/docker/api/types"
	dockercontainer "github.com/docker/docker/api/types/container"
	dockernetwork "github.com/docker/docker/api/types/network"
	dockerstrslice "github.com/docker/docker/api/types/strslice"
	dockerapi "github.com/docker/docker/client"
	"github.com/docker/docker/pkg/homedir"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/go-connections/nat"
	"github.com/docker/go-connections/tlsconfig"

	"github.com/overcooked-ai/demo2image/pkg/api"
	d2ierr "github.com/overcooked-ai/demo2image/pkg/errors"
	"github.com/overcooked-ai/demo2image/pkg/util"
	"github.com/overcooked-ai/demo2image/pkg/util/interrupt"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
)

var log = utillog.StderrLog

const (
	// DefaultDockerSocket is the default docker endpoint.
	DefaultDockerSocket = "unix:///var/run/docker.sock"

	// DefaultTag is the image tag assumed when none is specified.
	DefaultTag = "latest"

	// DefaultDockerTimeout specifies a timeout for short docker operations.
	DefaultDockerTimeout = 2 * time.Minute

	// DefaultPullRetryDelay is the default pull image retry interval.
	DefaultPullRetryDelay = 5 * time.Second

	// DefaultPullRetryCount is the default pull image retry times.
	DefaultPullRetryCount = 6
)

// Client contains all methods called on the engine API.
type Client interface {
	ContainerAttach(ctx context.Context, container string, options dockertypes.ContainerAttachOptions) (dockertypes.HijackedResponse, error)
	ContainerCommit(ctx context.Context, container string, options dockertypes.ContainerCommitOptions) (dockertypes.IDResponse, error)
	ContainerCreate(ctx context.Context, config *dockercontainer.Config, hostConfig *dockercontainer.HostConfig, networkingConfig *dockernetwork.NetworkingConfig, containerName string) (dockercontainer.ContainerCreateCreatedBody, error)
	ContainerInspect(ctx context.Context, containerID string) (dockertypes.ContainerJSON, error)
	ContainerKill(ctx context.Context, containerID, signal string) error
	ContainerRemove(ctx context.Context, containerID string, options dockertypes.ContainerRemoveOptions) error
	ContainerStart(ctx context.Context, containerID string, options dockertypes.ContainerStartOptions) error
	ContainerWait(ctx context.Context, containerID string, condition dockercontainer.WaitCondition) (<-chan dockercontainer.ContainerWaitOKBody, <-chan error)
	CopyToContainer(ctx context.Context, container, path string, content io.Reader, opts dockertypes.CopyToContainerOptions) error
	ImageInspectWithRaw(ctx context.Context, imageID string) (dockertypes.ImageInspect, []byte, error)
	ImagePull(ctx context.Context, ref string, options dockertypes.ImagePullOptions) (io.ReadCloser, error)
	ImageRemove(ctx context.Context, imageID string, options dockertypes.ImageRemoveOptions) ([]dockertypes.ImageDeleteResponseItem, error)
	ServerVersion(ctx context.Context) (dockertypes.Version, error)
}

// Docker is the interface between the assembly and the docker engine.
type Docker interface {
	CheckAndPullImage(name string) (*api.Image, error)
	CheckImage(name string) (*api.Image, error)
	CheckReachable() error
	CommitContainer(opts CommitContainerOptions) (string, error)
	IsImageInLocalRegistry(name string) (bool, error)
	PullImage(name string) (*api.Image, error)
	RemoveContainer(id string) error
	RemoveImage(name string) error
	RunContainer(opts RunContainerOptions) error
	UploadToContainer(containerID, destPath string, content io.Reader) error
	Version() (dockertypes.Version, error)
}

// RunContainerOptions are options passed in to the RunContainer method.
type RunContainerOptions struct {
	// Image is the image the container runs.
	Image string
	// PullImage controls whether the image is pulled per the pull policy
	// before the container is created.
	PullImage bool
	// PullPolicy only applies when PullImage is true.
	PullPolicy api.PullPolicy
	// Entrypoint overrides the image entrypoint.
	Entrypoint []string
	// Command is the command the container runs.
	Command []string
	// Env is the container environment.
	Env []string
	// Stdout streams container stdout when set.
	Stdout io.Writer
	// Stderr streams container stderr when set.
	Stderr io.Writer
	// OnStart runs after the container is created but before it starts,
	// with the container ID. Uploading the build context happens here so
	// the files are in place when the assembly command runs.
	OnStart func(containerID string) error
	// PostExec runs after the container exited successfully, before it is
	// removed. Committing the container happens here.
	PostExec PostExecutor
}

// PostExecutor runs against a stopped container before its removal.
type PostExecutor interface {
	PostExecute(containerID string) error
}

// CommitContainerOptions are options passed in to the CommitContainer method.
type CommitContainerOptions struct {
	ContainerID  string
	Repository   string
	Command      []string
	Env          []string
	WorkingDir   string
	ExposedPorts []string
	Labels       map[string]string
}

type d2iDocker struct {
	client Client
}

// New creates a new implementation of the Docker interface on top of the
// given engine API client.
func New(client Client) Docker {
	return &d2iDocker{client: client}
}

func getDefaultContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), DefaultDockerTimeout)
}

// NewEngineAPIClient creates a new engine API client for the given docker
// configuration. It can return error when the TLS configuration is invalid.
func NewEngineAPIClient(config *api.DockerConfig) (*dockerapi.Client, error) {
	var httpClient *http.Client

	if config.UseTLS || config.TLSVerify {
		tlscOptions := tlsconfig.Options{
			InsecureSkipVerify: !config.TLSVerify,
		}

		if _, err := os.Stat(config.CAFile); !os.IsNotExist(err) {
			tlscOptions.CAFile = config.CAFile
		}
		if _, err := os.Stat(config.CertFile); !os.IsNotExist(err) {
			tlscOptions.CertFile = config.CertFile
		}
		if _, err := os.Stat(config.KeyFile); !os.IsNotExist(err) {
			tlscOptions.KeyFile = config.KeyFile
		}

		tlsc, err := tlsconfig.Client(tlscOptions)
		if err != nil {
			return nil, err
		}

		httpClient = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: tlsc,
			},
		}
	}

	return dockerapi.NewClient(config.Endpoint, os.Getenv("DOCKER_API_VERSION"), httpClient, nil)
}

// GetDefaultDockerConfig returns a docker configuration taken from the
// standard DOCKER_* environment variables.
func GetDefaultDockerConfig() *api.DockerConfig {
	cfg := &api.DockerConfig{}

	if cfg.Endpoint = os.Getenv("DOCKER_HOST"); cfg.Endpoint == "" {
		cfg.Endpoint = DefaultDockerSocket
	}

	certPath := os.Getenv("DOCKER_CERT_PATH")
	if certPath == "" {
		certPath = filepath.Join(homedir.Get(), ".docker")
	}

	cfg.CertFile = filepath.Join(certPath, "cert.pem")
	cfg.KeyFile = filepath.Join(certPath, "key.pem")
	cfg.CAFile = filepath.Join(certPath, "ca.pem")

	if tlsVerify := os.Getenv("DOCKER_TLS_VERIFY"); tlsVerify != "" {
		cfg.TLSVerify = true
	}

	return cfg
}

// CheckReachable returns if the docker daemon is reachable.
func (d *d2iDocker) CheckReachable() error {
	_, err := d.Version()
	if err != nil {
		return d2ierr.Error{
			Message:    fmt.Sprintf("cannot connect to the docker daemon: %v", err),
			Details:    err,
			ErrorCode:  d2ierr.InspectImageError,
			Suggestion: "check that the docker daemon is running, or use --as-dockerfile to render the assembly without a daemon",
		}
	}
	return nil
}

// Version returns the version reported by the docker daemon.
func (d *d2iDocker) Version() (dockertypes.Version, error) {
	ctx, cancel := getDefaultContext()
	defer cancel()
	return d.client.ServerVersion(ctx)
}

// IsImageInLocalRegistry determines whether the supplied image is in the
// local registry.
func (d *d2iDocker) IsImageInLocalRegistry(name string) (bool, error) {
	name = GetImageName(name)
	resp, err := d.InspectImage(name)
	if resp != nil {
		return true, nil
	}
	if err != nil && !dockerapi.IsErrNotFound(err) {
		return false, d2ierr.NewInspectImageError(name, err)
	}
	return false, nil
}

// InspectImage returns the metadata of the given image, or an error when the
// image is not available locally.
func (d *d2iDocker) InspectImage(name string) (*api.Image, error) {
	ctx, cancel := getDefaultContext()
	defer cancel()
	resp, _, err := d.client.ImageInspectWithRaw(ctx, name)
	if err != nil {
		return nil, err
	}
	image := &api.Image{ID: resp.ID, Config: &api.ContainerConfig{}}
	if resp.Config != nil {
		image.Config.Labels = resp.Config.Labels
		image.Config.Env = resp.Config.Env
	}
	return image, nil
}

// CheckImage checks image from the local registry.
func (d *d2iDocker) CheckImage(name string) (*api.Image, error) {
	name = GetImageName(name)
	image, err := d.InspectImage(name)
	if err != nil {
		return nil, d2ierr.NewInspectImageError(name, err)
	}
	return image, nil
}

// CheckAndPullImage pulls an image into the local registry if not present
// and returns the image metadata.
func (d *d2iDocker) CheckAndPullImage(name string) (*api.Image, error) {
	name = GetImageName(name)
	displayName := name

	image, err := d.InspectImage(name)
	if err != nil && !dockerapi.IsErrNotFound(err) {
		return nil, d2ierr.NewInspectImageError(name, err)
	}
	if image != nil {
		log.V(2).Infof("Image %s available locally", name)
		return image, nil
	}

	log.V(1).Infof("Image %q not available locally, pulling ...", displayName)
	return d.PullImage(name)
}

// PullImage pulls an image into the local registry.
func (d *d2iDocker) PullImage(name string) (*api.Image, error) {
	name = GetImageName(name)

	// RegistryAuth is the base64 encoded credentials for the registry
	var pullErr error
	for retries := 0; retries <= DefaultPullRetryCount; retries++ {
		pullErr = func() error {
			resp, err := d.client.ImagePull(context.Background(), name, dockertypes.ImagePullOptions{})
			if err != nil {
				return err
			}
			defer resp.Close()

			decoder := json.NewDecoder(resp)
			for {
				var msg jsonmessage.JSONMessage
				err := decoder.Decode(&msg)
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				if msg.Error != nil {
					return msg.Error
				}
				if msg.Progress != nil {
					log.V(4).Infof("pulling image %s: %s", name, msg.Progress.String())
				}
			}
		}()
		if pullErr == nil {
			break
		}
		log.V(0).Infof("pulling image error : %v", pullErr)
		if retries < DefaultPullRetryCount {
			time.Sleep(DefaultPullRetryDelay)
		}
	}
	if pullErr != nil {
		return nil, d2ierr.NewPullImageError(name, pullErr)
	}

	image, err := d.InspectImage(name)
	if err != nil {
		return nil, d2ierr.NewPullImageError(name, err)
	}
	return image, nil
}

// RemoveContainer removes a container and its associated volumes.
func (d *d2iDocker) RemoveContainer(id string) error {
	ctx, cancel := getDefaultContext()
	defer cancel()
	opts := dockertypes.ContainerRemoveOptions{
		RemoveVolumes: true,
		Force:         true,
	}
	return d.client.ContainerRemove(ctx, id, opts)
}

// RemoveImage removes an image from the local registry.
func (d *d2iDocker) RemoveImage(imageID string) error {
	ctx, cancel := getDefaultContext()
	defer cancel()
	_, err := d.client.ImageRemove(ctx, imageID, dockertypes.ImageRemoveOptions{})
	return err
}

// UploadToContainer uploads a tar stream into the given path of the
// container. The container does not have to be running; uploading into a
// created container before it starts is how the build context gets staged.
func (d *d2iDocker) UploadToContainer(containerID, destPath string, content io.Reader) error {
	log.V(3).Infof("Uploading to container %q at %q", containerID, destPath)
	return d.client.CopyToContainer(context.Background(), containerID, destPath, content, dockertypes.CopyToContainerOptions{})
}

// RunContainer creates and starts a container from the given options, streams
// its output and waits until it exits. A non-zero exit code is returned as a
// ContainerError carrying the first bytes of the container output.
func (d *d2iDocker) RunContainer(opts RunContainerOptions) error {
	image := GetImageName(opts.Image)
	if opts.PullImage {
		policy := opts.PullPolicy
		if policy == "" {
			policy = api.DefaultPullPolicy
		}
		if _, err := GetImage(d, image, policy); err != nil {
			return err
		}
	}

	config := dockercontainer.Config{
		Image: image,
		Env:   opts.Env,
	}
	if len(opts.Entrypoint) != 0 {
		config.Entrypoint = dockerstrslice.StrSlice(opts.Entrypoint)
	}
	if len(opts.Command) != 0 {
		config.Cmd = dockerstrslice.StrSlice(opts.Command)
	}

	ctx, cancel := getDefaultContext()
	defer cancel()
	container, err := d.client.ContainerCreate(ctx, &config, nil, nil, "")
	if err != nil {
		return err
	}
	log.V(2).Infof("Created container %q from image %q", container.ID, image)

	removeContainer := func() {
		log.V(4).Infof("Removing container %q ...", container.ID)
		if err := d.RemoveContainer(container.ID); err != nil {
			log.V(0).Infof("warning: Failed to remove container %q: %v", container.ID, err)
			return
		}
		log.V(4).Infof("Removed container %q", container.ID)
	}
	dumpStack := func(signal os.Signal) {
		if signal == syscall.SIGQUIT {
			buf := make([]byte, 1<<16)
			runtime.Stack(buf, true)
			fmt.Printf("%s", buf)
		}
		os.Exit(2)
	}

	return interrupt.New(dumpStack, removeContainer).Run(func() error {
		if opts.OnStart != nil {
			if err := opts.OnStart(container.ID); err != nil {
				return err
			}
		}

		errOutput := ""
		var attachDone <-chan struct{}
		if opts.Stdout != nil || opts.Stderr != nil {
			resp, err := d.client.ContainerAttach(context.Background(), container.ID, dockertypes.ContainerAttachOptions{
				Stream: true,
				Stdout: true,
				Stderr: true,
			})
			if err != nil {
				return err
			}
			defer resp.Close()
			attachDone = demuxContainerStreams(resp.Reader, opts.Stdout, opts.Stderr, &errOutput)
		}

		// the wait channel has to be set up before the container starts,
		// otherwise a fast exit is missed
		waitC, waitErrC := d.client.ContainerWait(context.Background(), container.ID, dockercontainer.WaitConditionNextExit)

		startCtx, startCancel := getDefaultContext()
		defer startCancel()
		log.V(2).Infof("Starting container %q ...", container.ID)
		if err := d.client.ContainerStart(startCtx, container.ID, dockertypes.ContainerStartOptions{}); err != nil {
			return err
		}

		var exitCode int64
		select {
		case result := <-waitC:
			if result.Error != nil {
				return fmt.Errorf("waiting for container %q: %s", container.ID, result.Error.Message)
			}
			exitCode = result.StatusCode
		case err := <-waitErrC:
			return err
		}

		if attachDone != nil {
			<-attachDone
		}

		if exitCode != 0 {
			return d2ierr.NewContainerError(image, int(exitCode), errOutput)
		}

		if opts.PostExec != nil {
			log.V(2).Infof("Invoking PostExecute function")
			if err := opts.PostExec.PostExecute(container.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// CommitContainer commits a container to an image with the given config.
func (d *d2iDocker) CommitContainer(opts CommitContainerOptions) (string, error) {
	dockerOpts := dockertypes.ContainerCommitOptions{
		Reference: opts.Repository,
	}
	if opts.Command != nil || opts.Env != nil || opts.Labels != nil {
		config := dockercontainer.Config{
			Cmd:        dockerstrslice.StrSlice(opts.Command),
			Env:        opts.Env,
			Labels:     opts.Labels,
			WorkingDir: opts.WorkingDir,
		}
		if len(opts.ExposedPorts) > 0 {
			config.ExposedPorts = nat.PortSet{}
			for _, p := range opts.ExposedPorts {
				config.ExposedPorts[nat.Port(p)] = struct{}{}
			}
		}
		dockerOpts.Config = &config
		log.V(2).Infof("Committing container with dockerOpts: %+v, config: %s", dockerOpts, util.SafeForLoggingContainerConfig(&config))
	}

	ctx, cancel := getDefaultContext()
	defer cancel()
	resp, err := d.client.ContainerCommit(ctx, opts.ContainerID, dockerOpts)
	if err != nil {
		return "", err
	}
	return resp.ID, nil
}

// GetImage retrieves the image metadata honoring the given pull policy.
func GetImage(d Docker, name string, policy api.PullPolicy) (*api.Image, error) {
	name = GetImageName(name)
	switch policy {
	case api.PullAlways:
		return d.PullImage(name)
	case api.PullIfNotPresent:
		return d.CheckAndPullImage(name)
	case api.PullNever:
		return d.CheckImage(name)
	}
	return nil, fmt.Errorf("unknown pull policy %q", policy)
}

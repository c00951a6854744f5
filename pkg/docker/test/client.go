package test

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"time"

	dockertypes "github.com/docker/docker/api/types"
	dockercontainer "github.com/docker/docker/api/types/container"
	dockernetwork "github.com/docker/docker/api/types/network"
	"github.com/docker/docker/errdefs"
)

type FakeDockerAddr struct {
}

func (a FakeDockerAddr) Network() string {
	return ""
}

func (a FakeDockerAddr) String() string {
	return ""
}

type FakeDockerConn struct {
}

func (c FakeDockerConn) Read(b []byte) (n int, err error) {
	return 0, io.EOF
}

func (c FakeDockerConn) Write(b []byte) (n int, err error) {
	return len(b), nil
}

func (c FakeDockerConn) Close() error {
	return nil
}

func (c FakeDockerConn) LocalAddr() net.Addr {
	return FakeDockerAddr{}
}

func (c FakeDockerConn) RemoteAddr() net.Addr {
	return FakeDockerAddr{}
}

func (c FakeDockerConn) SetDeadline(t time.Time) error {
	return nil
}

func (c FakeDockerConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (c FakeDockerConn) SetWriteDeadline(t time.Time) error {
	return nil
}

// FakeDockerClient provides a Fake client for Docker testing
type FakeDockerClient struct {
	CopyToContainerID      string
	CopyToContainerPath    string
	CopyToContainerContent io.Reader

	WaitContainerID     string
	WaitContainerResult int64
	WaitContainerErr    error

	ContainerCommitID      string
	ContainerCommitOptions dockertypes.ContainerCommitOptions
	ContainerCommitErr     error

	Images     map[string]dockertypes.ImageInspect
	Containers map[string]dockercontainer.Config

	PullFail error

	Calls []string
}

// NewFakeDockerClient returns a new FakeDockerClient
func NewFakeDockerClient() *FakeDockerClient {
	return &FakeDockerClient{
		Images:     make(map[string]dockertypes.ImageInspect),
		Containers: make(map[string]dockercontainer.Config),
		Calls:      make([]string, 0),
	}
}

func (d *FakeDockerClient) ImageInspectWithRaw(ctx context.Context, imageID string) (dockertypes.ImageInspect, []byte, error) {
	d.Calls = append(d.Calls, "inspect_image")

	if _, exists := d.Images[imageID]; exists {
		return d.Images[imageID], nil, nil
	}
	return dockertypes.ImageInspect{}, nil, errdefs.NotFound(fmt.Errorf("No such image: %q", imageID))
}

func (d *FakeDockerClient) CopyToContainer(ctx context.Context, container, path string, content io.Reader, opts dockertypes.CopyToContainerOptions) error {
	d.Calls = append(d.Calls, "upload_to_container")
	d.CopyToContainerID = container
	d.CopyToContainerPath = path
	d.CopyToContainerContent = content
	return nil
}

func (d *FakeDockerClient) ContainerWait(ctx context.Context, containerID string, condition dockercontainer.WaitCondition) (<-chan dockercontainer.ContainerWaitOKBody, <-chan error) {
	d.Calls = append(d.Calls, "wait_container")
	d.WaitContainerID = containerID
	resultC := make(chan dockercontainer.ContainerWaitOKBody, 1)
	errC := make(chan error, 1)
	if d.WaitContainerErr != nil {
		errC <- d.WaitContainerErr
	} else {
		resultC <- dockercontainer.ContainerWaitOKBody{StatusCode: d.WaitContainerResult}
	}
	return resultC, errC
}

func (d *FakeDockerClient) ContainerCommit(ctx context.Context, container string, options dockertypes.ContainerCommitOptions) (dockertypes.IDResponse, error) {
	d.Calls = append(d.Calls, "commit_container")
	d.ContainerCommitID = container
	d.ContainerCommitOptions = options
	return dockertypes.IDResponse{ID: "committed-" + container}, d.ContainerCommitErr
}

func (d *FakeDockerClient) ContainerAttach(ctx context.Context, container string, options dockertypes.ContainerAttachOptions) (dockertypes.HijackedResponse, error) {
	d.Calls = append(d.Calls, "attach_container")
	return dockertypes.HijackedResponse{
		Conn:   FakeDockerConn{},
		Reader: bufio.NewReader(bytes.NewReader([]byte{})),
	}, nil
}

func (d *FakeDockerClient) ContainerCreate(ctx context.Context, config *dockercontainer.Config, hostConfig *dockercontainer.HostConfig, networkingConfig *dockernetwork.NetworkingConfig, containerName string) (dockercontainer.ContainerCreateCreatedBody, error) {
	d.Calls = append(d.Calls, "create_container")
	if config != nil {
		d.Containers[containerName] = *config
	}
	return dockercontainer.ContainerCreateCreatedBody{ID: "container-" + containerName}, nil
}

func (d *FakeDockerClient) ContainerInspect(ctx context.Context, containerID string) (dockertypes.ContainerJSON, error) {
	d.Calls = append(d.Calls, "inspect_container")
	return dockertypes.ContainerJSON{}, nil
}

func (d *FakeDockerClient) ContainerRemove(ctx context.Context, containerID string, options dockertypes.ContainerRemoveOptions) error {
	d.Calls = append(d.Calls, "remove_container")
	return nil
}

func (d *FakeDockerClient) ContainerKill(ctx context.Context, containerID, signal string) error {
	d.Calls = append(d.Calls, "kill_container")
	return nil
}

func (d *FakeDockerClient) ContainerStart(ctx context.Context, containerID string, options dockertypes.ContainerStartOptions) error {
	d.Calls = append(d.Calls, "start_container")
	return nil
}

func (d *FakeDockerClient) ImagePull(ctx context.Context, ref string, options dockertypes.ImagePullOptions) (io.ReadCloser, error) {
	d.Calls = append(d.Calls, "pull_image")
	if d.PullFail != nil {
		return nil, d.PullFail
	}
	// the image becomes inspectable once the pull succeeded
	d.Images[ref] = dockertypes.ImageInspect{ID: ref}
	return ioutil.NopCloser(bytes.NewReader([]byte("{}"))), nil
}

func (d *FakeDockerClient) ImageRemove(ctx context.Context, imageID string, options dockertypes.ImageRemoveOptions) ([]dockertypes.ImageDeleteResponseItem, error) {
	d.Calls = append(d.Calls, "remove_image")

	if _, exists := d.Images[imageID]; exists {
		delete(d.Images, imageID)
		return []dockertypes.ImageDeleteResponseItem{{Deleted: imageID}}, nil
	}
	return nil, fmt.Errorf("image does not exist")
}

func (d *FakeDockerClient) ServerVersion(ctx context.Context) (dockertypes.Version, error) {
	d.Calls = append(d.Calls, "server_version")
	return dockertypes.Version{}, nil
}

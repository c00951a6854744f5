package docker

import (
	"reflect"
	"testing"

	dockertypes "github.com/docker/docker/api/types"
	"github.com/docker/go-connections/nat"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/docker/test"
	d2ierr "github.com/overcooked-ai/demo2image/pkg/errors"
)

func TestCheckAndPullImagePullsWhenAbsent(t *testing.T) {
	client := test.NewFakeDockerClient()
	d := New(client)

	image, err := d.CheckAndPullImage("python:3.8-buster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if image.ID != "python:3.8-buster" {
		t.Errorf("unexpected image %#v", image)
	}

	pulled := false
	for _, call := range client.Calls {
		if call == "pull_image" {
			pulled = true
		}
	}
	if !pulled {
		t.Errorf("expected a pull for an absent image, got %v", client.Calls)
	}
}

func TestCheckAndPullImageSkipsPresentImage(t *testing.T) {
	client := test.NewFakeDockerClient()
	client.Images["python:3.8-buster"] = dockertypes.ImageInspect{ID: "base"}
	d := New(client)

	image, err := d.CheckAndPullImage("python:3.8-buster")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if image.ID != "base" {
		t.Errorf("unexpected image %#v", image)
	}
	for _, call := range client.Calls {
		if call == "pull_image" {
			t.Errorf("a locally available image must not be pulled, got %v", client.Calls)
		}
	}
}

func TestGetImagePullNever(t *testing.T) {
	client := test.NewFakeDockerClient()
	d := New(client)

	if _, err := GetImage(d, "python:3.8-buster", api.PullNever); err == nil {
		t.Error("expected an error for an absent image with pulls disabled")
	}
	for _, call := range client.Calls {
		if call == "pull_image" {
			t.Errorf("pull-policy never must not pull, got %v", client.Calls)
		}
	}
}

func TestCommitContainerCarriesConfig(t *testing.T) {
	client := test.NewFakeDockerClient()
	d := New(client)

	imageID, err := d.CommitContainer(CommitContainerOptions{
		ContainerID:  "assembly",
		Repository:   "overcooked-demo:dev",
		Command:      []string{"python", "-u", "app.py"},
		Env:          []string{"HOST=0.0.0.0", "PORT=5000"},
		WorkingDir:   "/app",
		ExposedPorts: []string{"5000/tcp"},
		Labels:       map[string]string{"k": "v"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if imageID != "committed-assembly" {
		t.Errorf("unexpected image ID %q", imageID)
	}

	opts := client.ContainerCommitOptions
	if opts.Reference != "overcooked-demo:dev" {
		t.Errorf("unexpected commit reference %q", opts.Reference)
	}
	if opts.Config == nil {
		t.Fatal("expected a container config on the commit")
	}
	if !reflect.DeepEqual([]string(opts.Config.Cmd), []string{"python", "-u", "app.py"}) {
		t.Errorf("unexpected command %v", opts.Config.Cmd)
	}
	if _, ok := opts.Config.ExposedPorts[nat.Port("5000/tcp")]; !ok {
		t.Errorf("unexpected exposed ports %v", opts.Config.ExposedPorts)
	}
}

type fakePostExecutor struct {
	containerID string
	err         error
}

func (f *fakePostExecutor) PostExecute(containerID string) error {
	f.containerID = containerID
	return f.err
}

func TestRunContainerHooks(t *testing.T) {
	client := test.NewFakeDockerClient()
	d := New(client)

	var onStartID string
	postExec := &fakePostExecutor{}
	err := d.RunContainer(RunContainerOptions{
		Image:   "python:3.8-buster",
		Command: []string{"/bin/sh", "-e", "-c", "true"},
		OnStart: func(containerID string) error {
			onStartID = containerID
			// the container must exist but not yet run when OnStart fires
			for _, call := range client.Calls {
				if call == "start_container" {
					t.Errorf("OnStart must fire before the container starts, got %v", client.Calls)
				}
			}
			return nil
		},
		PostExec: postExec,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if onStartID == "" {
		t.Error("expected the OnStart hook to receive the container ID")
	}
	if postExec.containerID != onStartID {
		t.Errorf("expected PostExec on the same container, got %q and %q", postExec.containerID, onStartID)
	}
}

func TestRunContainerNonZeroExit(t *testing.T) {
	client := test.NewFakeDockerClient()
	client.WaitContainerResult = 42
	d := New(client)

	postExec := &fakePostExecutor{}
	err := d.RunContainer(RunContainerOptions{
		Image:    "python:3.8-buster",
		Command:  []string{"/bin/sh", "-e", "-c", "false"},
		PostExec: postExec,
	})
	if err == nil {
		t.Fatal("expected an error for a non-zero exit code")
	}
	containerErr, ok := err.(d2ierr.ContainerError)
	if !ok {
		t.Fatalf("unexpected error type %T", err)
	}
	if containerErr.ExitCode != 42 {
		t.Errorf("unexpected exit code %d", containerErr.ExitCode)
	}
	if postExec.containerID != "" {
		t.Error("PostExec must not fire for a failed container")
	}
}

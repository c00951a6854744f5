// Package errors provides the error types thrown during the demo image
// assembly, carrying an error code and a user-facing suggestion.
package errors

import (
	"fmt"
)

// Common assembly errors
const (
	InspectImageError int = 1 + iota
	PullImageError
	AssemblyFailedError
	CommitContainerError
	MissingInputError
	BranchCheckError
	TarError
	WorkdirError
	DockerfileError
	ExternalBuilderError
	ContainerErr
)

// Error represents an error thrown during the assembly process
type Error struct {
	Message    string
	Details    error
	ErrorCode  int
	Suggestion string
}

// ContainerError is an error returned when a container exits with a non-zero
// code. Output contains the beginning of the container output, capped so the
// error stays readable.
type ContainerError struct {
	Message    string
	Output     string
	ErrorCode  int
	Suggestion string
	ExitCode   int
}

// Error returns a string for a given error
func (e Error) Error() string {
	return e.Message
}

// Error returns a string for the given error
func (e ContainerError) Error() string {
	return e.Message
}

// NewInspectImageError returns a new error which indicates there was a problem
// inspecting the image
func NewInspectImageError(name string, err error) error {
	return Error{
		Message:    fmt.Sprintf("unable to get metadata for %s", name),
		Details:    err,
		ErrorCode:  InspectImageError,
		Suggestion: "check image name",
	}
}

// NewPullImageError returns a new error which indicates there was a problem
// pulling the base image
func NewPullImageError(name string, err error) error {
	return Error{
		Message:    fmt.Sprintf("unable to get %s", name),
		Details:    err,
		ErrorCode:  PullImageError,
		Suggestion: "check image name, or if using local image add --pull-policy=never flag",
	}
}

// NewAssemblyError returns a new error which indicates the assembly script
// failed inside the build container
func NewAssemblyError(tag, output string, err error) error {
	return ContainerError{
		Message:    fmt.Sprintf("assembly for %s failed:\n%s", tag, output),
		Output:     output,
		ErrorCode:  AssemblyFailedError,
		Suggestion: "check the container output above for the failing stage",
		ExitCode:   exitCode(err),
	}
}

// NewCommitError returns a new error which indicates there was a problem
// committing the image
func NewCommitError(tag string, err error) error {
	return Error{
		Message:    fmt.Sprintf("unable to commit the image for %s", tag),
		Details:    err,
		ErrorCode:  CommitContainerError,
		Suggestion: "check the tag and whether the docker daemon is running out of disk space",
	}
}

// NewMissingInputError returns a new error which indicates a referenced build
// input does not exist under the context directory
func NewMissingInputError(path string) error {
	return Error{
		Message:    fmt.Sprintf("build input %q does not exist", path),
		ErrorCode:  MissingInputError,
		Suggestion: "check the context directory and the --graphics value against the files under graphics/",
	}
}

// NewBranchCheckError returns a new error which indicates the requested
// simulation branch does not exist on the remote
func NewBranchCheckError(branch string, err error) error {
	return Error{
		Message:    fmt.Sprintf("branch %q not found in the simulation repository", branch),
		Details:    err,
		ErrorCode:  BranchCheckError,
		Suggestion: "check the --branch value against the remote refs",
	}
}

// NewTarError returns a new error which indicates there was a problem
// creating the context tar stream
func NewTarError(dir string, err error) error {
	return Error{
		Message:    fmt.Sprintf("unable to create tar stream from %q", dir),
		Details:    err,
		ErrorCode:  TarError,
		Suggestion: "check the permissions of the context directory",
	}
}

// NewWorkDirError returns a new error which indicates there was a problem
// creating the working directory
func NewWorkDirError(dir string, err error) error {
	return Error{
		Message:    fmt.Sprintf("error creating temporary directory %q", dir),
		Details:    err,
		ErrorCode:  WorkdirError,
		Suggestion: "check if you have access to your system's temporary directory",
	}
}

// NewDockerfileError returns a new error which indicates there was a problem
// rendering or writing the Dockerfile
func NewDockerfileError(path string, err error) error {
	return Error{
		Message:    fmt.Sprintf("unable to write Dockerfile to %q", path),
		Details:    err,
		ErrorCode:  DockerfileError,
		Suggestion: "check the output path",
	}
}

// NewExternalBuilderError returns a new error which indicates the external
// builder command failed
func NewExternalBuilderError(builder string, err error) error {
	return Error{
		Message:    fmt.Sprintf("external builder %q failed", builder),
		Details:    err,
		ErrorCode:  ExternalBuilderError,
		Suggestion: "check the builder output above, and that the builder executable is installed",
	}
}

// NewContainerError return a new error which indicates there was a problem
// invoking command inside container
func NewContainerError(name string, code int, output string) error {
	return ContainerError{
		Message:    fmt.Sprintf("non-zero (%d) exit code from %s", code, name),
		Output:     output,
		ErrorCode:  ContainerErr,
		Suggestion: "log into the failed container and inspect its state",
		ExitCode:   code,
	}
}

func exitCode(err error) int {
	if e, ok := err.(ContainerError); ok {
		return e.ExitCode
	}
	return 1
}

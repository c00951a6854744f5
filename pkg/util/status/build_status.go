package status

import (
	"github.com/overcooked-ai/demo2image/pkg/api"
)

const (
	// ReasonAssemblyFailed is the reason associated with the assembly
	// script failing inside the build container.
	ReasonAssemblyFailed        api.StepFailureReason  = "AssemblyFailed"
	ReasonMessageAssemblyFailed api.StepFailureMessage = "Assembly script failed"

	// ReasonPullBaseImageFailed is the reason associated with failing to
	// pull the base image.
	ReasonPullBaseImageFailed        api.StepFailureReason  = "PullBaseImageFailed"
	ReasonMessagePullBaseImageFailed api.StepFailureMessage = "Failed to pull base image"

	// ReasonCommitContainerFailed is the reason associated with failing to
	// commit the container to the final image.
	ReasonCommitContainerFailed        api.StepFailureReason  = "ContainerCommitFailed"
	ReasonMessageCommitContainerFailed api.StepFailureMessage = "Failed to commit container"

	// ReasonFetchSimulationFailed is the reason associated with failing to
	// clone the simulation package ref.
	ReasonFetchSimulationFailed        api.StepFailureReason  = "FetchSimulationFailed"
	ReasonMessageFetchSimulationFailed api.StepFailureMessage = "Failed to fetch simulation package ref"

	// ReasonMissingInput is the reason associated with a build input
	// (notably the selected graphics bundle) that does not exist.
	ReasonMissingInput        api.StepFailureReason  = "MissingBuildInput"
	ReasonMessageMissingInput api.StepFailureMessage = "A referenced build input does not exist"

	// ReasonDockerfileCreateFailed is the reason associated with failing to
	// render the Dockerfile for a build.
	ReasonDockerfileCreateFailed        api.StepFailureReason  = "DockerFileCreationFailed"
	ReasonMessageDockerfileCreateFailed api.StepFailureMessage = "Failed to create Dockerfile"

	// ReasonFSOperationFailed is the reason associated with a failed fs
	// operation. Create, remove directory, copy file, etc.
	ReasonFSOperationFailed        api.StepFailureReason  = "FileSystemOperationFailed"
	ReasonMessageFSOperationFailed api.StepFailureMessage = "Failed to perform filesystem operation"

	// ReasonTarSourceFailed is the failure reason associated with a failure
	// to tar the build context.
	ReasonTarSourceFailed        api.StepFailureReason  = "TarSourceFailed"
	ReasonMessageTarSourceFailed api.StepFailureMessage = "Failed to tar context files"

	// ReasonGenericBuildFailed is the reason associated with a broad range
	// of failures.
	ReasonGenericBuildFailed        api.StepFailureReason  = "GenericBuildFailed"
	ReasonMessageGenericBuildFailed api.StepFailureMessage = "Generic build failure - check the logs for details"
)

// NewFailureReason initializes a new failure reason that contains both the
// reason and a message to be displayed.
func NewFailureReason(reason api.StepFailureReason, message api.StepFailureMessage) api.FailureReason {
	return api.FailureReason{
		Reason:  reason,
		Message: message,
	}
}

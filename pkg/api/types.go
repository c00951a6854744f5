package api

import (
	"fmt"
	"strings"
	"time"
)

// Config contains essential fields for performing an assembly of the demo
// image. The zero value is not usable; required fields are enforced by
// pkg/api/validation before any stage of the assembly runs.
type Config struct {
	// Profile selects the deployment profile the image is assembled for.
	// See DeploymentProfile for the closed set of valid values.
	Profile DeploymentProfile

	// OvercookedBranch is the git ref of the overcooked_ai simulation
	// package that gets cloned into the image. Required.
	OvercookedBranch string

	// Graphics names a single graphics bundle under the context's graphics
	// directory. The selected bundle is materialized at the fixed target
	// path consumed by the demo application. Required.
	Graphics string

	// ContextDir is the directory holding the build inputs: the dependency
	// manifest, the static tree, the graphics bundles, the JSON config and
	// the top-level application scripts.
	ContextDir string

	// Tag is the name of the resulting image.
	Tag string

	// BaseImage overrides the pinned interpreter base image. Empty means
	// the default from pkg/api/constants.
	BaseImage string

	// WorkingDir is the temporary directory the build stages the upload
	// context in. Set by the builder when empty.
	WorkingDir string

	// PreserveWorkingDir keeps the temporary directory after the build.
	PreserveWorkingDir bool

	// AsDockerfile renders the assembly as a Dockerfile at the given path
	// instead of building through the daemon.
	AsDockerfile string

	// WithBuilder names an external builder executable (docker, buildah,
	// podman) used to execute the rendered Dockerfile.
	WithBuilder string

	// Environment holds extra environment entries committed into the image
	// on top of the fixed runtime defaults. Fixed contract keys win.
	Environment EnvironmentList

	// EnvironmentFile is an optional file with additional environment
	// entries, merged into Environment before the build.
	EnvironmentFile string

	// CheckBranch preflights the existence of OvercookedBranch against the
	// remote before any stage runs.
	CheckBranch bool

	// PullPolicy specifies when to pull the base image.
	PullPolicy PullPolicy

	// RunImage runs the resulting image once the build finishes.
	RunImage bool

	// Quiet suppresses all non-error output.
	Quiet bool

	// LabelNamespace provides the namespace under which the output image
	// labels are created. Empty means the default namespace.
	LabelNamespace string

	// DockerConfig describes how to reach the docker daemon.
	DockerConfig *DockerConfig
}

// DeploymentProfile is the closed enum of profiles an image can be assembled
// for. The production profile adds the production network server to the
// dependency set; every other aspect of the assembly is shared.
type DeploymentProfile string

const (
	// ProfileDevelopment is the default profile.
	ProfileDevelopment DeploymentProfile = "development"
	// ProfileProduction additionally installs the production network server.
	ProfileProduction DeploymentProfile = "production"
)

// Profiles returns all valid deployment profiles.
func Profiles() []DeploymentProfile {
	return []DeploymentProfile{ProfileDevelopment, ProfileProduction}
}

// String implements the String() function of pflags.Value interface.
func (p *DeploymentProfile) String() string {
	return string(*p)
}

// Type implements the Type() function of pflags.Value interface.
func (p *DeploymentProfile) Type() string {
	return "string"
}

// Set implements the Set() function of pflags.Value interface.
func (p *DeploymentProfile) Set(value string) error {
	switch DeploymentProfile(value) {
	case ProfileDevelopment, ProfileProduction:
		*p = DeploymentProfile(value)
	default:
		return fmt.Errorf("invalid value %q, valid values are: %s", value, joinProfiles())
	}
	return nil
}

func joinProfiles() string {
	names := []string{}
	for _, p := range Profiles() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// PullPolicy specifies a type for the method used to retrieve the Docker image
type PullPolicy string

// String implements the String() function of pflags.Value interface
func (p *PullPolicy) String() string {
	return string(*p)
}

// Type implements the Type() function of pflags.Value interface
func (p *PullPolicy) Type() string {
	return "string"
}

// Set implements the Set() function of pflags.Value interface
func (p *PullPolicy) Set(v string) error {
	switch v {
	case "always":
		*p = PullAlways
	case "never":
		*p = PullNever
	case "if-not-present":
		*p = PullIfNotPresent
	default:
		return fmt.Errorf("invalid value %q, valid values are: always, never or if-not-present", v)
	}
	return nil
}

const (
	// PullAlways means that we always attempt to pull the latest image.
	PullAlways PullPolicy = "always"

	// PullNever means that we never pull an image, but only use a local image.
	PullNever PullPolicy = "never"

	// PullIfNotPresent means that we pull if the image isn't present on disk.
	PullIfNotPresent PullPolicy = "if-not-present"

	// DefaultPullPolicy specifies the default pull policy to use
	DefaultPullPolicy = PullIfNotPresent
)

// DockerConfig contains the configuration for a Docker connection.
type DockerConfig struct {
	// Endpoint is the docker network endpoint or socket
	Endpoint string

	// CertFile is the certificate file path for a TLS connection
	CertFile string

	// KeyFile is the key file path for a TLS connection
	KeyFile string

	// CAFile is the certificate authority file path for a TLS connection
	CAFile string

	// UseTLS indicates if TLS must be used
	UseTLS bool

	// TLSVerify indicates if TLS peer must be verified
	TLSVerify bool
}

// EnvironmentSpec specifies a single environment variable.
type EnvironmentSpec struct {
	Name  string
	Value string
}

// EnvironmentList contains list of environment variables.
type EnvironmentList []EnvironmentSpec

// Set implements the Set() function of pflags.Value interface.
// This function parses the string that contains environment variables and
// adds them to the EnvironmentList.
func (e *EnvironmentList) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 || len(parts[0]) == 0 {
		return fmt.Errorf("invalid environment format %q, must be NAME=VALUE", value)
	}
	if strings.Contains(parts[1], ",") && strings.Contains(parts[1], "=") {
		return fmt.Errorf("environment variable %q must be specified with repeated --env flags", parts[0])
	}
	*e = append(*e, EnvironmentSpec{Name: parts[0], Value: parts[1]})
	return nil
}

// String implements the String() function of pflags.Value interface.
func (e *EnvironmentList) String() string {
	result := []string{}
	for _, env := range *e {
		result = append(result, strings.Join([]string{env.Name, env.Value}, "="))
	}
	return strings.Join(result, ",")
}

// Type implements the Type() function of pflags.Value interface.
func (e *EnvironmentList) Type() string {
	return "string"
}

// AsStrings returns the list as "NAME=VALUE" entries.
func (e EnvironmentList) AsStrings() []string {
	result := []string{}
	for _, env := range e {
		result = append(result, strings.Join([]string{env.Name, env.Value}, "="))
	}
	return result
}

// Image is the minimal image metadata the assembly inspects on the docker
// side.
type Image struct {
	ID     string
	Config *ContainerConfig
}

// ContainerConfig is the subset of the container configuration the assembly
// cares about.
type ContainerConfig struct {
	Labels map[string]string
	Env    []string
}

// Result structure contains information from the build process.
type Result struct {
	// Success describes whether the assembly was successful.
	Success bool

	// Messages is a list of messages from the assembly process.
	Messages []string

	// ImageID describes the resulting image, when one was committed.
	ImageID string

	// BuildInfo holds information about the result of a build.
	BuildInfo BuildInfo
}

// BuildInfo contains information about the build process.
type BuildInfo struct {
	// Stages contains details about each build stage.
	Stages []StageInfo

	// FailureReason is a camelCase reason that is used to parse and group
	// failures.
	FailureReason FailureReason
}

// StageInfo contains details about a build stage.
type StageInfo struct {
	// Name is the identifier for each build stage.
	Name StageName

	// StartTime identifies when this stage started.
	StartTime time.Time

	// DurationMilliseconds identifies how long this stage ran.
	DurationMilliseconds int64

	// Steps contains details about each build step within a build stage.
	Steps []StepInfo
}

// StageName is the identifier for each build stage.
type StageName string

// Valid StageNames
const (
	// StagePullImages pulls the base image.
	StagePullImages StageName = "PullImages"

	// StageAssemble runs the assembly stages inside the build container.
	StageAssemble StageName = "Assemble"

	// StageCommit commits the container with the runtime contract.
	StageCommit StageName = "CommitContainer"

	// StageGenerate renders the assembly as a Dockerfile.
	StageGenerate StageName = "GenerateDockerfile"
)

// StepInfo contains details about a build step.
type StepInfo struct {
	// Name is the identifier for each build step.
	Name StepName

	// StartTime identifies when this step started.
	StartTime time.Time

	// DurationMilliseconds identifies how long this step ran.
	DurationMilliseconds int64
}

// StepName is the identifier for each build step.
type StepName string

// Valid StepNames
const (
	// StepPullBaseImage pulls the base image.
	StepPullBaseImage StepName = "PullBaseImage"

	// StepStageContext copies the build inputs into the working directory.
	StepStageContext StepName = "StageContext"

	// StepUploadContext uploads the staged context into the container.
	StepUploadContext StepName = "UploadContext"

	// StepRunAssembly runs the assembly script in the container.
	StepRunAssembly StepName = "RunAssembly"

	// StepCommitContainer commits the container with the runtime contract.
	StepCommitContainer StepName = "CommitContainer"

	// StepRenderDockerfile renders the Dockerfile.
	StepRenderDockerfile StepName = "RenderDockerfile"
)

// StepFailureReason is a camelCase reason that is used to parse and group
// failures.
type StepFailureReason string

// StepFailureMessage is a human readable message shown for users.
type StepFailureMessage string

// FailureReason is an optional, more specific reason for a build failure.
type FailureReason struct {
	// Reason is the camelCase reason for the build failure.
	Reason StepFailureReason

	// Message is the human-readable message shown for users.
	Message StepFailureMessage
}

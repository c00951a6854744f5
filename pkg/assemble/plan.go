// Package assemble defines the assembly pipeline: the ordered, named stages
// that turn the base image and the build inputs into the demo image. The
// stage list is the single source of truth consumed by every build strategy.
package assemble

import (
	"fmt"
	"strings"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/api/constants"
)

// Stage is one named step of the assembly pipeline. Stages declare the
// stages they depend on; a stage listed before one of its requirements is
// rejected by Plan, so a bad reordering fails every build and every test
// rather than producing a subtly broken image.
type Stage struct {
	// Name identifies the stage.
	Name string

	// Requires lists stages that must run before this one.
	Requires []string

	// Profiles restricts the stage to the listed deployment profiles.
	// Empty means the stage runs for every profile.
	Profiles []api.DeploymentProfile

	// Commands renders the shell commands the stage runs inside the build
	// container. Nil for stages realized outside the container, such as
	// pulling the base image or committing the runtime contract.
	Commands func(config *api.Config) []string
}

// Stage names, in pipeline order.
const (
	StageBaseImage         = "base-image"
	StageOSPackages        = "os-packages"
	StagePythonDeps        = "python-dependencies"
	StageProductionServer  = "production-server"
	StageCompatibilityPins = "compatibility-pins"
	StageFetchSimulation   = "fetch-simulation"
	StagePatchDataDir      = "patch-data-dir"
	StageInstallSimulation = "install-simulation"
	StageCopyAssets        = "copy-assets"
	StageCleanup           = "cleanup"
	StageRuntimeContract   = "runtime-contract"
)

// stages is the pipeline definition. The build context is uploaded into the
// application directory before any stage command runs, so the dependency
// manifest and the assets are in place from the start.
var stages = []Stage{
	{
		Name: StageBaseImage,
	},
	{
		Name:     StageOSPackages,
		Requires: []string{StageBaseImage},
		Commands: osPackageCommands,
	},
	{
		Name:     StagePythonDeps,
		Requires: []string{StageOSPackages},
		Commands: pythonDepsCommands,
	},
	{
		Name:     StageProductionServer,
		Requires: []string{StagePythonDeps},
		Profiles: []api.DeploymentProfile{api.ProfileProduction},
		Commands: productionServerCommands,
	},
	{
		// must run after the manifest install so the pins override
		// whatever the manifest resolved
		Name:     StageCompatibilityPins,
		Requires: []string{StagePythonDeps},
		Commands: compatibilityPinCommands,
	},
	{
		Name:     StageFetchSimulation,
		Requires: []string{StageOSPackages},
		Commands: fetchSimulationCommands,
	},
	{
		// the editable install imports the module being patched, so the
		// patch has to land first
		Name:     StagePatchDataDir,
		Requires: []string{StageFetchSimulation},
		Commands: patchDataDirCommands,
	},
	{
		Name:     StageInstallSimulation,
		Requires: []string{StagePatchDataDir, StageCompatibilityPins},
		Commands: installSimulationCommands,
	},
	{
		Name:     StageCopyAssets,
		Requires: []string{StageBaseImage},
		Commands: copyAssetsCommands,
	},
	{
		Name:     StageCleanup,
		Requires: []string{StageInstallSimulation, StageCopyAssets},
		Commands: cleanupCommands,
	},
	{
		Name:     StageRuntimeContract,
		Requires: []string{StageCleanup},
	},
}

// Plan returns the ordered list of stages that run for the given config,
// after checking the pipeline definition itself: stage names must be unique
// and every declared requirement must name an earlier stage.
func Plan(config *api.Config) ([]Stage, error) {
	if err := validate(stages); err != nil {
		return nil, err
	}
	result := make([]Stage, 0, len(stages))
	for _, stage := range stages {
		if !stageEnabled(stage, config.Profile) {
			continue
		}
		result = append(result, stage)
	}
	return result, nil
}

// StageNames returns the names of the stages that run for the given config,
// in order.
func StageNames(config *api.Config) ([]string, error) {
	plan, err := Plan(config)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(plan))
	for i, stage := range plan {
		names[i] = stage.Name
	}
	return names, nil
}

func stageEnabled(stage Stage, profile api.DeploymentProfile) bool {
	if len(stage.Profiles) == 0 {
		return true
	}
	for _, p := range stage.Profiles {
		if p == profile {
			return true
		}
	}
	return false
}

func validate(stages []Stage) error {
	seen := map[string]bool{}
	for _, stage := range stages {
		if stage.Name == "" {
			return fmt.Errorf("pipeline contains a stage without a name")
		}
		if seen[stage.Name] {
			return fmt.Errorf("duplicate stage %q in pipeline", stage.Name)
		}
		for _, req := range stage.Requires {
			if !seen[req] {
				return fmt.Errorf("stage %q requires %q, which is not an earlier stage", stage.Name, req)
			}
		}
		seen[stage.Name] = true
	}
	return nil
}

// BaseImage returns the base image for the build, falling back to the
// pinned default when the config does not override it.
func BaseImage(config *api.Config) string {
	if len(config.BaseImage) > 0 {
		return config.BaseImage
	}
	return constants.DefaultBaseImage
}

func osPackageCommands(config *api.Config) []string {
	return []string{
		"apt-get update",
		fmt.Sprintf("apt-get install -y --no-install-recommends %s", strings.Join(constants.OSPackages, " ")),
		"rm -rf /var/lib/apt/lists/*",
	}
}

func pythonDepsCommands(config *api.Config) []string {
	return []string{
		fmt.Sprintf("pip install --no-cache-dir -r %s", constants.RequirementsFile),
	}
}

func productionServerCommands(config *api.Config) []string {
	return []string{
		fmt.Sprintf("pip install --no-cache-dir %s", constants.ProductionServerPackage),
	}
}

func compatibilityPinCommands(config *api.Config) []string {
	pins := make([]string, len(constants.CompatibilityPins))
	for i, pin := range constants.CompatibilityPins {
		pins[i] = fmt.Sprintf("%q", pin)
	}
	return []string{
		fmt.Sprintf("pip install --no-cache-dir --upgrade %s", strings.Join(pins, " ")),
	}
}

func fetchSimulationCommands(config *api.Config) []string {
	return []string{
		fmt.Sprintf("git clone --depth 1 --single-branch --recurse-submodules --branch %q %s %s",
			config.OvercookedBranch, constants.SimulationRepoURL, constants.SimulationDir),
	}
}

func patchDataDirCommands(config *api.Config) []string {
	file := constants.SimulationDataDirFile
	constant := constants.SimulationDataDirConstant
	return []string{
		fmt.Sprintf("test -f %q", file),
		// the append is only safe while the module does not define the
		// constant itself; a definition appearing upstream has to fail
		// the build instead of being silently shadowed
		fmt.Sprintf("if grep -q \"^%s\" %q; then echo \"%s is already defined in %s\" >&2; exit 1; fi",
			constant, file, constant, file),
		fmt.Sprintf("echo '%s = \"%s\"' >> %q", constant, constants.SimulationDataDir, file),
	}
}

func installSimulationCommands(config *api.Config) []string {
	return []string{
		fmt.Sprintf("pip install --no-cache-dir -e \"./%s[%s]\"", constants.SimulationDir, constants.SimulationExtras),
	}
}

func copyAssetsCommands(config *api.Config) []string {
	return []string{
		fmt.Sprintf("cp %q %q", constants.GraphicsDir+"/"+config.Graphics, constants.GraphicsTarget),
	}
}

func cleanupCommands(config *api.Config) []string {
	return []string{
		// best effort, a failed cleanup must not fail the build
		fmt.Sprintf("rm -rf /root/.cache/pip /tmp/* %s || true", constants.GraphicsDir),
	}
}

package assemble

import (
	"strings"
	"testing"

	"github.com/overcooked-ai/demo2image/pkg/api"
)

func devConfig() *api.Config {
	return &api.Config{
		Profile:          api.ProfileDevelopment,
		OvercookedBranch: "master",
		Graphics:         "overcooked-graphics.js",
		ContextDir:       ".",
		Tag:              "overcooked-demo:dev",
	}
}

func prodConfig() *api.Config {
	cfg := devConfig()
	cfg.Profile = api.ProfileProduction
	return cfg
}

func stageIndex(t *testing.T, names []string, name string) int {
	t.Helper()
	for i, n := range names {
		if n == name {
			return i
		}
	}
	t.Fatalf("stage %q not found in plan %v", name, names)
	return -1
}

func TestPlanPipelineDefinitionIsValid(t *testing.T) {
	if err := validate(stages); err != nil {
		t.Errorf("pipeline definition is invalid: %v", err)
	}
}

func TestPlanOrderingInvariants(t *testing.T) {
	names, err := StageNames(prodConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	orderings := [][2]string{
		{StageBaseImage, StageOSPackages},
		{StageOSPackages, StagePythonDeps},
		{StagePythonDeps, StageProductionServer},
		{StagePythonDeps, StageCompatibilityPins},
		{StageOSPackages, StageFetchSimulation},
		{StageFetchSimulation, StagePatchDataDir},
		{StagePatchDataDir, StageInstallSimulation},
		{StageCompatibilityPins, StageInstallSimulation},
		{StageInstallSimulation, StageCleanup},
		{StageCopyAssets, StageCleanup},
		{StageCleanup, StageRuntimeContract},
	}
	for _, o := range orderings {
		if stageIndex(t, names, o[0]) >= stageIndex(t, names, o[1]) {
			t.Errorf("expected stage %q to run before %q, got %v", o[0], o[1], names)
		}
	}
}

func TestPlanProductionServerIsProfileGated(t *testing.T) {
	devNames, err := StageNames(devConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, n := range devNames {
		if n == StageProductionServer {
			t.Errorf("development plan must not contain %q: %v", StageProductionServer, devNames)
		}
	}

	prodNames, err := StageNames(prodConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stageIndex(t, prodNames, StageProductionServer)
}

func TestPlanRequiresMustReferenceEarlierStage(t *testing.T) {
	tests := []struct {
		name   string
		stages []Stage
	}{
		{
			name: "forward reference",
			stages: []Stage{
				{Name: "a", Requires: []string{"b"}},
				{Name: "b"},
			},
		},
		{
			name: "unknown reference",
			stages: []Stage{
				{Name: "a"},
				{Name: "b", Requires: []string{"nope"}},
			},
		},
		{
			name: "duplicate stage",
			stages: []Stage{
				{Name: "a"},
				{Name: "a"},
			},
		},
		{
			name: "unnamed stage",
			stages: []Stage{
				{Name: ""},
			},
		},
	}
	for _, tc := range tests {
		if err := validate(tc.stages); err == nil {
			t.Errorf("%s: expected validation error, got nil", tc.name)
		}
	}
}

func TestBaseImageDefault(t *testing.T) {
	cfg := devConfig()
	if got := BaseImage(cfg); got != "python:3.8-buster" {
		t.Errorf("unexpected default base image %q", got)
	}
	cfg.BaseImage = "python:3.9-slim"
	if got := BaseImage(cfg); got != "python:3.9-slim" {
		t.Errorf("unexpected base image override %q", got)
	}
}

func TestPatchDataDirCommandsAreGuarded(t *testing.T) {
	commands := patchDataDirCommands(devConfig())
	joined := strings.Join(commands, "\n")

	if !strings.Contains(joined, `test -f "overcooked_ai/src/human_aware_rl/data_dir.py"`) {
		t.Errorf("expected an existence check on the patch target, got:\n%s", joined)
	}
	if !strings.Contains(joined, `grep -q "^DATA_DIR"`) {
		t.Errorf("expected a duplicate-definition guard, got:\n%s", joined)
	}
	if !strings.Contains(joined, `DATA_DIR = "/app/overcooked_ai/src/human_aware_rl/data"`) {
		t.Errorf("expected the data dir constant append, got:\n%s", joined)
	}
}

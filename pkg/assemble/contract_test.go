package assemble

import (
	"reflect"
	"testing"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/api/constants"
)

func TestContractDefaults(t *testing.T) {
	contract := Contract(devConfig())

	if contract.WorkingDir != "/app" {
		t.Errorf("unexpected working dir %q", contract.WorkingDir)
	}
	if !reflect.DeepEqual(contract.ExposedPorts, []string{"5000/tcp"}) {
		t.Errorf("unexpected exposed ports %v", contract.ExposedPorts)
	}
	if !reflect.DeepEqual(contract.Cmd, []string{"python", "-u", "app.py"}) {
		t.Errorf("unexpected startup command %v", contract.Cmd)
	}
	if !reflect.DeepEqual(contract.Env, []string{"HOST=0.0.0.0", "PORT=5000", "CONF_PATH=config.json"}) {
		t.Errorf("unexpected environment %v", contract.Env)
	}
}

func TestContractExtraEnvironment(t *testing.T) {
	cfg := devConfig()
	cfg.Environment = api.EnvironmentList{
		{Name: "DEBUG", Value: "1"},
	}
	contract := Contract(cfg)
	if !reflect.DeepEqual(contract.Env, []string{"DEBUG=1", "HOST=0.0.0.0", "PORT=5000", "CONF_PATH=config.json"}) {
		t.Errorf("unexpected environment %v", contract.Env)
	}
}

func TestContractFixedEnvironmentWins(t *testing.T) {
	cfg := devConfig()
	cfg.Environment = api.EnvironmentList{
		{Name: "PORT", Value: "8080"},
	}
	contract := Contract(cfg)
	for _, e := range contract.Env {
		if e == "PORT=8080" {
			t.Errorf("a user entry must not override the runtime contract: %v", contract.Env)
		}
	}
}

func TestContractLabels(t *testing.T) {
	contract := Contract(devConfig())

	if contract.Labels[constants.KubernetesDisplayNameLabel] != "overcooked-demo:dev" {
		t.Errorf("unexpected display name label: %v", contract.Labels)
	}
	if contract.Labels["ai.overcooked.build.simulation-ref"] != "master" {
		t.Errorf("unexpected simulation ref label: %v", contract.Labels)
	}
	if contract.Labels["ai.overcooked.build.graphics"] != "overcooked-graphics.js" {
		t.Errorf("unexpected graphics label: %v", contract.Labels)
	}
}

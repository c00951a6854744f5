package assemble

import (
	"strings"
	"testing"
)

func TestScriptIsFailFast(t *testing.T) {
	script, err := Script(devConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(script, "set -e\n") {
		t.Errorf("expected script to start with set -e, got:\n%s", script)
	}
	if !strings.Contains(script, "cd /app\n") {
		t.Errorf("expected script to run in the application directory, got:\n%s", script)
	}
}

func TestScriptProductionServerGating(t *testing.T) {
	devScript, err := Script(devConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(devScript, "eventlet") {
		t.Errorf("development script must not install the production server:\n%s", devScript)
	}

	prodScript, err := Script(prodConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prodScript, "pip install --no-cache-dir eventlet") {
		t.Errorf("production script must install the production server:\n%s", prodScript)
	}
}

func TestScriptStageCommands(t *testing.T) {
	cfg := devConfig()
	cfg.OvercookedBranch = "dev"
	cfg.Graphics = "classic.js"
	script, err := Script(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []string{
		"apt-get install -y --no-install-recommends git libgl1-mesa-glx libglib2.0-0",
		"pip install --no-cache-dir -r requirements.txt",
		`pip install --no-cache-dir --upgrade "setuptools>=65.5.1" "wheel>=0.38.0"`,
		`git clone --depth 1 --single-branch --recurse-submodules --branch "dev" https://github.com/HumanCompatibleAI/overcooked_ai.git overcooked_ai`,
		`pip install --no-cache-dir -e "./overcooked_ai[harl]"`,
		`cp "graphics/classic.js" "static/js/graphics.js"`,
	}
	for _, e := range expected {
		if !strings.Contains(script, e) {
			t.Errorf("expected script to contain %q, got:\n%s", e, script)
		}
	}
}

func TestScriptPatchBeforeInstall(t *testing.T) {
	script, err := Script(devConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	patch := strings.Index(script, "DATA_DIR")
	install := strings.Index(script, "overcooked_ai[harl]")
	if patch < 0 || install < 0 {
		t.Fatalf("expected both the patch and the install in the script:\n%s", script)
	}
	if patch > install {
		t.Errorf("the data dir patch must run before the editable install:\n%s", script)
	}
}

func TestScriptIsDeterministic(t *testing.T) {
	first, err := Script(devConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Script(devConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Errorf("identical configs must render identical scripts")
	}
}

func TestScriptCommand(t *testing.T) {
	command := ScriptCommand("set -e\necho hi\n")
	if len(command) != 4 || command[0] != "/bin/sh" || command[1] != "-e" || command[2] != "-c" {
		t.Errorf("unexpected script command %v", command)
	}
}

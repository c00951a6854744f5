package config

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/overcooked-ai/demo2image/pkg/api"
)

func inTempDir(t *testing.T) func() {
	t.Helper()
	dir, err := ioutil.TempDir("", "d2i-config-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return func() {
		os.Chdir(cwd)
		os.RemoveAll(dir)
	}
}

func TestSaveRestoreRoundTrip(t *testing.T) {
	defer inTempDir(t)()

	saved := &api.Config{
		Tag:              "overcooked-demo:dev",
		OvercookedBranch: "master",
		Graphics:         "overcooked-graphics.js",
		Profile:          api.ProfileProduction,
		ContextDir:       "server",
		BaseImage:        "python:3.9-slim",
	}
	Save(saved)

	restored := &api.Config{}
	Restore(restored)

	if restored.Tag != saved.Tag ||
		restored.OvercookedBranch != saved.OvercookedBranch ||
		restored.Graphics != saved.Graphics ||
		restored.Profile != saved.Profile ||
		restored.ContextDir != saved.ContextDir ||
		restored.BaseImage != saved.BaseImage {
		t.Errorf("restored config does not match: %#v", restored)
	}
}

func TestRestoreKeepsCommandLineValues(t *testing.T) {
	defer inTempDir(t)()

	Save(&api.Config{
		Tag:              "overcooked-demo:dev",
		OvercookedBranch: "master",
		Graphics:         "overcooked-graphics.js",
	})

	restored := &api.Config{OvercookedBranch: "feature-branch"}
	Restore(restored)

	if restored.OvercookedBranch != "feature-branch" {
		t.Errorf("a command line value must win over the saved one, got %q", restored.OvercookedBranch)
	}
	if restored.Tag != "overcooked-demo:dev" {
		t.Errorf("an unset field must be filled from the saved config, got %q", restored.Tag)
	}
}

func TestRestoreMissingFile(t *testing.T) {
	defer inTempDir(t)()

	restored := &api.Config{Tag: "overcooked-demo:dev"}
	Restore(restored)
	if restored.Tag != "overcooked-demo:dev" {
		t.Errorf("restore from a missing file must not touch the config, got %#v", restored)
	}
}

func TestRestoreInvalidProfile(t *testing.T) {
	defer inTempDir(t)()

	if err := ioutil.WriteFile(DefaultConfigPath, []byte(`{"profile":"staging"}`), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restored := &api.Config{}
	Restore(restored)
	if len(restored.Profile) != 0 {
		t.Errorf("an invalid saved profile must be ignored, got %q", restored.Profile)
	}
}

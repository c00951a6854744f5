package dockerfile

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/overcooked-ai/demo2image/pkg/api"
	"github.com/overcooked-ai/demo2image/pkg/test"
	"github.com/overcooked-ai/demo2image/pkg/util/status"
)

func testConfig() *api.Config {
	return &api.Config{
		Tag:              "overcooked-demo:dev",
		OvercookedBranch: "master",
		Graphics:         "overcooked-graphics.js",
		ContextDir:       "ctx",
		Profile:          api.ProfileDevelopment,
		AsDockerfile:     "out/Dockerfile.d2i",
	}
}

func testFileSystem(config *api.Config) *test.FakeFileSystem {
	return &test.FakeFileSystem{
		ExistsResult: map[string]bool{
			filepath.Join(config.ContextDir, "requirements.txt"):          true,
			filepath.Join(config.ContextDir, "config.json"):               true,
			filepath.Join(config.ContextDir, "static"):                    true,
			filepath.Join(config.ContextDir, "graphics", config.Graphics): true,
		},
	}
}

func TestNewRequiresOutputPath(t *testing.T) {
	cfg := testConfig()
	cfg.AsDockerfile = ""
	if _, err := New(cfg, &test.FakeFileSystem{}); err == nil {
		t.Error("expected an error when no output path is given")
	}
}

func TestBuildRendersDockerfile(t *testing.T) {
	cfg := testConfig()
	fileSystem := testFileSystem(cfg)
	builder, err := New(cfg, fileSystem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := builder.Build(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Errorf("expected a successful result, got %#v", result)
	}
	if fileSystem.WriteFileName != cfg.AsDockerfile {
		t.Errorf("unexpected output path %q", fileSystem.WriteFileName)
	}

	rendered := string(fileSystem.WriteFileContent)
	expected := []string{
		"FROM python:3.8-buster\n",
		"WORKDIR /app\n",
		"COPY . /app\n",
		"ENV HOST=\"0.0.0.0\"\n",
		"ENV PORT=\"5000\"\n",
		"ENV CONF_PATH=\"config.json\"\n",
		"EXPOSE 5000/tcp\n",
		"CMD [\"python\",\"-u\",\"app.py\"]\n",
		`cp "graphics/overcooked-graphics.js" "static/js/graphics.js"`,
	}
	for _, e := range expected {
		if !strings.Contains(rendered, e) {
			t.Errorf("expected Dockerfile to contain %q, got:\n%s", e, rendered)
		}
	}
}

func TestBuildProductionServerGating(t *testing.T) {
	cfg := testConfig()
	fileSystem := testFileSystem(cfg)
	builder, _ := New(cfg, fileSystem)
	if _, err := builder.Build(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(fileSystem.WriteFileContent), "eventlet") {
		t.Errorf("development Dockerfile must not install the production server")
	}

	cfg.Profile = api.ProfileProduction
	if _, err := builder.Build(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(fileSystem.WriteFileContent), "pip install --no-cache-dir eventlet") {
		t.Errorf("production Dockerfile must install the production server")
	}
}

func TestBuildMissingInput(t *testing.T) {
	cfg := testConfig()
	fileSystem := testFileSystem(cfg)
	fileSystem.ExistsResult[filepath.Join(cfg.ContextDir, "graphics", cfg.Graphics)] = false
	builder, _ := New(cfg, fileSystem)

	result, err := builder.Build(cfg)
	if err == nil {
		t.Fatal("expected an error for a missing graphics bundle")
	}
	if result.BuildInfo.FailureReason.Reason != status.ReasonMissingInput {
		t.Errorf("unexpected failure reason %#v", result.BuildInfo.FailureReason)
	}
	if len(fileSystem.WriteFileName) != 0 {
		t.Errorf("no Dockerfile must be written when validation fails")
	}
}

func TestCreateDockerfileIsDeterministic(t *testing.T) {
	cfg := testConfig()
	fileSystem := testFileSystem(cfg)
	builder, _ := New(cfg, fileSystem)

	if err := builder.CreateDockerfile(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := string(fileSystem.WriteFileContent)
	if err := builder.CreateDockerfile(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != string(fileSystem.WriteFileContent) {
		t.Errorf("identical configs must render identical Dockerfiles")
	}
}

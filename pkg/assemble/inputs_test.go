package assemble

import (
	"testing"

	d2ierr "github.com/overcooked-ai/demo2image/pkg/errors"
	"github.com/overcooked-ai/demo2image/pkg/test"
)

func fakeContext(graphics string) *test.FakeFileSystem {
	return &test.FakeFileSystem{
		ExistsResult: map[string]bool{
			"ctx/requirements.txt":     true,
			"ctx/config.json":          true,
			"ctx/static":               true,
			"ctx/graphics/" + graphics: true,
		},
	}
}

func TestValidateInputsComplete(t *testing.T) {
	cfg := devConfig()
	cfg.ContextDir = "ctx"
	if err := ValidateInputs(fakeContext(cfg.Graphics), cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateInputsMissingGraphics(t *testing.T) {
	cfg := devConfig()
	cfg.ContextDir = "ctx"
	cfg.Graphics = "nonexistent.js"

	err := ValidateInputs(fakeContext("overcooked-graphics.js"), cfg)
	if err == nil {
		t.Fatal("expected an error for a missing graphics bundle")
	}
	e, ok := err.(d2ierr.Error)
	if !ok {
		t.Fatalf("unexpected error type %T", err)
	}
	if e.ErrorCode != d2ierr.MissingInputError {
		t.Errorf("unexpected error code %d", e.ErrorCode)
	}
}

func TestValidateInputsMissingManifest(t *testing.T) {
	cfg := devConfig()
	cfg.ContextDir = "ctx"
	fileSystem := fakeContext(cfg.Graphics)
	fileSystem.ExistsResult["ctx/requirements.txt"] = false

	if err := ValidateInputs(fileSystem, cfg); err == nil {
		t.Error("expected an error for a missing dependency manifest")
	}
}

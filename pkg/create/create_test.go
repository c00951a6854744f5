package create

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/overcooked-ai/demo2image/pkg/util/fs"
)

func TestBootstrapCreatesBuildContext(t *testing.T) {
	dir, err := ioutil.TempDir("", "d2i-create-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.RemoveAll(dir)

	b := New(fs.NewFileSystem(), "overcooked-demo", dir)
	b.AddApplication()
	b.AddAssets()
	b.AddIgnoreFile()

	expected := []string{
		"app.py",
		"requirements.txt",
		"config.json",
		filepath.Join("static", "js", "placeholder.js"),
		filepath.Join("graphics", "default.js"),
		".d2iignore",
	}
	for _, f := range expected {
		if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
			t.Errorf("expected %s to be created: %v", f, err)
		}
	}

	app, err := ioutil.ReadFile(filepath.Join(dir, "app.py"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, e := range []string{"overcooked-demo", "HOST", "PORT", "CONF_PATH"} {
		if !strings.Contains(string(app), e) {
			t.Errorf("expected the application template to mention %q", e)
		}
	}
}

func TestBootstrapKeepsExistingFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "d2i-create-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer os.RemoveAll(dir)

	existing := filepath.Join(dir, "app.py")
	if err := ioutil.WriteFile(existing, []byte("# custom application\n"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := New(fs.NewFileSystem(), "overcooked-demo", dir)
	b.AddApplication()

	content, err := ioutil.ReadFile(existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != "# custom application\n" {
		t.Errorf("an existing file must not be overwritten, got %q", string(content))
	}
}

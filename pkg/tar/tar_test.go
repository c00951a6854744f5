package tar

import (
	"archive/tar"
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/overcooked-ai/demo2image/pkg/util/fs"
)

func stageDir(t *testing.T) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "d2i-tar-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	files := map[string]string{
		"app.py":                                "print('hi')",
		"requirements.txt":                      "flask",
		".git/config":                           "[core]",
		filepath.Join("static", "js", "app.js"): "var a;",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	return dir
}

func tarEntries(t *testing.T, data []byte) map[string]bool {
	t.Helper()
	entries := map[string]bool{}
	reader := tar.NewReader(bytes.NewReader(data))
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entries[header.Name] = true
	}
	return entries
}

func TestCreateTarStreamExcludesGitMetadata(t *testing.T) {
	dir := stageDir(t)
	defer os.RemoveAll(dir)

	var buffer bytes.Buffer
	if err := New(fs.NewFileSystem()).CreateTarStream(dir, false, &buffer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := tarEntries(t, buffer.Bytes())
	for _, expected := range []string{"app.py", "requirements.txt", "static/js/app.js"} {
		if !entries[expected] {
			t.Errorf("expected entry %q in tar, got %v", expected, entries)
		}
	}
	for name := range entries {
		if regexp.MustCompile(`\.git`).MatchString(name) {
			t.Errorf("git metadata must be excluded, got %v", entries)
		}
	}
}

func TestCreateTarStreamIncludeDirInPath(t *testing.T) {
	dir := stageDir(t)
	defer os.RemoveAll(dir)

	var buffer bytes.Buffer
	if err := New(fs.NewFileSystem()).CreateTarStream(dir, true, &buffer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := tarEntries(t, buffer.Bytes())
	expected := filepath.ToSlash(filepath.Join(filepath.Base(dir), "app.py"))
	if !entries[expected] {
		t.Errorf("expected entry %q in tar, got %v", expected, entries)
	}
}

func TestSetExclusionPattern(t *testing.T) {
	dir := stageDir(t)
	defer os.RemoveAll(dir)

	tarrer := New(fs.NewFileSystem())
	tarrer.SetExclusionPattern(regexp.MustCompile(`\.txt$`))

	var buffer bytes.Buffer
	if err := tarrer.CreateTarStream(dir, false, &buffer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := tarEntries(t, buffer.Bytes())
	if entries["requirements.txt"] {
		t.Errorf("expected the custom exclusion to drop requirements.txt, got %v", entries)
	}
	if !entries["app.py"] {
		t.Errorf("expected app.py to survive the custom exclusion, got %v", entries)
	}
}

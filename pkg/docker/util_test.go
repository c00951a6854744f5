package docker

import (
	"strings"
	"testing"
)

func TestGetImageName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"python", "python:latest"},
		{"python:3.8-buster", "python:3.8-buster"},
		{"docker.io/library/python", "docker.io/library/python:latest"},
		{"registry:5000/python", "registry:5000/python:latest"},
		{"registry:5000/python:3.8", "registry:5000/python:3.8"},
		{"python@sha256:dead0123beef", "python@sha256:dead0123beef"},
	}
	for _, tc := range tests {
		if got := GetImageName(tc.name); got != tc.expected {
			t.Errorf("GetImageName(%q) = %q, expected %q", tc.name, got, tc.expected)
		}
	}
}

func TestStreamContainerIO(t *testing.T) {
	var logged []string
	errOutput := ""
	done := StreamContainerIO(strings.NewReader("line one\nline two\n"), &errOutput, func(args ...interface{}) {
		logged = append(logged, args[0].(string))
	})
	<-done

	if len(logged) != 2 {
		t.Errorf("unexpected log lines %v", logged)
	}
	if errOutput != "line one\nline two\n" {
		t.Errorf("unexpected error output %q", errOutput)
	}
}

func TestLimitWriterKeepsFirstBytes(t *testing.T) {
	out := ""
	w := &limitWriter{out: &out}
	if _, err := w.Write([]byte(strings.Repeat("x", 700))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := w.Write([]byte(strings.Repeat("y", 700))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(out) != maxErrorOutput {
		t.Errorf("expected the output to be capped at %d bytes, got %d", maxErrorOutput, len(out))
	}
	if !strings.HasPrefix(out, strings.Repeat("x", 700)) {
		t.Error("expected the first bytes written to be the ones kept")
	}
}

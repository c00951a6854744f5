package git

import "testing"

func TestValidCloneSpec(t *testing.T) {
	valid := []string{
		"https://github.com/HumanCompatibleAI/overcooked_ai.git",
		"git://github.com/user/repo.git",
		"http://github.com/user/repo",
		"file:///home/user/repo",
		"ssh://git@github.com/user/repo.git",
		"git@github.com:user/repo.git",
		"git@gitlab.example.com:group/subgroup/repo.git",
		"/home/user/repo.git",
	}
	invalid := []string{
		"ftp://github.com/user/repo.git",
		"github.com/user/repo",
		"git@github.com:user/repo",
		"",
	}

	g := New()
	for _, spec := range valid {
		if !g.ValidCloneSpec(spec) {
			t.Errorf("expected %q to be a valid clone spec", spec)
		}
	}
	for _, spec := range invalid {
		if g.ValidCloneSpec(spec) {
			t.Errorf("expected %q to be an invalid clone spec", spec)
		}
	}
}

func TestRefExistsInvalidSpec(t *testing.T) {
	g := New()
	if _, err := g.RefExists("not a repository", "master"); err == nil {
		t.Error("expected an error for an invalid clone spec")
	}
}

// Package git preflights the simulation repository ref before the assembly
// runs, so an unknown branch fails the build before any image work starts.
package git

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/overcooked-ai/demo2image/pkg/util/cmd"
	utillog "github.com/overcooked-ai/demo2image/pkg/util/log"
)

var log = utillog.StderrLog

var gitSSHURLExp = regexp.MustCompile(`\A([\w\d\-_\.+]+@[\w\d\-_\.+]+:[\w\d\-_\.+%/]+\.git)$`)

var allowedSchemes = []string{"git", "http", "https", "file", "ssh"}

// Git is the interface for the git operations the assembly needs on the host
// side.
type Git interface {
	ValidCloneSpec(source string) bool
	RefExists(source, ref string) (bool, error)
}

// New returns a new instance of the default implementation of the Git
// interface
func New() Git {
	return &d2iGit{
		runner: cmd.NewCommandRunner(),
	}
}

type d2iGit struct {
	runner cmd.CommandRunner
}

func stringInSlice(s string, slice []string) bool {
	for _, element := range slice {
		if s == element {
			return true
		}
	}
	return false
}

// ValidCloneSpec determines if the given string reference points to a valid
// remote git repository
func (h *d2iGit) ValidCloneSpec(source string) bool {
	// url.Parse rejects the colon of scp-style ssh specs
	// (git@host:path.git), so a parse error still has to reach the
	// schemeless checks below
	u, err := url.Parse(source)
	if err == nil {
		if stringInSlice(u.Scheme, allowedSchemes) {
			return true
		}
		if u.Scheme != "" {
			return false
		}
	}

	// support 'git@' ssh urls and local protocol without 'file://' scheme
	return strings.HasSuffix(source, ".git") ||
		(strings.HasPrefix(source, "git@") && gitSSHURLExp.MatchString(source))
}

// RefExists asks the remote whether the given ref exists, without cloning.
// It returns false with a nil error when the remote answered and the ref is
// not there.
func (h *d2iGit) RefExists(source, ref string) (bool, error) {
	if !h.ValidCloneSpec(source) {
		return false, fmt.Errorf("invalid clone spec %q", source)
	}

	var buffer bytes.Buffer
	opts := cmd.CommandOpts{
		Stdout: &buffer,
		Stderr: &buffer,
	}
	err := h.runner.RunWithOptions(opts, "git", "ls-remote", "--exit-code", "--heads", "--tags", source, ref)
	if err != nil {
		// git ls-remote --exit-code exits 2 when no matching refs exist
		if strings.Contains(err.Error(), "exit status 2") {
			return false, nil
		}
		log.V(1).Infof("git ls-remote output:\n%s", buffer.String())
		return false, err
	}
	return true, nil
}

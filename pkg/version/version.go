package version

var (
	// commitFromGit is a constant representing the source version that
	// generated this build. It should be set during build via -ldflags.
	commitFromGit string
)

// Get returns the version string of this build.
func Get() string {
	if len(commitFromGit) == 0 {
		return "unknown"
	}
	return commitFromGit
}

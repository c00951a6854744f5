package test

// FakeGit provides a fake git ref checker
type FakeGit struct {
	ValidCloneSpecSource string
	ValidCloneSpecResult bool

	RefExistsSource string
	RefExistsRef    string
	RefExistsResult bool
	RefExistsErr    error
}

// ValidCloneSpec returns a valid git clone specification
func (f *FakeGit) ValidCloneSpec(source string) bool {
	f.ValidCloneSpecSource = source
	return f.ValidCloneSpecResult
}

// RefExists answers whether the fake remote has the given ref
func (f *FakeGit) RefExists(source, ref string) (bool, error) {
	f.RefExistsSource = source
	f.RefExistsRef = ref
	return f.RefExistsResult, f.RefExistsErr
}

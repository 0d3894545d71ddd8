package domain

// LatestSelector is the literal selector that resolves to the highest version of a module.
const LatestSelector = "latest"

// Selector picks one release of a module: either a literal version or the latest one.
type Selector struct {
	latest  bool
	version string
}

// SelectLatest returns a selector for the highest version.
func SelectLatest() Selector {
	return Selector{latest: true}
}

// SelectVersion returns a selector for the given version literal.
func SelectVersion(version string) Selector {
	return Selector{version: version}
}

// ParseSelector maps the reserved "latest" literal to SelectLatest and anything else to SelectVersion.
func ParseSelector(s string) Selector {
	if s == LatestSelector {
		return SelectLatest()
	}
	return SelectVersion(s)
}

// IsLatest reports whether the selector asks for the highest version.
func (s Selector) IsLatest() bool {
	return s.latest
}

// String returns the selector as it appears in requests.
func (s Selector) String() string {
	if s.latest {
		return LatestSelector
	}
	return s.version
}

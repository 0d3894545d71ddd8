package domain

import (
	"bytes"
	"slices"
	"strings"
	"unicode"
)

// Release is one version of a module: a pair of opaque blobs.
// A Release is immutable once constructed; callers must not modify the returned blob slices.
type Release struct {
	version VersionID
	stack   []byte
	stackm  []byte
}

// NewRelease validates the version and copies both blobs.
func NewRelease(version string, stack, stackm []byte) (Release, error) {
	id, err := ParseVersion(version)
	if err != nil {
		return Release{}, err
	}
	return Release{
		version: id,
		stack:   cloneBlob(stack),
		stackm:  cloneBlob(stackm),
	}, nil
}

// cloneBlob copies b, keeping empty blobs non-nil so they survive encoding as empty byte strings.
func cloneBlob(b []byte) []byte {
	if len(b) == 0 {
		return []byte{}
	}
	return bytes.Clone(b)
}

// Version returns the version literal of the release.
func (r Release) Version() string { return r.version.String() }

// VersionID returns the parsed version of the release.
func (r Release) VersionID() VersionID { return r.version }

// Stack returns the "stack" blob.
func (r Release) Stack() []byte { return r.stack }

// Stackm returns the "stackm" blob.
func (r Release) Stackm() []byte { return r.stackm }

// Module is a named collection of releases kept in insertion order.
// A Module always holds at least one release; it is never mutated in place,
// WithRelease returns a grown copy instead.
type Module struct {
	name     string
	releases []Release
}

// ModuleSummary is the listing view of a module.
type ModuleSummary struct {
	Name     string   `json:"name"`
	Versions []string `json:"versions"`
	Latest   string   `json:"latest,omitempty"`
}

// ValidateModuleName rejects names that cannot be embedded in archive entry and file names.
func ValidateModuleName(name string) error {
	if name == "" {
		return tag(ErrInvalidModuleName, "module", name)
	}
	if strings.ContainsAny(name, `/\"`) || strings.ContainsFunc(name, unicode.IsControl) {
		return tag(ErrInvalidModuleName, "module", name)
	}
	return nil
}

// NewModule creates a module holding its first release.
func NewModule(name string, first Release) (*Module, error) {
	if err := ValidateModuleName(name); err != nil {
		return nil, err
	}
	if first.version.IsZero() {
		return nil, tag(ErrInvalidVersion, "module", name)
	}
	return &Module{name: name, releases: []Release{first}}, nil
}

// Name returns the module name.
func (m *Module) Name() string { return m.name }

// Len returns the number of releases.
func (m *Module) Len() int { return len(m.releases) }

// Releases returns the releases in insertion order.
func (m *Module) Releases() []Release {
	return slices.Clone(m.releases)
}

// Versions returns the version literals in insertion order.
func (m *Module) Versions() []string {
	out := make([]string, len(m.releases))
	for i, r := range m.releases {
		out[i] = r.Version()
	}
	return out
}

// SortedVersions returns the version literals in ascending version order.
func (m *Module) SortedVersions() []string {
	sorted := slices.Clone(m.releases)
	slices.SortStableFunc(sorted, func(a, b Release) int {
		return Compare(a.version, b.version)
	})
	out := make([]string, len(sorted))
	for i, r := range sorted {
		out[i] = r.Version()
	}
	return out
}

// Lookup finds the release for a version literal. An exact literal match wins;
// otherwise a release whose version compares equal (for example "1.2" for "1.2.0") is returned.
func (m *Module) Lookup(version string) (Release, bool) {
	for _, r := range m.releases {
		if r.Version() == version {
			return r, true
		}
	}
	id, err := ParseVersion(version)
	if err != nil {
		return Release{}, false
	}
	for _, r := range m.releases {
		if Compare(r.version, id) == 0 {
			return r, true
		}
	}
	return Release{}, false
}

// WithRelease returns a copy of the module with r appended.
func (m *Module) WithRelease(r Release) (*Module, error) {
	if r.version.IsZero() {
		return nil, zerrModule(tag(ErrInvalidVersion, "version", r.Version()), m.name)
	}
	if _, ok := m.Lookup(r.Version()); ok {
		return nil, zerrModule(tag(ErrVersionAlreadyExists, "version", r.Version()), m.name)
	}
	releases := make([]Release, len(m.releases), len(m.releases)+1)
	copy(releases, m.releases)
	return &Module{name: m.name, releases: append(releases, r)}, nil
}

// Resolve returns the release picked by sel.
func (m *Module) Resolve(sel Selector) (Release, error) {
	if sel.IsLatest() {
		ids := make([]VersionID, len(m.releases))
		for i, r := range m.releases {
			ids[i] = r.version
		}
		best, err := Latest(ids)
		if err != nil {
			return Release{}, zerrModule(tag(err, "selector", sel.String()), m.name)
		}
		r, _ := m.Lookup(best.String())
		return r, nil
	}

	r, ok := m.Lookup(sel.String())
	if !ok {
		return Release{}, zerrModule(tag(ErrVersionNotFound, "version", sel.String()), m.name)
	}
	return r, nil
}

// Summary returns the listing view with versions in insertion order.
func (m *Module) Summary() ModuleSummary {
	return ModuleSummary{Name: m.name, Versions: m.Versions()}
}

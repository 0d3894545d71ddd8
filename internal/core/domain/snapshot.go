package domain

// Snapshot is the persisted form of the whole store.
// Modules appear in creation order and releases in insertion order.
type Snapshot struct {
	Modules []ModuleRecord `cbor:"1,keyasint" json:"modules"`
}

// ModuleRecord is one module inside a Snapshot.
type ModuleRecord struct {
	Name     string          `cbor:"1,keyasint" json:"name"`
	Releases []ReleaseRecord `cbor:"2,keyasint" json:"releases"`
}

// ReleaseRecord is one release inside a Snapshot. Blobs are raw bytes.
type ReleaseRecord struct {
	Version string `cbor:"1,keyasint" json:"version"`
	Stack   []byte `cbor:"2,keyasint" json:"stack"`
	Stackm  []byte `cbor:"3,keyasint" json:"stackm"`
}

// Record converts a module into its persisted form. Blob slices are shared, not copied.
func (m *Module) Record() ModuleRecord {
	rec := ModuleRecord{Name: m.name, Releases: make([]ReleaseRecord, len(m.releases))}
	for i, r := range m.releases {
		rec.Releases[i] = ReleaseRecord{Version: r.Version(), Stack: r.stack, Stackm: r.stackm}
	}
	return rec
}

// Module rebuilds a module from its persisted form, enforcing every module invariant:
// a valid name, at least one release, parseable and distinct versions.
func (rec ModuleRecord) Module() (*Module, error) {
	if len(rec.Releases) == 0 {
		return nil, zerrModule(tag(ErrCorruptState, "reason", "module has no releases"), rec.Name)
	}

	var m *Module
	for _, rr := range rec.Releases {
		r, err := NewRelease(rr.Version, rr.Stack, rr.Stackm)
		if err != nil {
			return nil, zerrModule(tag(ErrCorruptState, "version", rr.Version), rec.Name)
		}
		if m == nil {
			m, err = NewModule(rec.Name, r)
		} else {
			m, err = m.WithRelease(r)
		}
		if err != nil {
			return nil, zerrModule(tag(ErrCorruptState, "cause", err.Error()), rec.Name)
		}
	}
	return m, nil
}

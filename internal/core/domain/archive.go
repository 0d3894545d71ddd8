package domain

// StackEntryName is the archive entry holding the "stack" blob of module name.
func StackEntryName(name string) string {
	return name + ".stack"
}

// StackmEntryName is the archive entry holding the "stackm" blob of module name.
func StackmEntryName(name string) string {
	return name + ".stackm"
}

// ArchiveFileName is the suggested download name for a release archive.
// Callers pass the resolved version when the request asked for "latest".
func ArchiveFileName(name, version string) string {
	return name + "_" + version + ".zip"
}

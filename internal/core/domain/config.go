package domain

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "stitch.yaml"

	// DirPerm is the default permission for created output directories.
	DirPerm = 0o750

	// FilePerm is the default permission for written bundles.
	FilePerm = 0o644
)

// Bundle pairs an entry file with the file its concatenation is written to.
type Bundle struct {
	Entry string
	// Output is empty when the bundle goes to stdout.
	Output string
}

// Config is the resolved project configuration. All paths are absolute.
type Config struct {
	Root           string
	Dialect        HeaderDialect
	Roots          []string
	ExtensionRoots map[string]string
	RemoveHeaders  bool
	MaxConcurrent  int
	Bundles        []Bundle
}

// RootMode reports whether the project is built from fixed root directories.
func (c *Config) RootMode() bool {
	return len(c.Roots) > 0
}

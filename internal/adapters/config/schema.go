package config

// Stitchfile is the on-disk shape of stitch.yaml.
type Stitchfile struct {
	Version        string            `yaml:"version"`
	Root           string            `yaml:"root"`
	Dialect        string            `yaml:"dialect"`
	Roots          []string          `yaml:"roots"`
	ExtensionRoots map[string]string `yaml:"extensionRoots"`
	RemoveHeaders  bool              `yaml:"removeHeaders"`
	MaxConcurrent  int               `yaml:"maxConcurrent"`
	Bundles        []BundleDTO       `yaml:"bundles"`
}

// BundleDTO is one entry of the bundles list.
type BundleDTO struct {
	Entry  string `yaml:"entry"`
	Output string `yaml:"output"`
}

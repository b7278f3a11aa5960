package domain

import "go.trai.ch/zerr"

var (
	// ErrNoRootDirectories is returned when a root-directory builder is constructed without roots.
	ErrNoRootDirectories = zerr.New("at least one root directory is required")

	// ErrInvalidDialect is returned when a header dialect name is not recognised.
	ErrInvalidDialect = zerr.New("invalid header dialect, expected 'block' or 'line'")

	// ErrFileReadFailed is returned when a visited file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrPathStatFailed is returned when stating a declared dependency fails.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrDirectoryWalkFailed is returned when a directory cannot be enumerated.
	ErrDirectoryWalkFailed = zerr.New("failed to walk directory")

	// ErrMissingCacheEntry is returned when concatenation reaches a file that was never built.
	ErrMissingCacheEntry = zerr.New("file not in cache")

	// ErrBuildFailed is returned when a dependency graph build does not complete.
	ErrBuildFailed = zerr.New("dependency graph build failed")

	// ErrConfigNotFound is returned when no configuration file can be found.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrBundleEntryMissing is returned when a configured bundle has no entry file.
	ErrBundleEntryMissing = zerr.New("bundle entry is required")

	// ErrInvalidMaxConcurrent is returned when maxConcurrent is negative.
	ErrInvalidMaxConcurrent = zerr.New("maxConcurrent must not be negative")

	// ErrNoEntries is returned when there is nothing to bundle.
	ErrNoEntries = zerr.New("no bundle entries specified")

	// ErrOutputWriteFailed is returned when a bundle cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write bundle output")

	// ErrFailedToGetRoot is returned when the project root path cannot be determined.
	ErrFailedToGetRoot = zerr.New("failed to get absolute path of project root")
)

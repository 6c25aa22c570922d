package domain

import "go.trai.ch/zerr"

var (
	// ErrNotFound is returned when a requested file does not exist.
	ErrNotFound = zerr.New("file not found")

	// ErrPermissionDenied is returned when a file exists but cannot be read.
	ErrPermissionDenied = zerr.New("permission denied")

	// ErrNotResolvable is returned when a specifier cannot be resolved to a file identity.
	ErrNotResolvable = zerr.New("specifier could not be resolved")

	// ErrTransformFailed wraps a dialect compiler diagnostic reported during transformation.
	ErrTransformFailed = zerr.New("source transform failed")

	// ErrExtractionFailed is returned when the normalized CSS is malformed.
	ErrExtractionFailed = zerr.New("token extraction failed")

	// ErrUnresolvedComposesTarget is returned when a composes-from specifier cannot be resolved.
	ErrUnresolvedComposesTarget = zerr.New("unresolved composes target")

	// ErrCyclicComposition is returned when a file composes from itself, directly or transitively.
	ErrCyclicComposition = zerr.New("cyclic composition")

	// ErrConfigNotFound is returned when no swatch.yaml can be discovered.
	ErrConfigNotFound = zerr.New("could not find swatch.yaml")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidIgnorePattern is returned when an ignore pattern is not a valid regexp.
	ErrInvalidIgnorePattern = zerr.New("invalid ignore pattern")

	// ErrInvalidDialect is returned when a dialect entry has no command.
	ErrInvalidDialect = zerr.New("dialect must declare a command")

	// ErrNoFilesMatched is returned when no style-sheet files match the configured patterns.
	ErrNoFilesMatched = zerr.New("no files matched the configured patterns")

	// ErrGenerationFailed is returned when one or more top-level files failed to generate.
	ErrGenerationFailed = zerr.New("declaration generation failed")

	// ErrEmitFailed is returned when a declaration file or its map cannot be written.
	ErrEmitFailed = zerr.New("failed to write declaration output")

	// ErrManifestReadFailed is returned when a manifest entry cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest entry")

	// ErrManifestUnmarshalFailed is returned when a manifest entry cannot be unmarshaled.
	ErrManifestUnmarshalFailed = zerr.New("failed to unmarshal manifest entry")

	// ErrManifestMarshalFailed is returned when a manifest entry cannot be marshaled.
	ErrManifestMarshalFailed = zerr.New("failed to marshal manifest entry")

	// ErrManifestWriteFailed is returned when a manifest entry cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write manifest entry")

	// ErrManifestCreateFailed is returned when the manifest directory cannot be created.
	ErrManifestCreateFailed = zerr.New("failed to create manifest directory")

	// ErrPackageManifestInvalid is returned when a package.json cannot be parsed during resolution.
	ErrPackageManifestInvalid = zerr.New("invalid package manifest")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to start file watcher")
)

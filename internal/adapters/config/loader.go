// Package config loads stitch.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.trai.ch/stitch/internal/core/domain"
	"go.trai.ch/stitch/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the configuration format understood by this loader.
const SupportedVersion = "1"

// stdoutOutput selects stdout as a bundle destination.
const stdoutOutput = "-"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader on top of a ports.FileSystem.
type Loader struct {
	FS     ports.FileSystem
	Logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(fsys ports.FileSystem, logger ports.Logger) *Loader {
	return &Loader{FS: fsys, Logger: logger}
}

// Load finds stitch.yaml in cwd or one of its parents and resolves it.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(configPath)
}

// LoadFile resolves the configuration at configPath. Relative paths inside the
// file are resolved against the project root, which defaults to the directory
// holding the file.
func (l *Loader) LoadFile(configPath string) (*domain.Config, error) {
	var file Stitchfile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if file.Version != "" && file.Version != SupportedVersion {
		l.Logger.Warn(fmt.Sprintf("unknown %s version, reading it as version %s", domain.ConfigFileName, SupportedVersion),
			"version", file.Version)
	}

	dialect, err := domain.ParseDialect(file.Dialect)
	if err != nil {
		return nil, err
	}

	if file.MaxConcurrent < 0 {
		return nil, zerr.With(domain.ErrInvalidMaxConcurrent, "maxConcurrent", file.MaxConcurrent)
	}

	root := resolveRoot(configPath, file.Root)
	cfg := &domain.Config{
		Root:          root,
		Dialect:       dialect,
		RemoveHeaders: file.RemoveHeaders,
		MaxConcurrent: file.MaxConcurrent,
	}

	for _, dir := range file.Roots {
		cfg.Roots = append(cfg.Roots, resolvePath(root, dir))
	}

	if len(file.ExtensionRoots) > 0 {
		cfg.ExtensionRoots = make(map[string]string, len(file.ExtensionRoots))
		for ext, dir := range file.ExtensionRoots {
			cfg.ExtensionRoots[ext] = resolvePath(root, dir)
		}
	}

	for i, dto := range file.Bundles {
		if strings.TrimSpace(dto.Entry) == "" {
			return nil, zerr.With(domain.ErrBundleEntryMissing, "bundle", i)
		}
		bundle := domain.Bundle{Entry: resolvePath(root, dto.Entry)}
		if dto.Output != "" && dto.Output != stdoutOutput {
			bundle.Output = resolvePath(root, dto.Output)
		}
		cfg.Bundles = append(cfg.Bundles, bundle)
	}

	return cfg, nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "searched from "+cwd), "cwd", cwd)
}

// readAndUnmarshalYAML decodes configPath into target, rejecting unknown keys.
// An empty file decodes to the zero value.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *Stitchfile) error {
	content, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewBufferString(content))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	return resolvePath(configDir, configuredRoot)
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

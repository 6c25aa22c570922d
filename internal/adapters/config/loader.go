// Package config provides the configuration loader for swatch.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.trai.ch/swatch/internal/core/domain"
	"go.trai.ch/swatch/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load walks upward from cwd until it finds a swatch.yaml and returns the
// validated configuration.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}

	var file Swatchfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	if file.Version != "" && file.Version != "1" {
		l.Logger.Warn("unknown config version '" + file.Version + "', proceeding as version 1")
	}

	return buildConfig(configPath, &file)
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, ""), "cwd", cwd)
}

func buildConfig(configPath string, file *Swatchfile) (*domain.Config, error) {
	cfg := &domain.Config{
		Root:     resolveRoot(configPath, file.Root),
		Patterns: file.Patterns,
		Ignore:   file.Ignore,
		Dialects: make(map[string]domain.Dialect),
	}
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = domain.DefaultPatterns
	}

	if file.Output != nil {
		cfg.Output = domain.OutputConfig{
			OutDir:         file.Output.OutDir,
			NamedExports:   file.Output.NamedExports,
			DeclarationMap: file.Output.DeclarationMap,
		}
	}

	if file.Resolve != nil {
		cfg.Resolve = domain.ResolveConfig{
			Alias:            file.Resolve.Alias,
			LookupDirs:       file.Resolve.LookupDirs,
			IgnoreSpecifiers: file.Resolve.IgnoreSpecifiers,
		}
		for _, pattern := range cfg.Resolve.IgnoreSpecifiers {
			if _, err := regexp.Compile(pattern); err != nil {
				return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidIgnorePattern, ""), "pattern", pattern), "reason", err.Error())
			}
		}
	}

	for ext, dto := range file.Dialects {
		if err := validateDialect(ext, dto); err != nil {
			return nil, err
		}
		cfg.Dialects[ext] = domain.Dialect{Command: dto.Command}
	}

	return cfg, nil
}

func validateDialect(ext string, dto *DialectDTO) error {
	if !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, "/\\") {
		return zerr.With(zerr.Wrap(domain.ErrInvalidDialect, ""), "extension", ext)
	}
	if dto == nil || len(dto.Command) == 0 {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrInvalidDialect, ""), "extension", ext), "reason", "empty command")
	}
	return nil
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

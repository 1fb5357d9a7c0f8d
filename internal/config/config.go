package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
)

// ErrInvalidConfig is returned for malformed config documents and for
// configs that fail validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the configuration for a bsnap run.
//
// The TOML keys are the primary format. The JSON keys match the older
// JSON config layout so existing files keep working.
type Config struct {
	Name                string        `toml:"name" json:"name"`
	InputDirs           []string      `toml:"input_dirs" json:"inDirs"`
	OutputDir           string        `toml:"output_dir" json:"outDir"`
	ExcludedExts        []string      `toml:"excluded_exts" json:"excludedExts"`
	HashExcludedMaxSize int64         `toml:"hash_excluded_max_size" json:"hashExcludedFilesMaxSize"`
	LogDir              string        `toml:"log_dir,omitempty" json:"logDir,omitempty"`
	Archive             ArchiveConfig `toml:"archive" json:"archive"`
	Hash                HashConfig    `toml:"hash" json:"hash"`
}

// ArchiveConfig selects the archive compression.
type ArchiveConfig struct {
	Compression string `toml:"compression" json:"compression"` // "zstd" (default), "gzip" or "lz4"
	Level       int    `toml:"level,omitempty" json:"level,omitempty"`
}

// HashConfig selects the content digest algorithm.
type HashConfig struct {
	Algorithm string `toml:"algorithm" json:"algorithm"` // "sha256" (default) or "blake3"
}

// NewConfig creates a new Config with the provided values and defaults for
// everything else.
func NewConfig(name, outputDir string, inputDirs ...string) *Config {
	return &Config{
		Name:         name,
		InputDirs:    inputDirs,
		OutputDir:    outputDir,
		ExcludedExts: []string{},
		Archive:      ArchiveConfig{Compression: "zstd"},
		Hash:         HashConfig{Algorithm: "sha256"},
	}
}

// Validate checks the fields a run depends on. Directory existence and
// permissions are checked later, against the real filesystem.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidConfig)
	}
	if strings.ContainsRune(c.Name, '/') || strings.ContainsRune(c.Name, filepath.Separator) {
		return fmt.Errorf("%w: name %q must not contain a path separator", ErrInvalidConfig, c.Name)
	}
	if len(c.InputDirs) == 0 {
		return fmt.Errorf("%w: at least one input directory is required", ErrInvalidConfig)
	}
	for _, dir := range c.InputDirs {
		if dir == "" {
			return fmt.Errorf("%w: input directory must not be empty", ErrInvalidConfig)
		}
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required", ErrInvalidConfig)
	}
	for _, ext := range c.ExcludedExts {
		if strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: excluded extension %q must not start with '.'", ErrInvalidConfig, ext)
		}
	}
	if c.HashExcludedMaxSize < 0 {
		return fmt.Errorf("%w: hash_excluded_max_size must not be negative, got %d", ErrInvalidConfig, c.HashExcludedMaxSize)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a TOML Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// ReadJSON decodes a JSON Config from the provided reader.
func (m *Manager) ReadJSON(r io.Reader) (*Config, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to decode config: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer as TOML.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path. Files ending
// in .json are decoded as JSON, everything else as TOML.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open config file: %w", ErrInvalidConfig, err)
	}
	defer f.Close()

	m := &Manager{}
	read := m.Read
	if strings.EqualFold(filepath.Ext(path), ".json") {
		read = m.ReadJSON
	}
	cfg, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

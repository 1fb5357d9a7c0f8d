package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		Name:                "home",
		InputDirs:           []string{"/home/user/docs", "/home/user/photos"},
		OutputDir:           "/mnt/backup",
		ExcludedExts:        []string{"iso", "tmp"},
		HashExcludedMaxSize: 4096,
		LogDir:              "/var/log/bsnap",
		Archive:             ArchiveConfig{Compression: "lz4", Level: 3},
		Hash:                HashConfig{Algorithm: "blake3"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.Name != original.Name {
		t.Errorf("Name = %q, want %q", got.Name, original.Name)
	}
	if len(got.InputDirs) != 2 || got.InputDirs[1] != "/home/user/photos" {
		t.Errorf("InputDirs = %v, want %v", got.InputDirs, original.InputDirs)
	}
	if got.OutputDir != original.OutputDir {
		t.Errorf("OutputDir = %q, want %q", got.OutputDir, original.OutputDir)
	}
	if len(got.ExcludedExts) != 2 {
		t.Fatalf("len(ExcludedExts) = %d, want 2", len(got.ExcludedExts))
	}
	if got.HashExcludedMaxSize != 4096 {
		t.Errorf("HashExcludedMaxSize = %d, want 4096", got.HashExcludedMaxSize)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Archive != original.Archive {
		t.Errorf("Archive = %+v, want %+v", got.Archive, original.Archive)
	}
	if got.Hash.Algorithm != "blake3" {
		t.Errorf("Hash.Algorithm = %q, want %q", got.Hash.Algorithm, "blake3")
	}
}

func TestManager_ReadJSON(t *testing.T) {
	doc := `{
		"name": "laptop",
		"inDirs": ["/data/a", "/data/b"],
		"outDir": "/backup",
		"excludedExts": ["mp4", ""],
		"hashExcludedFilesMaxSize": 1048576
	}`

	got, err := (&Manager{}).ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if got.Name != "laptop" {
		t.Errorf("Name = %q, want %q", got.Name, "laptop")
	}
	if len(got.InputDirs) != 2 || got.InputDirs[0] != "/data/a" {
		t.Errorf("InputDirs = %v", got.InputDirs)
	}
	if got.OutputDir != "/backup" {
		t.Errorf("OutputDir = %q, want %q", got.OutputDir, "/backup")
	}
	if len(got.ExcludedExts) != 2 || got.ExcludedExts[1] != "" {
		t.Errorf("ExcludedExts = %q", got.ExcludedExts)
	}
	if got.HashExcludedMaxSize != 1048576 {
		t.Errorf("HashExcludedMaxSize = %d, want 1048576", got.HashExcludedMaxSize)
	}
}

func TestManager_Read_Malformed(t *testing.T) {
	m := &Manager{}

	if _, err := m.Read(strings.NewReader("name = ")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Read() error = %v, want ErrInvalidConfig", err)
	}
	if _, err := m.ReadJSON(strings.NewReader(`{"name": `)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ReadJSON() error = %v, want ErrInvalidConfig", err)
	}
	if _, err := m.ReadJSON(strings.NewReader(`{"hashExcludedFilesMaxSize": "big"}`)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ReadJSON() error = %v, want ErrInvalidConfig", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return NewConfig("home", "/backup", "/data")
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty extension allowed", mutate: func(c *Config) { c.ExcludedExts = []string{""} }},
		{name: "zero threshold allowed", mutate: func(c *Config) { c.HashExcludedMaxSize = 0 }},
		{name: "empty name", mutate: func(c *Config) { c.Name = "  " }, wantErr: true},
		{name: "name with separator", mutate: func(c *Config) { c.Name = "a/b" }, wantErr: true},
		{name: "no input dirs", mutate: func(c *Config) { c.InputDirs = nil }, wantErr: true},
		{name: "blank input dir", mutate: func(c *Config) { c.InputDirs = []string{""} }, wantErr: true},
		{name: "no output dir", mutate: func(c *Config) { c.OutputDir = "" }, wantErr: true},
		{name: "leading dot extension", mutate: func(c *Config) { c.ExcludedExts = []string{".tmp"} }, wantErr: true},
		{name: "negative threshold", mutate: func(c *Config) { c.HashExcludedMaxSize = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("home", "/backup", "/data/a", "/data/b")

	if cfg.Name != "home" {
		t.Errorf("Name = %q, want %q", cfg.Name, "home")
	}
	if cfg.OutputDir != "/backup" {
		t.Errorf("OutputDir = %q, want %q", cfg.OutputDir, "/backup")
	}
	if len(cfg.InputDirs) != 2 {
		t.Errorf("len(InputDirs) = %d, want 2", len(cfg.InputDirs))
	}
	if cfg.Archive.Compression != "zstd" {
		t.Errorf("Archive.Compression = %q, want %q", cfg.Archive.Compression, "zstd")
	}
	if cfg.Hash.Algorithm != "sha256" {
		t.Errorf("Hash.Algorithm = %q, want %q", cfg.Hash.Algorithm, "sha256")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bsnap.toml")
		cfg := NewConfig("h1", dir, dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bsnap.toml")
		cfg := NewConfig("h1", dir, dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid toml config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bsnap.toml")
		cfg := NewConfig("read-test", dir, dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Name != "read-test" {
			t.Errorf("Name = %q, want %q", got.Name, "read-test")
		}
		if err := got.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("reads json config by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "backup.json")
		doc := `{"name": "j", "inDirs": ["/a"], "outDir": "/b", "excludedExts": [], "hashExcludedFilesMaxSize": 10}`
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			t.Fatal(err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Name != "j" || got.HashExcludedMaxSize != 10 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/bsnap.toml")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("ReadFromFile() error = %v, want ErrInvalidConfig", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("ReadFromFile() error = %v, want os.ErrNotExist", err)
		}
	})
}

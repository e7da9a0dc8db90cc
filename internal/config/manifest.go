package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"iconci/internal/fault"
)

// ManifestName is the file LoadManifest looks for.
const ManifestName = "iconci.toml"

// Manifest is a parsed iconci.toml.
type Manifest struct {
	Path   string
	Root   string
	Config ManifestConfig
}

// ManifestConfig mirrors the TOML layout.
type ManifestConfig struct {
	Desktop DesktopConfig `toml:"desktop"`
	Mobile  MobileConfig  `toml:"mobile"`
	Commit  CommitConfig  `toml:"commit"`
}

type DesktopConfig struct {
	Glob   string `toml:"glob"`
	Strict bool   `toml:"strict"`
}

type MobileConfig struct {
	Glob     string `toml:"glob"`
	Filetype string `toml:"filetype"`
}

type CommitConfig struct {
	Message     string `toml:"message"`
	EmailDomain string `toml:"email_domain"`
	Remote      string `toml:"remote"`
}

// FindManifest walks up from startDir looking for iconci.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fault.IOError(candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// LoadManifest finds and parses the manifest. ok is false when none exists;
// the returned manifest is then empty but usable.
func LoadManifest(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return &Manifest{}, false, nil
	}
	cfg, err := loadManifestConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

func loadManifestConfig(path string) (ManifestConfig, error) {
	var cfg ManifestConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ManifestConfig{}, fault.Configf("%s: failed to parse TOML: %v", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return ManifestConfig{}, fault.Configf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("mobile", "filetype") {
		switch strings.ToLower(strings.TrimSpace(cfg.Mobile.Filetype)) {
		case "svg", "xml":
		default:
			return ManifestConfig{}, fault.Configf("%s: [mobile].filetype must be svg or xml", path)
		}
	}
	return cfg, nil
}

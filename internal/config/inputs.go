package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"iconci/internal/fault"
)

// InputEnv returns the environment variable carrying input name.
func InputEnv(name string) string {
	return "INPUT_" + strings.ReplaceAll(cases.Upper(language.Und).String(strings.TrimSpace(name)), " ", "_")
}

// LoadDotEnv loads dir/.env without overriding existing variables.
// A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fault.IOError(path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fault.Configf("%s: %v", path, err)
	}
	return nil
}

// Source looks up inputs.
type Source struct {
	Getenv func(string) string
}

// FromEnv returns a Source reading the process environment.
func FromEnv() Source { return Source{Getenv: os.Getenv} }

func (s Source) getenv(key string) string {
	if s.Getenv == nil {
		return os.Getenv(key)
	}
	return s.Getenv(key)
}

// Env returns a trimmed plain environment variable.
func (s Source) Env(key string) string {
	return strings.TrimSpace(s.getenv(key))
}

// Input returns the trimmed value of input name, or "".
func (s Source) Input(name string) string {
	return strings.TrimSpace(s.getenv(InputEnv(name)))
}

// Value returns the first non-blank of flag, input name and def.
func (s Source) Value(name, flag, def string) string {
	if v := strings.TrimSpace(flag); v != "" {
		return v
	}
	if v := s.Input(name); v != "" {
		return v
	}
	return strings.TrimSpace(def)
}

// Required is Value, failing with fault.Configuration when all are blank.
func (s Source) Required(name, flag, def string) (string, error) {
	v := s.Value(name, flag, def)
	if v == "" {
		return "", fault.Configf("input required and not supplied: %s", name)
	}
	return v, nil
}

// Bool resolves a boolean input. flagSet reports whether the flag was given
// explicitly. Inputs accept the YAML 1.2 core schema spellings.
func (s Source) Bool(name string, flagSet, flag, def bool) (bool, error) {
	if flagSet {
		return flag, nil
	}
	switch v := s.Input(name); v {
	case "":
		return def, nil
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	default:
		return false, fault.Configf("input %s does not meet YAML 1.2 core schema boolean: %q", name, v)
	}
}

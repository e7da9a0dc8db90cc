package normalize

import (
	"path/filepath"
	"strings"

	"iconci/internal/fault"
)

// Kind is a formattable file kind.
type Kind string

const (
	KindSVG Kind = "svg"
	KindXML Kind = "xml"
)

// ParseKind accepts "svg" or "xml", case-insensitively.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindSVG:
		return KindSVG, nil
	case KindXML:
		return KindXML, nil
	}
	return "", fault.Configf("invalid filetype %q (expected svg|xml)", value)
}

// Ext returns the file extension for k, including the dot.
func (k Kind) Ext() string { return "." + string(k) }

// Matches reports whether path carries k's extension.
func (k Kind) Matches(path string) bool {
	return strings.EqualFold(filepath.Ext(path), k.Ext())
}

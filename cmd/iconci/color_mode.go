package main

import (
	"os"
	"strings"

	"github.com/fatih/color"

	"iconci/internal/fault"
)

func applyColorMode(value string) error {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		color.NoColor = color.NoColor || !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fault.Configf("invalid --color value %q (expected auto|on|off)", value)
	}
	return nil
}

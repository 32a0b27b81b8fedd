package models

import (
	"fmt"
	"strings"
)

// Mode controls how computed pixel values are mapped onto scale tokens.
type Mode string

const (
	// ModeLoose always rounds to the nearest scale entry.
	ModeLoose Mode = "loose"
	// ModeStrict emits arbitrary-value tokens (mt-[17px]) for off-scale values.
	ModeStrict Mode = "strict"
)

// ParseMode resolves a mode flag. Empty input means loose.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeLoose:
		return ModeLoose, nil
	case ModeStrict:
		return ModeStrict, nil
	}
	return "", fmt.Errorf("invalid mode %q: expected loose or strict", s)
}

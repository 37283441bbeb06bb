package config

import (
	"fmt"
	"strings"
)

// SpeedPreset names a tick period so players need not think in
// milliseconds.
type SpeedPreset string

const (
	SpeedSlow   SpeedPreset = "slow"
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
	SpeedInsane SpeedPreset = "insane"
)

// AllSpeeds lists the presets from slowest to fastest.
func AllSpeeds() []SpeedPreset {
	return []SpeedPreset{SpeedSlow, SpeedNormal, SpeedFast, SpeedInsane}
}

// TickMS returns the tick period of the preset.
func (p SpeedPreset) TickMS() int {
	switch p {
	case SpeedSlow:
		return 150
	case SpeedFast:
		return 70
	case SpeedInsane:
		return MinTickMS
	default:
		return 100
	}
}

// ParseSpeed parses a preset name, case-insensitively.
func ParseSpeed(s string) (SpeedPreset, error) {
	p := SpeedPreset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllSpeeds() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown speed %q (want slow, normal, fast or insane)", s)
}

// ApplySpeed overrides the tick period with a preset.
func ApplySpeed(cfg *Config, p SpeedPreset) {
	cfg.Server.TickMS = p.TickMS()
}

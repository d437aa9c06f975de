package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seagrayinc/g935-hidpp/pkg/g935"
)

// profile is a YAML lighting profile applied at startup, for example:
//
//	side:
//	  effect: breathing
//	  color: ff2800
//	  rate: 10000
//	  brightness: 100
//	logo:
//	  effect: off
type profile struct {
	Side *effectSpec `yaml:"side"`
	Logo *effectSpec `yaml:"logo"`
}

type effectSpec struct {
	Effect     string `yaml:"effect"`
	Color      string `yaml:"color"`
	Rate       uint16 `yaml:"rate"`
	Brightness uint8  `yaml:"brightness"`
}

func loadProfile(path string) (*profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	// Validate both zones up front so a broken profile fails before any
	// device traffic.
	if p.Side != nil {
		if _, err := p.Side.toEffect(); err != nil {
			return nil, fmt.Errorf("side: %w", err)
		}
	}
	if p.Logo != nil {
		if _, err := p.Logo.toEffect(); err != nil {
			return nil, fmt.Errorf("logo: %w", err)
		}
	}

	return &p, nil
}

func (p *profile) apply(cfg *g935.Config) {
	if p.Side != nil {
		effect, _ := p.Side.toEffect()
		cfg.SetSideLightEffect(effect)
	}
	if p.Logo != nil {
		effect, _ := p.Logo.toEffect()
		cfg.SetLogoLightEffect(effect)
	}
}

func (s *effectSpec) toEffect() (g935.Effect, error) {
	switch s.Effect {
	case "", "off":
		return g935.Off(), nil
	case "static":
		r, g, b, err := parseColor(s.Color)
		if err != nil {
			return g935.Effect{}, err
		}
		return g935.Static(r, g, b), nil
	case "breathing":
		r, g, b, err := parseColor(s.Color)
		if err != nil {
			return g935.Effect{}, err
		}
		return g935.Breathing(r, g, b, s.Rate, s.Brightness), nil
	case "cycle":
		return g935.ColorCycle(s.Rate, s.Brightness), nil
	default:
		return g935.Effect{}, fmt.Errorf("unknown effect %q", s.Effect)
	}
}

func parseColor(s string) (r, g, b uint8, err error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 3 {
		return 0, 0, 0, fmt.Errorf("color must be six hex digits, got %q", s)
	}
	return raw[0], raw[1], raw[2], nil
}

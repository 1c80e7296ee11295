// Package config loads queuesimd's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DeterminateSystems/queuesimd/lesson"
)

type Config struct {
	Listen  string `yaml:"listen"`
	History int    `yaml:"history"`
	// MaxSessions caps live sessions; 0 means no limit.
	MaxSessions int            `yaml:"max_sessions"`
	Heartbeat   time.Duration  `yaml:"heartbeat"`
	Display     Display        `yaml:"display"`
	Lessons     lesson.Catalog `yaml:"lessons"`
}

// Display holds presentation preferences. The server only stores and serves
// them; nothing in the simulation reads them.
type Display struct {
	Haptics          bool `yaml:"haptics" json:"haptics"`
	DarkMode         bool `yaml:"dark_mode" json:"dark_mode"`
	ShowPointers     bool `yaml:"show_pointers" json:"show_pointers"`
	ShowExplanations bool `yaml:"show_explanations" json:"show_explanations"`
}

func Default() *Config {
	return &Config{
		Listen:      ":8080",
		History:     50,
		MaxSessions: 1000,
		Heartbeat:   15 * time.Second,
		Display: Display{
			Haptics:          true,
			ShowPointers:     true,
			ShowExplanations: true,
		},
		Lessons: lesson.Defaults(),
	}
}

// Load reads path on top of the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen address is required")
	}
	if c.History <= 0 {
		return fmt.Errorf("history must be > 0, got %d", c.History)
	}
	if c.MaxSessions < 0 {
		return fmt.Errorf("max_sessions must be >= 0, got %d", c.MaxSessions)
	}
	if c.Heartbeat <= 0 {
		return fmt.Errorf("heartbeat must be > 0, got %s", c.Heartbeat)
	}
	if len(c.Lessons) == 0 {
		return errors.New("at least one lesson is required")
	}
	return c.Lessons.Validate()
}

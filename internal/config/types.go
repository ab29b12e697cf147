// Package config loads pickup's configuration: an embedded default file
// overlaid with an optional user file.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the full configuration document.
type File struct {
	App    AppConfig    `yaml:"app" json:"app" toml:"app"`
	Search SearchConfig `yaml:"search" json:"search" toml:"search"`
	UI     UIConfig     `yaml:"ui" json:"ui" toml:"ui"`
}

type AppConfig struct {
	Name string    `yaml:"name" json:"name" toml:"name"`
	Log  LogConfig `yaml:"log" json:"log" toml:"log"`
}

// LogConfig selects the log sink. An empty File discards logs in the TUI.
type LogConfig struct {
	File  string `yaml:"file" json:"file" toml:"file"`
	Level string `yaml:"level" json:"level" toml:"level"`
}

// SearchConfig configures the FTS client and the lookup's timing.
type SearchConfig struct {
	Endpoint string   `yaml:"endpoint" json:"endpoint" toml:"endpoint"`
	Index    string   `yaml:"index" json:"index" toml:"index"`
	Rows     int      `yaml:"rows" json:"rows" toml:"rows"`
	Debounce Duration `yaml:"debounce" json:"debounce" toml:"debounce"`
	Timeout  Duration `yaml:"timeout" json:"timeout" toml:"timeout"`
}

type UIConfig struct {
	Heading     string      `yaml:"heading" json:"heading" toml:"heading"`
	Label       string      `yaml:"label" json:"label" toml:"label"`
	Placeholder string      `yaml:"placeholder" json:"placeholder" toml:"placeholder"`
	MaxWidth    int         `yaml:"max_width" json:"max_width" toml:"max_width"`
	Theme       ThemeConfig `yaml:"theme" json:"theme" toml:"theme"`
}

// ThemeConfig holds colors as ANSI-256 indexes ("24") or hex ("#005f87").
type ThemeConfig struct {
	Heading   string            `yaml:"heading" json:"heading" toml:"heading"`
	Label     string            `yaml:"label" json:"label" toml:"label"`
	Text      string            `yaml:"text" json:"text" toml:"text"`
	Muted     string            `yaml:"muted" json:"muted" toml:"muted"`
	FocusedFG string            `yaml:"focused_fg" json:"focused_fg" toml:"focused_fg"`
	FocusedBG string            `yaml:"focused_bg" json:"focused_bg" toml:"focused_bg"`
	Badges    map[string]string `yaml:"badges" json:"badges" toml:"badges"`
}

// Duration is a time.Duration written as a Go duration string ("700ms").
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("duration: %w", err)
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

const appDir = "pickup"

// DefaultYAML returns a copy of the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default decodes the embedded configuration.
func Default() (File, error) {
	var cfg File
	if len(embeddedDefaultConfig) == 0 {
		return cfg, errors.New("embedded default config is empty")
	}
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults overlaid with the file at path. An empty path
// returns the defaults. Keys absent from the file keep their default value;
// unknown keys are an error.
func Load(path string) (File, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := overlay(&cfg, data); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

func overlay(cfg *File, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ResolvePath returns explicit when set, otherwise $XDG_CONFIG_HOME/pickup/config.yaml
// or ~/.config/pickup/config.yaml if that file exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, appDir, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", appDir, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func validColor(s string) bool {
	if s == "" || hexColor.MatchString(s) {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 255
}

// Validate reports every problem in cfg at once.
func (cfg File) Validate() error {
	var result *multierror.Error

	switch strings.ToLower(cfg.App.Log.Level) {
	case "", "info", "debug":
	default:
		result = multierror.Append(result, fmt.Errorf("app.log.level: %q is not one of info, debug", cfg.App.Log.Level))
	}

	s := cfg.Search
	if !strings.Contains(s.Endpoint, "{query}") {
		result = multierror.Append(result, errors.New("search.endpoint: must contain {query}"))
	}
	probe := strings.NewReplacer("{index}", "x", "{rows}", "1", "{query}", "x").Replace(s.Endpoint)
	if u, err := url.Parse(probe); err != nil {
		result = multierror.Append(result, fmt.Errorf("search.endpoint: %w", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		result = multierror.Append(result, fmt.Errorf("search.endpoint: scheme %q is not http or https", u.Scheme))
	}
	if s.Index == "" {
		result = multierror.Append(result, errors.New("search.index: must not be empty"))
	}
	if s.Rows < 1 || s.Rows > 50 {
		result = multierror.Append(result, fmt.Errorf("search.rows: %d is outside 1..50", s.Rows))
	}
	if s.Debounce < 0 {
		result = multierror.Append(result, fmt.Errorf("search.debounce: %s is negative", s.Debounce))
	}
	if s.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("search.timeout: %s must be positive", s.Timeout))
	}

	if cfg.UI.MaxWidth < 0 {
		result = multierror.Append(result, fmt.Errorf("ui.max_width: %d is negative", cfg.UI.MaxWidth))
	}
	th := cfg.UI.Theme
	for _, c := range []struct{ name, value string }{
		{"heading", th.Heading},
		{"label", th.Label},
		{"text", th.Text},
		{"muted", th.Muted},
		{"focused_fg", th.FocusedFG},
		{"focused_bg", th.FocusedBG},
	} {
		if !validColor(c.value) {
			result = multierror.Append(result, fmt.Errorf("ui.theme.%s: invalid color %q", c.name, c.value))
		}
	}
	codes := make([]string, 0, len(th.Badges))
	for code := range th.Badges {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if !validColor(th.Badges[code]) {
			result = multierror.Append(result, fmt.Errorf("ui.theme.badges.%s: invalid color %q", code, th.Badges[code]))
		}
	}

	return result.ErrorOrNil()
}

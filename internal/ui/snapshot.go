package ui

import (
	"context"
	"strings"
)

// SnapshotConfig configures a one-frame render.
type SnapshotConfig struct {
	Config
	Width     int
	Height    int
	StartKeys []string
}

// RenderSnapshot renders one frame of the search box after applying
// StartKeys. Debouncing is disabled and searches run synchronously, so the
// frame shows the results of the typed text.
func RenderSnapshot(ctx context.Context, cfg SnapshotConfig) string {
	cfg.Lookup.Debounce = 0
	m := NewModel(ctx, cfg.Config)
	m.Lookup.Debouncer().SetDelay(0)

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	m.resize(width, height)
	m.Lookup.Focus()

	ApplyStartupKeys(m, cfg.StartKeys)

	view := m.Render()
	if cfg.Height > 0 {
		view = padSnapshotHeight(view, cfg.Height, width)
	}
	return view
}

func padSnapshotHeight(view string, height, width int) string {
	if height <= 0 {
		return view
	}
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) >= height {
		return strings.Join(lines, "\n")
	}
	padLine := " "
	if width > 1 {
		padLine = strings.Repeat(" ", width)
	}
	for len(lines) < height {
		lines = append(lines, padLine)
	}
	return strings.Join(lines, "\n")
}

package ui

import (
	"context"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"

	"github.com/oakwood-commons/pickup/internal/place"
)

// RunOptions configures an interactive session.
type RunOptions struct {
	Config
	// Width/height of 0 auto-detect the terminal size (falling back to defaults).
	Width     int
	Height    int
	StartKeys []string
}

// RunModel starts the Bubble Tea program and blocks until it exits. It
// returns the confirmed selection, if any. Extra ProgramOptions (e.g.,
// custom IO) are passed to tea.NewProgram.
func RunModel(ctx context.Context, ro RunOptions, opts ...tea.ProgramOption) (place.Record, bool, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	m := NewModel(ctx, ro.Config)

	if ro.Width > 0 || ro.Height > 0 {
		runW, runH := ro.Width, ro.Height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = defaultWidth
		}
		if runH <= 0 {
			runH = defaultHeight
		}
		m.resize(runW, runH)
		opts = append(opts, tea.WithWindowSize(runW, runH))
	}

	if len(ro.StartKeys) > 0 {
		m.Lookup.Focus()
		ApplyStartupKeys(m, ro.StartKeys)
		if m.Quitting {
			rec, chosen := m.Choice()
			return rec, chosen, nil
		}
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	prog := tea.NewProgram(m, opts...)
	finalModel, err := prog.Run()
	if err != nil {
		return place.Record{}, false, err
	}
	if fm, ok := finalModel.(*Model); ok && fm != nil {
		rec, chosen := fm.Choice()
		return rec, chosen, nil
	}
	return place.Record{}, false, nil
}

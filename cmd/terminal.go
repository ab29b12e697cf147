package cmd

import (
	"bufio"
	"context"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

const (
	defaultFallbackTermWidth = 80
	ttyPollInterval          = 250 * time.Millisecond
	// maxSeedQuery bounds how much of piped stdin is read as the initial query.
	maxSeedQuery = 256
)

// Swappable for tests.
var (
	stdinIsPiped    = func() bool { return isPipe(os.Stdin) }
	stdoutIsPiped   = func() bool { return isPipe(os.Stdout) }
	openTTYFn       = openTTY
	termGetSize     = term.GetSize
	newResizeTicker = func(d time.Duration) resizeTicker { return realResizeTicker{Ticker: time.NewTicker(d)} }
	sendWindowSize  = func(p *tea.Program, msg tea.WindowSizeMsg) { p.Send(msg) }
)

func isPipe(f *os.File) bool {
	stat, err := f.Stat()
	return err == nil && stat.Mode()&os.ModeCharDevice == 0
}

// readSeedQuery returns the first non-blank line of r, trimmed. It is how
// `echo Manchester | pickup` starts the lookup with a query already typed.
func readSeedQuery(r io.Reader) string {
	sc := bufio.NewScanner(io.LimitReader(r, 64*1024))
	sc.Buffer(make([]byte, 0, maxSeedQuery), 64*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if runes := []rune(line); len(runes) > maxSeedQuery {
			line = string(runes[:maxSeedQuery])
		}
		return line
	}
	return ""
}

// tty is the controlling terminal, opened when stdin is busy carrying data.
type tty struct {
	in, out *os.File
}

func (t tty) Close() {
	if t.in != nil {
		_ = t.in.Close()
	}
	if t.out != nil && t.out != t.in {
		_ = t.out.Close()
	}
}

func ttyDeviceNames(goos string) (in, out string) {
	if goos == "windows" {
		return "CONIN$", "CONOUT$"
	}
	return "/dev/tty", "/dev/tty"
}

func openTTY() (tty, error) {
	inName, outName := ttyDeviceNames(runtime.GOOS)
	in, err := os.OpenFile(inName, os.O_RDWR, 0)
	if err != nil {
		return tty{}, err
	}
	if outName == inName {
		return tty{in: in, out: in}, nil
	}
	out, err := os.OpenFile(outName, os.O_RDWR, 0)
	if err != nil {
		_ = in.Close()
		return tty{}, err
	}
	return tty{in: in, out: out}, nil
}

// getProgramOptions attaches the program to the controlling terminal when
// stdin is piped. Without a terminal the program keeps its defaults. The
// returned func releases the terminal and stops the resize watcher.
func getProgramOptions(ctx context.Context) ([]tea.ProgramOption, func()) {
	if !stdinIsPiped() {
		return nil, func() {}
	}
	t, err := openTTYFn()
	if err != nil {
		return nil, func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	opts := []tea.ProgramOption{
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
		withTTYResizeWatcher(ctx, t.out),
	}
	return opts, func() {
		cancel()
		t.Close()
	}
}

type resizeTicker interface {
	C() <-chan time.Time
	Stop()
}

type realResizeTicker struct {
	*time.Ticker
}

func (t realResizeTicker) C() <-chan time.Time { return t.Ticker.C }

// withTTYResizeWatcher polls the terminal size, since resize signals are not
// delivered for a terminal the program opened itself. Only changes are sent.
func withTTYResizeWatcher(ctx context.Context, out *os.File) tea.ProgramOption {
	return func(p *tea.Program) {
		if out == nil {
			return
		}
		go func() {
			ticker := newResizeTicker(ttyPollInterval)
			defer ticker.Stop()

			var last tea.WindowSizeMsg
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C():
				}
				w, h, err := termGetSize(int(out.Fd()))
				if err != nil {
					continue
				}
				if size := (tea.WindowSizeMsg{Width: w, Height: h}); size != last {
					last = size
					sendWindowSize(p, size)
				}
			}
		}()
	}
}

// detectTerminalSize tries stdout, stderr and stdin, then $COLUMNS, then
// falls back to 80 columns. A zero height means unknown.
func detectTerminalSize() (width, height int) {
	for _, f := range []*os.File{os.Stdout, os.Stderr, os.Stdin} {
		if w, h, err := termGetSize(int(f.Fd())); err == nil && w > 0 {
			return w, h
		}
	}
	if w, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && w > 0 {
		return w, 0
	}
	return defaultFallbackTermWidth, 0
}

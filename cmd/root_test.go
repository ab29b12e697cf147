package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/pickup/internal/config"
	"github.com/oakwood-commons/pickup/internal/formatter"
	"github.com/oakwood-commons/pickup/internal/place"
	"github.com/oakwood-commons/pickup/pkg/settings"
)

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Value.Type() != "stringArray" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

func resetRootCmdState() {
	startKeys = nil
	for _, fs := range []*pflag.FlagSet{
		rootCmd.PersistentFlags(),
		rootCmd.Flags(),
		searchCmd.Flags(),
		configGetCmd.Flags(),
	} {
		resetFlags(fs)
	}
	rootCmd.SetArgs(nil)
}

// runCLI executes the root command with args in an isolated config home and
// returns what it wrote to stdout. Stdin is treated as a terminal.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWithStdin(t, nil, args...)
}

// runCLIWithStdin is runCLI with stdin piped from in when in is non-nil.
func runCLIWithStdin(t *testing.T, in io.Reader, args ...string) (string, error) {
	t.Helper()
	resetRootCmdState()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	origPiped := stdinIsPiped
	stdinIsPiped = func() bool { return in != nil }

	var buf bytes.Buffer
	rootCmd.SetIn(in)
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		stdinIsPiped = origPiped
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

// ftsServer serves the recorded lookup fixture and remembers request queries.
type ftsServer struct {
	*httptest.Server
	mu      sync.Mutex
	queries []string
	status  int
}

func newFTSServer(t *testing.T) *ftsServer {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("..", "internal", "fts", "testdata", "lookup.json"))
	require.NoError(t, err)

	s := &ftsServer{status: http.StatusOK}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.queries = append(s.queries, r.URL.RawQuery)
		status := s.status
		s.mu.Unlock()
		w.WriteHeader(status)
		if status == http.StatusOK {
			_, _ = w.Write(body)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *ftsServer) endpoint() string {
	return s.URL + "/lookup?idx={index}&rows={rows}&q={query}"
}

func (s *ftsServer) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pickup "))
	assert.Contains(t, out, "commit")
}

func TestSearchTable(t *testing.T) {
	srv := newFTSServer(t)
	out, err := runCLI(t, "search", "Man", "--endpoint", srv.endpoint(), "--no-color")
	require.NoError(t, err)

	assert.Equal(t, []string{"idx=fts_en&rows=6&q=Man"}, srv.Queries())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "TYPE")
	assert.Contains(t, lines[0], "BOOKING ID")
	assert.Contains(t, lines[2], "Manchester Airport")
	assert.Contains(t, lines[2], "MAN")
	assert.Contains(t, lines[5], "Ronaldsway Airport")
}

func TestSearchFlagsOverrideConfig(t *testing.T) {
	srv := newFTSServer(t)
	_, err := runCLI(t, "search", "Man", "City", "--endpoint", srv.endpoint(), "--index", "fts_de", "--rows", "3", "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"idx=fts_de&rows=3&q=Man%20City"}, srv.Queries())
}

func TestSearchJSON(t *testing.T) {
	srv := newFTSServer(t)
	out, err := runCLI(t, "search", "Man", "--endpoint", srv.endpoint(), "-o", "json")
	require.NoError(t, err)

	var doc formatter.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Man", doc.Query)
	assert.Equal(t, 4, doc.Found)
	require.Len(t, doc.Results, 4)
	assert.Equal(t, "airport-38566", string(doc.Results[0].BookingID))
}

func TestSearchLimitsRecords(t *testing.T) {
	srv := newFTSServer(t)

	tests := []struct {
		name  string
		args  []string
		names []string
	}{
		{"limit", []string{"--limit", "2"}, []string{"Manchester Airport", "Manchester"}},
		{"offset", []string{"--offset", "3"}, []string{"Ronaldsway Airport"}},
		{"tail", []string{"--tail", "1"}, []string{"Ronaldsway Airport"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"search", "Man", "--endpoint", srv.endpoint(), "-o", "json"}, tt.args...)
			out, err := runCLI(t, args...)
			require.NoError(t, err)
			var doc formatter.Document
			require.NoError(t, json.Unmarshal([]byte(out), &doc))
			got := make([]string, 0, len(doc.Results))
			for _, r := range doc.Results {
				got = append(got, r.Name)
			}
			assert.Equal(t, tt.names, got)
		})
	}
}

func TestSearchOutputs(t *testing.T) {
	srv := newFTSServer(t)

	tests := []struct {
		format   string
		contains []string
	}{
		{"yaml", []string{"query: Man", "- name: Manchester Airport"}},
		{"toml", []string{"query = 'Man'", "[[results]]"}},
		{"list", []string{"1.", "display:", "Ronaldsway Airport (IOM), Isle of Man"}},
		{"html", []string{`<ul id="rcLookupDropdownList" role="listbox"`, `<li id="item-0" role="option" tabindex="-1" aria-selected="true"`, "<mark>Man</mark>"}},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := runCLI(t, "search", "Man", "--endpoint", srv.endpoint(), "--no-color", "-o", tt.format)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestSearchSelect(t *testing.T) {
	srv := newFTSServer(t)

	out, err := runCLI(t, "search", "Man", "--endpoint", srv.endpoint(), "--select", "4")
	require.NoError(t, err)
	assert.Equal(t, "Ronaldsway Airport (IOM), Isle of Man\n", out)

	out, err = runCLI(t, "search", "Man", "--endpoint", srv.endpoint(), "--select", "1")
	require.NoError(t, err)
	assert.Equal(t, "Manchester Airport (MAN), Greater Manchester, United Kingdom\n", out)

	_, err = runCLI(t, "search", "Man", "--endpoint", srv.endpoint(), "--select", "9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestSearchErrors(t *testing.T) {
	srv := newFTSServer(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"short query", []string{"search", "M"}, "too short"},
		{"limit and tail", []string{"search", "Man", "--limit", "1", "--tail", "1"}, "mutually exclusive"},
		{"unknown format", []string{"search", "Man", "-o", "csv"}, "unknown output format"},
		{"invalid rows", []string{"search", "Man", "--rows", "0"}, "search.rows"},
		{"bad endpoint", []string{"search", "Man", "--endpoint", "ftp://x/{query}"}, "scheme"},
		{"missing query", []string{"search"}, "requires at least 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--endpoint", srv.endpoint())
			if tt.name == "bad endpoint" {
				args = tt.args
			}
			_, err := runCLI(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
	assert.Empty(t, srv.Queries(), "no request is sent for invalid input")
}

func TestSearchSurfacesStatusErrors(t *testing.T) {
	srv := newFTSServer(t)
	srv.mu.Lock()
	srv.status = http.StatusBadGateway
	srv.mu.Unlock()
	_, err := runCLI(t, "search", "Man", "--endpoint", srv.endpoint())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestSnapshot(t *testing.T) {
	srv := newFTSServer(t)
	out, err := runCLI(t, "--endpoint", srv.endpoint(), "--snapshot", "--no-color", "--width", "70", "--press", "Man<Down>")
	require.NoError(t, err)

	assert.Contains(t, out, "Let's find your ideal car")
	assert.Contains(t, out, "Pick-up location")
	assert.Contains(t, out, "> [City]")
	assert.Contains(t, out, "Ronaldsway Airport (IOM)")
	assert.Equal(t, []string{"idx=fts_en&rows=6&q=Man"}, srv.Queries())
}

func TestSnapshotSeedsQueryFromStdin(t *testing.T) {
	srv := newFTSServer(t)
	out, err := runCLIWithStdin(t, strings.NewReader("\nMan\n"), "--endpoint", srv.endpoint(), "--snapshot", "--no-color", "--width", "70", "--press", "<Down>")
	require.NoError(t, err)

	assert.Contains(t, out, "> [City]")
	assert.Equal(t, []string{"idx=fts_en&rows=6&q=Man"}, srv.Queries())
}

func TestSnapshotUsesConfigStrings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ui:\n  heading: Where to?\n  label: From\n"), 0o600))

	out, err := runCLI(t, "--config-file", path, "--snapshot", "--no-color", "--width", "60")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Where to?\n\nFrom\n"))
}

func TestRootRejectsUnknownConfigKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  nope: 1\n"), 0o600))
	_, err := runCLI(t, "config", "get", "--config-file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestConfigGet(t *testing.T) {
	out, err := runCLI(t, "config", "get")
	require.NoError(t, err)
	assert.Contains(t, out, "index: fts_en")
	assert.Contains(t, out, "debounce: 700ms")

	out, err = runCLI(t, "config", "get", "-o", "json", "--index", "fts_fr")
	require.NoError(t, err)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	search := cfg["search"].(map[string]any)
	assert.Equal(t, "fts_fr", search["index"])
	assert.Equal(t, "10s", search["timeout"])
}

func TestConfigPath(t *testing.T) {
	out, err := runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "built-in defaults")

	path := filepath.Join(t.TempDir(), "mine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  rows: 4\n"), 0o600))
	out, err = runCLI(t, "config", "path", "--config-file", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	_, err = runCLI(t, "config", "path", "--config-file", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "an explicit config file must exist")
}

func TestConfigDefault(t *testing.T) {
	out, err := runCLI(t, "config", "default")
	require.NoError(t, err)
	assert.Equal(t, string(config.DefaultYAML()), out)
}

func TestPickRow(t *testing.T) {
	recs := []place.Record{{Name: "Douglas"}, {Name: "Ronaldsway Airport"}}
	tests := []struct {
		n       int
		want    string
		wantErr bool
	}{
		{0, "", true},
		{1, "Douglas", false},
		{2, "Ronaldsway Airport", false},
		{3, "", true},
	}
	for _, tt := range tests {
		rec, err := pickRow(recs, tt.n)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, rec.Name)
	}
}

func TestOwnsTerminal(t *testing.T) {
	t.Cleanup(func() { renderSnapshot = false })

	tests := []struct {
		name     string
		cmd      *cobra.Command
		snapshot bool
		want     bool
	}{
		{name: "root", cmd: rootCmd, want: true},
		{name: "root snapshot", cmd: rootCmd, snapshot: true, want: false},
		{name: "search", cmd: searchCmd, want: false},
		{name: "config get", cmd: configGetCmd, want: false},
		{name: "version", cmd: versionCmd, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			renderSnapshot = tt.snapshot
			assert.Equal(t, tt.want, ownsTerminal(tt.cmd))
		})
	}
}

func TestNonInteractiveRunsRecordSettings(t *testing.T) {
	srv := newFTSServer(t)
	_, err := runCLI(t, "--endpoint", srv.endpoint(), "--snapshot", "--no-color", "--width", "40")
	require.NoError(t, err)

	run, ok := settings.FromContext(rootCtx)
	require.True(t, ok)
	assert.False(t, run.Interactive)
	assert.True(t, run.NoColor)
}

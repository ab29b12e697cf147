package cmd

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/pickup/internal/config"
	"github.com/oakwood-commons/pickup/internal/fts"
	"github.com/oakwood-commons/pickup/internal/ui"
	"github.com/oakwood-commons/pickup/internal/ui/lookup"
	"github.com/oakwood-commons/pickup/pkg/logger"
	"github.com/oakwood-commons/pickup/pkg/settings"
)

var (
	configFile     string
	endpoint       string
	index          string
	rows           int
	debounce       time.Duration
	timeout        time.Duration
	noColor        bool
	debug          bool
	logFile        string
	renderSnapshot bool
	startKeys      []string
	snapshotWidth  int
	snapshotHeight int
)

// Prepared by prepareRun before any command body runs.
var (
	rootCtx = context.Background()
	runCfg  config.File
	logSink io.Closer
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "Find a car rental pick-up location",
	Long: "pickup is a terminal lookup for car rental pick-up locations.\n\n" +
		"Type a city, airport, station, region or district; matching places are\n" +
		"fetched as you type. Move with the arrow keys, select with Enter, and\n" +
		"press Enter again to print the chosen location and exit. Piped stdin\n" +
		"supplies the initial query.",
	Example: "  pickup\n" +
		"  pickup --press 'Manchester<Down><CR>' --snapshot --no-color\n" +
		"  echo Manchester | pickup\n" +
		"  pickup search Man -o json\n" +
		"  pickup search Man --select 2\n",
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepareRun,
	PersistentPostRun: func(_ *cobra.Command, _ []string) { closeLogSink() },
	RunE:              runInteractive,
}

// prepareRun loads and validates configuration, applies flag overrides and
// sets up the logger for the command about to run.
func prepareRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runCfg = cfg

	params := settings.NewRun()
	params.NoColor = noColor
	params.Piped = stdoutIsPiped()
	params.Interactive = ownsTerminal(cmd)
	params.LogFile = logFile
	if params.LogFile == "" {
		params.LogFile = cfg.App.Log.File
	}
	// Map debug to zap.DebugLevel (-1), else zap.InfoLevel (0).
	if debug || strings.EqualFold(cfg.App.Log.Level, "debug") {
		params.MinLogLevel = -1
	}

	lgr, err := setupLogger(params)
	if err != nil {
		return err
	}
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	rootCtx = settings.IntoContext(logger.WithLogger(parent, lgr), params)
	return nil
}

// ownsTerminal reports whether cmd runs the full-screen lookup: the root
// command without --snapshot.
func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() && !renderSnapshot
}

// setupLogger picks the sink: the log file when one is configured, nothing
// while the TUI owns the terminal, stderr otherwise.
func setupLogger(params *settings.Run) (*logr.Logger, error) {
	opts := logger.Options{Level: params.MinLogLevel}
	switch {
	case params.LogFile != "":
		f, err := logger.OpenFile(params.LogFile)
		if err != nil {
			return nil, err
		}
		logSink = f
		opts.Output = f
	case params.Interactive:
		opts.Discard = true
	}
	return logger.Setup(opts), nil
}

func closeLogSink() {
	logger.Sync()
	if logSink != nil {
		_ = logSink.Close()
		logSink = nil
	}
}

// loadConfig merges the embedded defaults, the user file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.File, error) {
	cfg, err := config.Load(config.ResolvePath(configFile))
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Search.Endpoint = endpoint
	}
	if flags.Changed("index") {
		cfg.Search.Index = index
	}
	if flags.Changed("rows") {
		cfg.Search.Rows = rows
	}
	if flags.Changed("timeout") {
		cfg.Search.Timeout = config.Duration(timeout)
	}
	if flags.Changed("debounce") {
		cfg.Search.Debounce = config.Duration(debounce)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newSearcher(cfg config.File) fts.Searcher {
	return fts.NewClient(fts.Options{
		Endpoint: cfg.Search.Endpoint,
		Index:    cfg.Search.Index,
		Rows:     cfg.Search.Rows,
	})
}

// uiConfig builds the search box configuration from the merged config.
func uiConfig(cfg config.File, searcher fts.Searcher, run *settings.Run) ui.Config {
	th := ui.ThemeFromConfig(cfg.UI.Theme)
	return ui.Config{
		Lookup: lookup.Config{
			Searcher:    searcher,
			Debounce:    cfg.Search.Debounce.Std(),
			Timeout:     cfg.Search.Timeout.Std(),
			Placeholder: cfg.UI.Placeholder,
		},
		Heading:  cfg.UI.Heading,
		Label:    cfg.UI.Label,
		MaxWidth: cfg.UI.MaxWidth,
		NoColor:  run != nil && run.NoColor,
		Theme:    &th,
	}
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	run, _ := settings.FromContext(rootCtx)
	uiCfg := uiConfig(runCfg, newSearcher(runCfg), run)

	keys := startKeys
	if stdinIsPiped() {
		if seed := readSeedQuery(cmd.InOrStdin()); seed != "" {
			keys = append([]string{`\` + seed}, startKeys...)
		}
	}

	if renderSnapshot {
		width := snapshotWidth
		if width <= 0 {
			width, _ = detectTerminalSize()
		}
		out := ui.RenderSnapshot(rootCtx, ui.SnapshotConfig{
			Config:    uiCfg,
			Width:     width,
			Height:    snapshotHeight,
			StartKeys: keys,
		})
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}

	opts, cleanup := getProgramOptions(rootCtx)
	defer cleanup()

	rec, chosen, err := ui.RunModel(rootCtx, ui.RunOptions{
		Config:    uiCfg,
		Width:     snapshotWidth,
		Height:    snapshotHeight,
		StartKeys: keys,
	}, opts...)
	if err != nil {
		return fmt.Errorf("run interactive lookup: %w", err)
	}
	if chosen {
		fmt.Fprintln(cmd.OutOrStdout(), rec.DisplayText())
	}
	return nil
}

// cliVersionString builds the version line for `pickup version` and --version.
func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print pickup version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return nil
	},
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/pickup/config.yaml)")
	pf.StringVar(&endpoint, "endpoint", "", "search endpoint template with {index}, {rows} and {query} placeholders")
	pf.StringVar(&index, "index", "", "search index (default from config: fts_en)")
	pf.IntVar(&rows, "rows", 0, "maximum number of results per search (default from config: 6)")
	pf.DurationVar(&timeout, "timeout", 0, "per-request timeout (default from config: 10s)")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.BoolVar(&debug, "debug", false, "log at debug level")
	pf.StringVar(&logFile, "log-file", "", "append JSON logs to this file")

	rootCmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet time before a search is sent (default from config: 700ms)")
	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "render a single TUI frame and exit; honors --width/--height")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "simulate keys on startup. Use <Key> for special keys (e.g. <Down>, <Up>, <CR>, <Esc>, <Tab>). Literal text types normally. Example: --press 'Man<Down><CR>'")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "screen width in columns (default: terminal width)")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "screen height in rows (default: terminal height)")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

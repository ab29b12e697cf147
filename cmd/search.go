package cmd

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/pickup/internal/formatter"
	"github.com/oakwood-commons/pickup/internal/limiter"
	"github.com/oakwood-commons/pickup/internal/place"
	"github.com/oakwood-commons/pickup/internal/ui"
	"github.com/oakwood-commons/pickup/internal/ui/lookup"
	"github.com/oakwood-commons/pickup/pkg/logger"
	"github.com/oakwood-commons/pickup/pkg/settings"
)

var (
	searchOutput  string
	arrayStyle    string
	limitRecords  int
	offsetRecords int
	tailRecords   int
	selectRow     int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one search and print the matching places",
	Long: "Run one search against the location endpoint and print the results.\n\n" +
		"Arguments are joined with spaces into the query. With --select N the\n" +
		"text a selection of row N would write into the lookup is printed instead.",
	Example: "  pickup search Manchester\n" +
		"  pickup search Man -o yaml --limit 2\n" +
		"  pickup search Man --select 1\n",
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	if utf8.RuneCountInString(query) < lookup.MinQueryLength {
		return fmt.Errorf("query %q is too short: need at least %d characters", query, lookup.MinQueryLength)
	}
	format, err := formatter.ParseFormat(searchOutput)
	if err != nil {
		return err
	}
	lim := limiter.Config{Limit: limitRecords, Offset: offsetRecords, Tail: tailRecords}
	if err := lim.Validate(); err != nil {
		return fmt.Errorf("record limiting: %w", err)
	}

	ctx, cancel := context.WithTimeout(rootCtx, runCfg.Search.Timeout.Std())
	defer cancel()
	resp, err := newSearcher(runCfg).Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}
	docs := limiter.Apply(lim, resp.Docs)
	logger.FromContext(rootCtx).V(1).Info("search finished", logger.QueryKey, query, "found", resp.NumFound, "shown", len(docs))

	out := cmd.OutOrStdout()
	if cmd.Flags().Changed("select") {
		rec, err := pickRow(docs, selectRow)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rec.DisplayText())
		return nil
	}

	run, _ := settings.FromContext(rootCtx)
	plain := run.Plain()
	switch format {
	case formatter.FormatTable:
		if len(docs) == 0 {
			fmt.Fprintln(out, "no matching locations")
			return nil
		}
		ui.SetTableTheme(ui.ThemeFromConfig(runCfg.UI.Theme))
		fmt.Fprint(out, formatter.RenderColumnarTable(formatter.PlaceColumns, formatter.PlaceTable(docs), formatter.ColumnarOptions{
			NoColor:        plain,
			RowNumberStyle: arrayStyle,
		}))
	case formatter.FormatList:
		ui.SetTableTheme(ui.ThemeFromConfig(runCfg.UI.Theme))
		fmt.Fprint(out, formatter.FormatAsList(formatter.PlaceEntries(docs), formatter.ListOptions{
			NoColor:    plain,
			ArrayStyle: arrayStyle,
		}))
	case formatter.FormatHTML:
		html, err := lookup.RenderHTML(lookup.DefaultListboxID, lookup.Render(docs, 0, query), len(docs) > 0)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, html)
	default:
		data, err := formatter.Encode(format, formatter.Document{Query: query, Found: resp.NumFound, Results: docs})
		if err != nil {
			return err
		}
		_, _ = out.Write(data)
	}
	return nil
}

// pickRow returns row n (1-based, as numbered in table output).
func pickRow(docs []place.Record, n int) (place.Record, error) {
	if n < 1 || n > len(docs) {
		return place.Record{}, fmt.Errorf("--select %d is out of range: %d result(s)", n, len(docs))
	}
	return docs[n-1], nil
}

func init() { //nolint:gochecknoinits
	names := make([]string, len(formatter.Formats))
	for i, f := range formatter.Formats {
		names[i] = string(f)
	}
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", string(formatter.FormatTable), "output format: "+strings.Join(names, "|"))
	searchCmd.Flags().StringVar(&arrayStyle, "array-style", "numbered", "row numbering for table and list output: numbered, index, none")
	searchCmd.Flags().IntVar(&limitRecords, "limit", 0, "limit the number of records shown")
	searchCmd.Flags().IntVar(&offsetRecords, "offset", 0, "skip the first N records")
	searchCmd.Flags().IntVar(&tailRecords, "tail", 0, "show the last N records (mutually exclusive with --limit; ignores --offset)")
	searchCmd.Flags().IntVar(&selectRow, "select", 0, "print the selection text of row N (1-based) instead of the results")
}

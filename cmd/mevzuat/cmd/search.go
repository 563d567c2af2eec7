package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mevzuat/arama/internal/search"
)

type searchOptions struct {
	limit           int
	mode            string
	docTypes        []string
	includeRepealed bool
	format          string
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search legal documents",
		Long: `Search runs the full hybrid pipeline: the query is expanded with
legal synonyms and abbreviations, executed against FTS5 and the vector
index, and the two result sets are fused into one ranked list.`,
		Example: `  mevzuat search "işten çıkarma tazminat"
  mevzuat search --mode keyword --type kanun "TCK 125"
  mevzuat search --limit 5 --format json "kira sözleşmesi feshi"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, root, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum number of results (default: from config)")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "", "search mode: keyword, semantic, or mixed (default: mixed)")
	cmd.Flags().StringSliceVarP(&opts.docTypes, "type", "t", nil, "restrict to document types (kanun, yönetmelik, ...)")
	cmd.Flags().BoolVar(&opts.includeRepealed, "include-repealed", false, "include repealed articles")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format: text or json")

	return cmd
}

func runSearch(cmd *cobra.Command, root *rootOptions, opts *searchOptions, query string) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", opts.format)
	}

	a, err := openApp(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer a.close()

	results, err := a.engine.Search(cmd.Context(), query, search.Options{
		Modality:        search.Modality(opts.mode),
		DocumentTypes:   opts.docTypes,
		IncludeRepealed: opts.includeRepealed,
		Limit:           opts.limit,
	})
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	printResults(cmd, query, results)
	return nil
}

func printResults(cmd *cobra.Command, query string, results []search.Result) {
	out := cmd.OutOrStdout()

	if len(results) == 0 {
		fmt.Fprintf(out, "No results for %q.\n", query)
		return
	}

	fmt.Fprintf(out, "%d result(s) for %q:\n\n", len(results), query)
	for i, r := range results {
		title := r.DocumentTitle
		if r.ArticleNumber != "" {
			title += ", madde " + r.ArticleNumber
		}
		fmt.Fprintf(out, "%2d. %s\n", i+1, title)
		fmt.Fprintf(out, "    score=%.3f  match=%s  type=%s", r.Score, r.MatchType, r.DocumentType)
		if r.LawNumber != "" {
			fmt.Fprintf(out, "  no=%s", r.LawNumber)
		}
		if r.IsRepealed {
			fmt.Fprint(out, "  [mülga]")
		}
		fmt.Fprintln(out)
		for _, h := range r.Highlights {
			fmt.Fprintf(out, "    … %s …\n", stripMarks(h))
		}
		fmt.Fprintln(out)
	}
}

// stripMarks removes highlight markup for plain-terminal output.
func stripMarks(s string) string {
	s = strings.ReplaceAll(s, "<mark>", "")
	return strings.ReplaceAll(s, "</mark>", "")
}

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// statsOutput is the combined store and engine statistics report.
type statsOutput struct {
	Documents       int    `json:"documents"`
	Articles        int    `json:"articles"`
	Searches        int    `json:"searches"`
	IndexSize       int    `json:"index_size"`
	SemanticEnabled bool   `json:"semantic_enabled"`
	EmbeddingModel  string `json:"embedding_model"`
	CacheEntries    int    `json:"cache_entries"`
}

func newStatsCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database and index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, root, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")

	return cmd
}

func runStats(cmd *cobra.Command, root *rootOptions, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}

	a, err := openApp(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer a.close()

	storeStats, err := a.store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	engineStats := a.engine.Stats()

	report := statsOutput{
		Documents:       storeStats.DocumentCount,
		Articles:        storeStats.ArticleCount,
		Searches:        storeStats.SearchCount,
		IndexSize:       engineStats.IndexSize,
		SemanticEnabled: engineStats.SemanticEnabled,
		EmbeddingModel:  engineStats.EmbeddingModel,
		CacheEntries:    engineStats.CacheEntries,
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(out, "Documents:        %d\n", report.Documents)
	fmt.Fprintf(out, "Articles:         %d\n", report.Articles)
	fmt.Fprintf(out, "Searches run:     %d\n", report.Searches)
	fmt.Fprintf(out, "Indexed vectors:  %d\n", report.IndexSize)
	fmt.Fprintf(out, "Semantic search:  %v\n", report.SemanticEnabled)
	fmt.Fprintf(out, "Embedding model:  %s\n", report.EmbeddingModel)
	return nil
}

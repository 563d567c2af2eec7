package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newReindexCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the vector index from the database",
		Long: `Reindex re-embeds every article with cleaned content and replaces the
vector index atomically. Searches keep using the old index until the
new one is ready.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReindex(cmd, root)
		},
	}
}

func runReindex(cmd *cobra.Command, root *rootOptions) error {
	a, err := openApp(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Rebuilding vector index...")

	result, err := a.manager.Rebuild(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Indexed %d article(s) in %s", result.Indexed, result.Duration.Round(time.Millisecond))
	if result.Skipped > 0 {
		fmt.Fprintf(out, " (%d skipped)", result.Skipped)
	}
	fmt.Fprintln(out)

	// The swap already happened; a persist failure only affects the next start.
	if result.Err != nil {
		fmt.Fprintf(out, "Warning: index not persisted: %v\n", result.Err)
	}
	return nil
}

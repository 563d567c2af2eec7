package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSuggestCmd(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Suggest queries matching a prefix",
		Long: `Suggest completes a partial query from recent search history, topped
up with common legal queries when history is thin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, root, args[0], limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of suggestions")

	return cmd
}

func runSuggest(cmd *cobra.Command, root *rootOptions, prefix string, limit int) error {
	a, err := openApp(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer a.close()

	suggestions, err := a.engine.Suggest(cmd.Context(), prefix, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "No suggestions.")
		return nil
	}
	for _, s := range suggestions {
		fmt.Fprintln(out, s)
	}
	return nil
}

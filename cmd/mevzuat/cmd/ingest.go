package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mevzuat/arama/internal/store"
)

// ingestDocument is the JSON shape the ingest command consumes: one
// document and its articles, as produced by the PDF extraction pipeline.
type ingestDocument struct {
	Title        string          `json:"title"`
	LawNumber    string          `json:"law_number"`
	DocumentType string          `json:"document_type"`
	Articles     []ingestArticle `json:"articles"`
}

type ingestArticle struct {
	ArticleNumber string `json:"article_number"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	ContentClean  string `json:"content_clean"`
	IsRepealed    bool   `json:"is_repealed"`
	IsAmended     bool   `json:"is_amended"`
}

type ingestOptions struct {
	skipEmbed bool
}

func newIngestCmd(root *rootOptions) *cobra.Command {
	opts := &ingestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest <file.json>...",
		Short: "Load documents into the search database",
		Long: `Ingest reads extracted documents from JSON files, stores them with
their articles, and appends their embeddings to the vector index so
they are searchable immediately.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, root, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.skipEmbed, "skip-embed", false, "store articles without updating the vector index")

	return cmd
}

func runIngest(cmd *cobra.Command, root *rootOptions, opts *ingestOptions, paths []string) error {
	a, err := openApp(cmd.Context(), root)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	for _, path := range paths {
		doc, err := readIngestFile(path)
		if err != nil {
			return err
		}

		docID, err := a.store.SaveDocument(ctx, &store.Document{
			Title:        doc.Title,
			LawNumber:    doc.LawNumber,
			DocumentType: doc.DocumentType,
		})
		if err != nil {
			return fmt.Errorf("save document %q: %w", doc.Title, err)
		}

		articles := make([]*store.Article, len(doc.Articles))
		for i, src := range doc.Articles {
			articles[i] = &store.Article{
				DocumentID:    docID,
				ArticleNumber: src.ArticleNumber,
				Title:         src.Title,
				Content:       src.Content,
				ContentClean:  src.ContentClean,
				SeqIndex:      i,
				IsRepealed:    src.IsRepealed,
				IsAmended:     src.IsAmended,
			}
		}
		if err := a.store.SaveArticles(ctx, articles); err != nil {
			return fmt.Errorf("save articles of %q: %w", doc.Title, err)
		}

		if !opts.skipEmbed {
			// SaveArticles filled in the IDs; embed what has cleaned content.
			var sources []*store.EmbedSource
			for _, art := range articles {
				if strings.TrimSpace(art.ContentClean) == "" {
					continue
				}
				sources = append(sources, &store.EmbedSource{
					ArticleID: art.ID,
					Content:   art.ContentClean,
				})
			}
			if err := a.manager.Append(ctx, sources); err != nil {
				return fmt.Errorf("index articles of %q: %w", doc.Title, err)
			}
		}

		fmt.Fprintf(out, "Ingested %q: %d article(s)\n", doc.Title, len(articles))
	}

	return nil
}

func readIngestFile(path string) (*ingestDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc ingestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if strings.TrimSpace(doc.Title) == "" {
		return nil, fmt.Errorf("%s: document title is required", path)
	}
	if len(doc.Articles) == 0 {
		return nil, fmt.Errorf("%s: document has no articles", path)
	}
	return &doc, nil
}

package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mevzuat/arama/internal/search"
)

// execCLI runs the root command with the given args and returns stdout.
func execCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// writeTestCorpus writes an ingest file with a couple of criminal-law articles.
func writeTestCorpus(t *testing.T, dir string) string {
	t.Helper()

	doc := map[string]any{
		"title":         "Türk Ceza Kanunu",
		"law_number":    "5237",
		"document_type": "kanun",
		"articles": []map[string]any{
			{
				"article_number": "1",
				"title":          "Amaç",
				"content":        "Ceza Kanununun amacı kişi hak ve özgürlüklerini korumaktır.",
				"content_clean":  "ceza kanununun amacı kişi hak ve özgürlüklerini korumaktır",
			},
			{
				"article_number": "2",
				"title":          "Suçta kanunilik",
				"content":        "Kanunun açıkça suç saymadığı bir fiil için kimseye ceza verilemez.",
				"content_clean":  "kanunun açıkça suç saymadığı bir fiil için kimseye ceza verilemez",
			},
		},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(dir, "tck.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func testArgs(dataDir string, args ...string) []string {
	base := []string{
		"--data-dir", dataDir,
		"--config", filepath.Join(dataDir, "config.yaml"),
		"--log-level", "error",
	}
	return append(args, base...)
}

func writeTestConfig(t *testing.T, dataDir string) {
	t.Helper()
	cfgYAML := "embeddings:\n  provider: static\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(cfgYAML), 0o644))
}

func TestCLI_IngestSearchStats(t *testing.T) {
	dataDir := t.TempDir()
	writeTestConfig(t, dataDir)
	corpus := writeTestCorpus(t, dataDir)

	out, err := execCLI(t, testArgs(dataDir, "ingest", corpus)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Türk Ceza Kanunu")
	assert.Contains(t, out, "2 article(s)")

	out, err = execCLI(t, testArgs(dataDir, "search", "--format", "json", "ceza")...)
	require.NoError(t, err)

	var results []search.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "Türk Ceza Kanunu", results[0].DocumentTitle)
	assert.Positive(t, results[0].Score)

	out, err = execCLI(t, testArgs(dataDir, "stats", "--format", "json")...)
	require.NoError(t, err)

	var stats statsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 2, stats.Articles)
	assert.Equal(t, 2, stats.IndexSize, "ingest appends embeddings to the index")
	assert.Positive(t, stats.Searches)
}

func TestCLI_ReindexReportsCounts(t *testing.T) {
	dataDir := t.TempDir()
	writeTestConfig(t, dataDir)
	corpus := writeTestCorpus(t, dataDir)

	_, err := execCLI(t, testArgs(dataDir, "ingest", "--skip-embed", corpus)...)
	require.NoError(t, err)

	out, err := execCLI(t, testArgs(dataDir, "reindex")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Indexed 2 article(s)")
}

func TestCLI_SearchTextOutput(t *testing.T) {
	dataDir := t.TempDir()
	writeTestConfig(t, dataDir)
	corpus := writeTestCorpus(t, dataDir)

	_, err := execCLI(t, testArgs(dataDir, "ingest", corpus)...)
	require.NoError(t, err)

	out, err := execCLI(t, testArgs(dataDir, "search", "--mode", "keyword", "ceza")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Türk Ceza Kanunu")
	assert.NotContains(t, out, "<mark>", "terminal output strips highlight markup")
}

func TestCLI_SearchUnknownFormatRejected(t *testing.T) {
	dataDir := t.TempDir()
	writeTestConfig(t, dataDir)

	_, err := execCLI(t, testArgs(dataDir, "search", "--format", "xml", "ceza")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestCLI_IngestRejectsEmptyDocument(t *testing.T) {
	dataDir := t.TempDir()
	writeTestConfig(t, dataDir)

	path := filepath.Join(dataDir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"Boş Kanun","articles":[]}`), 0o644))

	_, err := execCLI(t, testArgs(dataDir, "ingest", path)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no articles")
}

func TestCLI_VersionJSON(t *testing.T) {
	out, err := execCLI(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
}

// Command mevzuat is a hybrid search engine for Turkish legal documents.
package main

import (
	"os"

	"github.com/mevzuat/arama/cmd/mevzuat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

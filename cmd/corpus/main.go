// Command corpus manages the document-exploration data layer: it syncs
// the content tables between environments, applies schema conversions,
// and answers semantic queries.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

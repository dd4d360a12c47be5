package main

import (
	"os"

	toolbeltcmder "github.com/papercomputeco/toolbelt/cmd/toolbelt"
)

func main() {
	cmd := toolbeltcmder.NewToolbeltCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

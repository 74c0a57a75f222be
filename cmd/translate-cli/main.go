package main

import (
	"os"

	"github.com/lexiflow/translation-platform/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}

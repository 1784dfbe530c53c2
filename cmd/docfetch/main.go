package main

import (
	"fmt"
	"os"

	"github.com/kbukum/docclient/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "docfetch:", err)
		os.Exit(1)
	}
}

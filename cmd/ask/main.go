package main

import (
	"context"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		color.Red("Fatal: %s", err)
		os.Exit(1)
	}
}

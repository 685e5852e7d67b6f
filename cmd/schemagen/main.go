package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/schemagen/cmd/schemagen/commands"
	"github.com/teranos/schemagen/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, pterm.Error.Sprint(err))
		os.Exit(1)
	}
}

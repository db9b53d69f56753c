// Command nib is the terminal entry point: it parses flags and the
// optional PATH[:LINE[:COL]] argument, loads configuration, and hands
// off to the app package's event loop.
package main

import (
	"fmt"
	"os"

	"github.com/corvidae/nib/internal/app"
	"github.com/corvidae/nib/internal/cliposition"
	"github.com/corvidae/nib/internal/config"
	"github.com/corvidae/nib/internal/logger"
)

func main() {
	var flags config.Flags
	args := flags.ParseFlags()

	if flags.Version != nil && *flags.Version {
		fmt.Println("nib " + config.Version)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(valueOrEmpty(flags.ConfigFilePath), &flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nib: loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logger)
	logger.EnableFilterDebug(flags.DebugLog != nil && *flags.DebugLog)
	logger.Infof("Starting nib...")

	var pos cliposition.Position
	if len(args) > 0 {
		pos = cliposition.Parse(args[0])
		logger.Infof("File path specified: %s", pos.Path)
	} else {
		logger.Infof("No file specified, starting empty.")
	}

	editor, err := app.New(pos.Path, pos.Line, pos.Col, cfg)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		os.Exit(1)
	}

	if err := editor.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}

	logger.Infof("nib finished.")
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

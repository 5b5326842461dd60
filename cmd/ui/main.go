// Command ui serves the collected artifacts and the rendered report
// over HTTP.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"entrolab/adapters/export"
	"entrolab/internal/config"
	"entrolab/internal/logging"
	"entrolab/ui"
)

func main() {
	// A missing .env just means the system environment is used as-is.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	addr := flag.String("addr", ":"+cfg.Server.Port, "listen address")
	dir := flag.String("out", cfg.Data.Dir, "artifact directory to serve")
	level := flag.String("log-level", cfg.Logging.Level, "log level: debug|info|warn|error")
	flag.Parse()

	logger := logging.Setup(*level)

	store, err := export.NewStore(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := ui.NewApp(store, logger, ui.Config{Addr: *addr})
	if err := app.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

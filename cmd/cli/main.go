// Command cli drives the ecosystem entropy pipeline from the terminal.
// Each subcommand runs one analysis stage and persists its artifact
// under --out; later stages load earlier artifacts from the same
// directory, so collection stages run before the analyses that consume
// them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"entrolab/adapters/export"
	"entrolab/adapters/github"
	"entrolab/adapters/npmreg"
	"entrolab/adapters/stackexchange"
	"entrolab/internal/config"
	"entrolab/internal/logging"
)

var (
	cfg      *config.Config
	outDir   string
	logLevel string
	logger   *slog.Logger
)

func main() {
	// A missing .env just means the system environment is used as-is.
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:   "entrolab",
		Short: "Ecosystem entropy measurement and lead-lag analysis",
		Long: `entrolab measures the Chao-Shen entropy of secondary-label
distributions across developer ecosystems (GitHub topics, npm keywords,
Stack Overflow co-tags) and runs the lead-lag regression suite, event
studies and difference-in-differences analyses on the collected panels.

Stages persist JSON artifacts under --out and later stages read their
inputs from there: run sweep/timeseries/downloads/events/cotags before
causal/did/bootstrap, and report last. The pipeline command runs
everything in order.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.Setup(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&outDir, "out", cfg.Data.Dir, "Directory artifacts are written to")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", cfg.Logging.Level, "Log level: debug|info|warn|error")

	rootCmd.AddCommand(
		newSweepCmd(),
		newTimeseriesCmd(),
		newDownloadsCmd(),
		newEventsCmd(),
		newCausalCmd(),
		newDiDCmd(),
		newCoTagsCmd(),
		newBootstrapCmd(),
		newSimulateCmd(),
		newReportCmd(),
		newPipelineCmd(),
		newExportCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openStore opens the artifact store rooted at --out.
func openStore() (*export.Store, error) {
	store, err := export.NewStore(outDir)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}
	return store, nil
}

func githubClient(token string) *github.Client {
	return github.New(github.Options{
		Token:    token,
		BaseURL:  cfg.GitHub.BaseURL,
		MaxPages: cfg.GitHub.MaxPages,
		Timeout:  cfg.GitHub.Timeout,
		Pause:    cfg.GitHub.Pause,
	})
}

func npmClient() *npmreg.Client {
	return npmreg.New(npmreg.Options{
		RegistryURL:  cfg.Npm.RegistryURL,
		DownloadsURL: cfg.Npm.DownloadsURL,
		Timeout:      cfg.Npm.Timeout,
	})
}

func stackexchangeClient() *stackexchange.Client {
	return stackexchange.New(stackexchange.Options{
		BaseURL: cfg.StackExchange.BaseURL,
		Site:    cfg.StackExchange.Site,
		Timeout: cfg.StackExchange.Timeout,
	})
}

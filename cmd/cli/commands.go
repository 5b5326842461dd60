package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"entrolab/adapters/export"
	"entrolab/app"
	"entrolab/domain/core"
	"entrolab/internal/randx"
	"entrolab/ports"
)

func newSweepCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Measure cross-sectional label entropy for every roster ecosystem",
		Long: `Collect the topic distribution of every GitHub ecosystem and the
keyword distribution of every npm ecosystem on the sweep roster, then
estimate plugin and Chao-Shen entropy for each.

Example: entrolab sweep --github-token $GITHUB_TOKEN`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), token)
		},
	}

	cmd.Flags().StringVar(&token, "github-token", cfg.GitHub.Token, "GitHub API token (raises the search rate limit)")

	return cmd
}

func runSweep(ctx context.Context, token string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	svc := app.NewSweepService(githubClient(token), npmClient(), store, logger)
	result, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("\n=== CROSS-SECTIONAL ENTROPY ===\n")
	fmt.Printf("%-16s %9s %8s %8s %6s\n", "ecosystem", "H_plugin", "H_cs", "S_eff", "N")
	for _, row := range result.GitHub {
		fmt.Printf("%-16s %9.3f %8.3f %8.1f %6d\n", row.Key, row.HPlugin, row.HCS, row.SEff, row.NUnits)
	}
	for _, row := range result.Npm {
		fmt.Printf("%-16s %9.3f %8.3f %8.1f %6d\n", row.Key, row.HPlugin, row.HCS, row.SEff, row.NUnits)
	}

	fmt.Printf("\n✅ sweep complete: %d GitHub + %d npm ecosystems\n", len(result.GitHub), len(result.Npm))
	return nil
}

func newTimeseriesCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "timeseries",
		Short: "Collect the annual entropy panels for every platform pair",
		Long: `Measure annual topic entropy for each series of the mobile,
blockchain and frontend panels and derive the within-pair entropy gap
that the lead-lag suite regresses on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeseries(cmd.Context(), token)
		},
	}

	cmd.Flags().StringVar(&token, "github-token", cfg.GitHub.Token, "GitHub API token (raises the search rate limit)")

	return cmd
}

func runTimeseries(ctx context.Context, token string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	svc := app.NewTimeseriesService(githubClient(token), store, logger)
	result, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("timeseries failed: %w", err)
	}

	fmt.Printf("\n=== ANNUAL ENTROPY PANELS ===\n")
	for _, p := range result.Panels {
		fmt.Printf("%-12s %s - %s  years %d..%d  final gap %+.3f\n",
			p.Name, p.GapA, p.GapB, p.Years[0], p.Years[len(p.Years)-1], p.Gap[len(p.Gap)-1])
	}

	fmt.Printf("\n✅ timeseries complete: %d panels\n", len(result.Panels))
	return nil
}

func newDownloadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "downloads",
		Short: "Collect annual npm download totals and the frontend share table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownloads(cmd.Context())
		},
	}
	return cmd
}

func runDownloads(ctx context.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	svc := app.NewDownloadsService(npmClient(), store, logger)
	result, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("downloads failed: %w", err)
	}

	fmt.Printf("\n=== NPM DOWNLOAD SHARE ===\n")
	for _, row := range result.Share {
		fmt.Printf("%d  react %5.1f%%  vs-angular %5.1f%%  total %d\n",
			row.Year, row.ReactShare*100, row.ReactShareVsAngular*100, row.Total)
	}

	fmt.Printf("\n✅ downloads complete: %d years\n", len(result.Share))
	return nil
}

func newEventsCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Run the monthly event studies around the roster events",
		Long: `Collect monthly entropy windows around each roster event and fit
the discontinuity regression to the treated series and its placebo or
control counterpart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(cmd.Context(), token)
		},
	}

	cmd.Flags().StringVar(&token, "github-token", cfg.GitHub.Token, "GitHub API token (raises the search rate limit)")

	return cmd
}

func runEvents(ctx context.Context, token string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	svc := app.NewEventStudyService(githubClient(token), store, logger)
	result, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("event study failed: %w", err)
	}

	for _, study := range result.Studies {
		fmt.Printf("\n=== EVENT STUDY: %s (event %s) ===\n", study.Name, study.Event)
		for _, s := range study.Series {
			if s.Fit == nil {
				fmt.Printf("%-12s [%s] fit failed: %s\n", s.Series.Name, s.Role, s.FitError)
				continue
			}
			post, _ := s.Fit.Coef("post")
			fmt.Printf("%-12s [%s] post %+.4f%s (t=%+.2f)  F=%.1f  N=%d\n",
				s.Series.Name, s.Role, post.Beta, export.Stars(post.T), post.T, s.FirstStageF, s.Fit.N)
		}
	}

	fmt.Printf("\n✅ event studies complete: %d windows\n", len(result.Studies))
	return nil
}

func newCausalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "causal",
		Short: "Run the lead-lag regression suite on the collected panels",
		Long: `Estimate the forward, AR(1)-augmented and reverse lead-lag
specifications between the frontend entropy gap and the npm download
share, plus the mobile cross-check and the Spearman rank checks.

Needs the timeseries and downloads artifacts in --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCausal(cmd.Context())
		},
	}
	return cmd
}

func runCausal(ctx context.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	suite, err := app.NewCausalService(store, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("regression suite failed: %w", err)
	}

	fmt.Printf("\n=== LEAD-LAG REGRESSION SUITE ===\n")
	fmt.Println(export.SimpleLine("forward  dH(t) -> share(t+1)", suite.Forward))
	fmt.Println(export.SimpleLine("reverse  share(t) -> H(t+1)", suite.ReverseLevel))
	fmt.Println(export.SimpleLine("reverse  share(t) -> dH(t+1)", suite.ReverseChange))
	fmt.Println(export.SimpleLine("mobile   dH vs android share", suite.Mobile.Fit))
	fmt.Println()
	fmt.Println(export.FitTable("AR(1)-augmented forward specification", suite.AR1))
	fmt.Printf("partialled dH coefficient: %.6f\n", suite.PartialBeta)
	fmt.Printf("spearman forward rho=%+.3f p=%.4f; placebo rho=%+.3f p=%.4f\n",
		suite.Spearman.Forward.Rho, suite.Spearman.Forward.P,
		suite.Spearman.Placebo.Rho, suite.Spearman.Placebo.P)

	fmt.Printf("\n✅ regression suite complete: %d lead-lag windows\n", len(suite.Data.Years))
	return nil
}

func newDiDCmd() *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "did",
		Short: "Run the sector stacked difference-in-differences study",
		Long: `Collect monthly entropy for the treated and control sectors around
the event window and fit the stacked DiD specification, once at the
real event and once at the placebo anchor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiD(cmd.Context(), token)
		},
	}

	cmd.Flags().StringVar(&token, "github-token", cfg.GitHub.Token, "GitHub API token (raises the search rate limit)")

	return cmd
}

func runDiD(ctx context.Context, token string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	result, err := app.NewSectorDiDService(githubClient(token), store, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("sector DiD failed: %w", err)
	}

	title := fmt.Sprintf("%s vs %s stacked DiD (event %s)", result.Treated.Name, result.Control.Name, result.Event)
	fmt.Println()
	fmt.Println(export.FitTable(title, result.Fit))
	if c, ok := result.PlaceboFit.Coef("group_post"); ok {
		fmt.Printf("placebo (%s) group_post %+.4f%s (t=%+.2f)\n", result.Placebo, c.Beta, export.Stars(c.T), c.T)
	}

	fmt.Printf("\n✅ sector DiD complete: N=%d\n", result.Fit.N)
	return nil
}

func newCoTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cotags",
		Short: "Measure Stack Overflow co-tag entropy for the roster tags",
		Long: `Collect the related-tag distribution of each roster tag from the
Stack Exchange API, estimate its Chao-Shen entropy and compare the
within-pair ranking against the GitHub reference values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCoTags(cmd.Context())
		},
	}
	return cmd
}

func runCoTags(ctx context.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	svc := app.NewCoTagsService(stackexchangeClient(), store, logger)
	result, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("cotags failed: %w", err)
	}

	fmt.Printf("\n=== STACK OVERFLOW CO-TAG ENTROPY ===\n")
	for _, row := range result.Comparison {
		fmt.Printf("%-10s github %6.3f  so %6.3f\n", row.Tag, row.GitHubHCS, row.SOHCS)
	}
	for _, agr := range result.Agreement {
		verdict := "disagree"
		if agr.Agrees {
			verdict = "agree"
		}
		fmt.Printf("%-24s github=%s so=%s (%s)\n", agr.Pair, agr.GitHubWinner, agr.SOWinner, verdict)
	}

	fmt.Printf("\n✅ cotags complete: %d tags\n", len(result.Platforms))
	return nil
}

func newBootstrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Band every annual panel cell with a bootstrap confidence interval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(cmd.Context())
		},
	}
	return cmd
}

func runBootstrap(ctx context.Context) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	result, err := app.NewBootstrapService(store, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	cells := 0
	for _, p := range result.Panels {
		for _, s := range p.Series {
			cells += len(s.Cells)
		}
	}

	fmt.Printf("✅ bootstrap complete: %d panels, %d intervals\n", len(result.Panels), cells)
	return nil
}

func newSimulateCmd() *cobra.Command {
	var treatedSeed, placeboSeed uint64

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Fit the discontinuity model on synthetic series with a planted break",
		Long: `Generate a treated series with a known post-event level break and a
placebo series without one, fit the discontinuity specification to
both and persist the recovered coefficients. Seeded streams make runs
reproducible.

Example: entrolab simulate --treated-seed 42 --placebo-seed 123`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), treatedSeed, placeboSeed)
		},
	}

	cmd.Flags().Uint64Var(&treatedSeed, "treated-seed", cfg.Data.Seed, "Seed for the treated series stream")
	cmd.Flags().Uint64Var(&placeboSeed, "placebo-seed", app.DefaultPlaceboSeed, "Seed for the placebo series stream")

	return cmd
}

func runSimulate(ctx context.Context, treatedSeed, placeboSeed uint64) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	svc := app.NewSimulationService(lcgStreams, store, logger)
	svc.TreatedSeed = treatedSeed
	svc.PlaceboSeed = placeboSeed

	result, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Printf("\n=== SIMULATED EVENT STUDY ===\n")
	for _, series := range []*app.SimulatedSeries{&result.Treated, &result.Placebo} {
		post, _ := series.Fit.Coef("post")
		fmt.Printf("%-8s seed=%-4d break %+.4f%s  F=%.1f  R²=%.3f\n",
			series.Name, series.Seed, post.Beta, export.Stars(post.T), series.FirstStageF, series.Fit.R2)
	}

	fmt.Printf("\n✅ simulation complete\n")
	return nil
}

func newReportCmd() *cobra.Command {
	var print bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the markdown report from the stored artifacts",
		Long: `Assemble the analysis report from whatever artifacts exist in --out.
Missing stages are skipped, so a partial pipeline still yields a
partial report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), print)
		},
	}

	cmd.Flags().BoolVar(&print, "print", false, "Print the rendered markdown to stdout")

	return cmd
}

func runReport(ctx context.Context, print bool) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	doc, err := app.NewReportService(store, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if print {
		fmt.Println(doc.Markdown)
		return nil
	}

	fmt.Printf("✅ report complete: %d sections (%s)\n", len(doc.Sections), strings.Join(doc.Sections, ", "))
	return nil
}

func newPipelineCmd() *cobra.Command {
	var token string
	var treatedSeed, placeboSeed uint64

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run every stage in dependency order and write the run manifest",
		Long: `Run the collection stages, the analyses that consume their
artifacts and the report renderer back to back against the same --out
directory, then write manifest.json covering the whole run.

Equivalent to running each stage command in sequence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), token, treatedSeed, placeboSeed)
		},
	}

	cmd.Flags().StringVar(&token, "github-token", cfg.GitHub.Token, "GitHub API token (raises the search rate limit)")
	cmd.Flags().Uint64Var(&treatedSeed, "treated-seed", cfg.Data.Seed, "Seed for the simulated treated series")
	cmd.Flags().Uint64Var(&placeboSeed, "placebo-seed", app.DefaultPlaceboSeed, "Seed for the simulated placebo series")

	return cmd
}

func runPipeline(ctx context.Context, token string, treatedSeed, placeboSeed uint64) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	gh := githubClient(token)
	npm := npmClient()
	so := stackexchangeClient()

	simulation := app.NewSimulationService(lcgStreams, store, logger)
	simulation.TreatedSeed = treatedSeed
	simulation.PlaceboSeed = placeboSeed

	stages := []struct {
		name string
		run  func(context.Context) error
	}{
		{"sweep", func(ctx context.Context) error {
			_, err := app.NewSweepService(gh, npm, store, logger).Run(ctx)
			return err
		}},
		{"timeseries", func(ctx context.Context) error {
			_, err := app.NewTimeseriesService(gh, store, logger).Run(ctx)
			return err
		}},
		{"downloads", func(ctx context.Context) error {
			_, err := app.NewDownloadsService(npm, store, logger).Run(ctx)
			return err
		}},
		{"events", func(ctx context.Context) error {
			_, err := app.NewEventStudyService(gh, store, logger).Run(ctx)
			return err
		}},
		{"cotags", func(ctx context.Context) error {
			_, err := app.NewCoTagsService(so, store, logger).Run(ctx)
			return err
		}},
		{"causal", func(ctx context.Context) error {
			_, err := app.NewCausalService(store, logger).Run(ctx)
			return err
		}},
		{"did", func(ctx context.Context) error {
			_, err := app.NewSectorDiDService(gh, store, logger).Run(ctx)
			return err
		}},
		{"bootstrap", func(ctx context.Context) error {
			_, err := app.NewBootstrapService(store, logger).Run(ctx)
			return err
		}},
		{"simulate", func(ctx context.Context) error {
			_, err := simulation.Run(ctx)
			return err
		}},
		{"report", func(ctx context.Context) error {
			_, err := app.NewReportService(store, logger).Run(ctx)
			return err
		}},
	}

	for _, stage := range stages {
		fmt.Printf("Running %s stage...\n", stage.name)
		if err := stage.run(ctx); err != nil {
			return fmt.Errorf("%s stage: %w", stage.name, err)
		}
	}

	manifest, err := store.WriteManifest(ctx, core.RunID(core.NewID()))
	if err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	fmt.Printf("\n✅ pipeline complete: %d artifacts in %s\n", len(manifest.Artifacts), store.Dir())
	return nil
}

// lcgStreams is the production stream factory: one deterministic
// generator per seed.
func lcgStreams(seed uint64) ports.RNG {
	return randx.New(seed)
}

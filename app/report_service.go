package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"entrolab/adapters/export"
	"entrolab/domain/core"
	"entrolab/ports"
)

// ReportDoc is the rendered research report artifact payload.
type ReportDoc struct {
	Markdown    string         `json:"markdown"`
	GeneratedAt core.Timestamp `json:"generated_at"`
	Sections    []string       `json:"sections"`
}

// ReportService renders the markdown research report from whatever
// artifacts the pipeline has produced so far. Missing artifacts skip
// their section, so a partial pipeline still reports.
type ReportService struct {
	store ports.ArtifactStore
	log   *slog.Logger
}

// NewReportService creates a report service.
func NewReportService(store ports.ArtifactStore, log *slog.Logger) *ReportService {
	return &ReportService{store: store, log: log}
}

// loadSection decodes a named artifact into out, reporting absence
// separately from failure.
func loadSection[T any](ctx context.Context, store ports.ArtifactStore, name string, out *T) (bool, error) {
	artifact, err := store.Load(ctx, name)
	if core.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s artifact: %w", name, err)
	}
	if err := DecodeArtifact(artifact, out); err != nil {
		return false, err
	}
	return true, nil
}

// Run renders the report and persists it.
func (s *ReportService) Run(ctx context.Context) (*ReportDoc, error) {
	doc := &ReportDoc{GeneratedAt: core.Now()}
	var b strings.Builder

	fmt.Fprintf(&b, "# Ecosystem Entropy Report\n\nGenerated %s.\n", doc.GeneratedAt)

	type section struct {
		name   string
		render func(context.Context, *strings.Builder) (bool, error)
	}
	sections := []section{
		{SweepArtifact, s.sweepSection},
		{TimeseriesArtifact, s.timeseriesSection},
		{BootstrapArtifact, s.bootstrapSection},
		{EventStudyArtifact, s.eventStudySection},
		{RegressionArtifact, s.regressionSection},
		{SectorDiDArtifact, s.sectorSection},
		{CoTagsArtifact, s.cotagsSection},
		{SimulationArtifact, s.simulationSection},
	}
	for _, sec := range sections {
		ok, err := sec.render(ctx, &b)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.log.Info("report section skipped", "artifact", sec.name)
			continue
		}
		doc.Sections = append(doc.Sections, sec.name)
	}

	doc.Markdown = b.String()
	if err := s.store.Save(ctx, ReportArtifact, newArtifact(core.ArtifactReport, doc)); err != nil {
		return nil, fmt.Errorf("save report artifact: %w", err)
	}
	s.log.Info("report rendered", "sections", len(doc.Sections), "bytes", len(doc.Markdown))
	return doc, nil
}

func (s *ReportService) sweepSection(ctx context.Context, b *strings.Builder) (bool, error) {
	var sweep SweepResult
	ok, err := loadSection(ctx, s.store, SweepArtifact, &sweep)
	if !ok || err != nil {
		return ok, err
	}

	b.WriteString("\n## Cross-sectional sweep\n")
	b.WriteString("\n### GitHub topic ecosystems\n\n")
	b.WriteString("| Ecosystem | Context | Rank | N | H_cs | S_eff |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, row := range sweep.GitHub {
		fmt.Fprintf(b, "| %s | %s | %d | %d | %.3f | %.1f |\n",
			row.Name, row.Context, row.ExpectedRank, row.NUnits, row.HCS, row.SEff)
	}
	b.WriteString("\n### npm keyword ecosystems\n\n")
	b.WriteString("| Ecosystem | Context | N | H_cs | S_eff |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, row := range sweep.Npm {
		fmt.Fprintf(b, "| %s | %s | %d | %.3f | %.1f |\n",
			row.Name, row.Context, row.NUnits, row.HCS, row.SEff)
	}
	return true, nil
}

func (s *ReportService) timeseriesSection(ctx context.Context, b *strings.Builder) (bool, error) {
	var ts TimeseriesResult
	ok, err := loadSection(ctx, s.store, TimeseriesArtifact, &ts)
	if !ok || err != nil {
		return ok, err
	}

	b.WriteString("\n## Annual entropy panels\n")
	for _, p := range ts.Panels {
		fmt.Fprintf(b, "\n### %s: dH = %s - %s\n\n", p.Name, p.GapA, p.GapB)
		b.WriteString("| Year |")
		for _, series := range p.Series {
			fmt.Fprintf(b, " %s |", series.Name)
		}
		b.WriteString(" ΔH |\n|---|")
		for range p.Series {
			b.WriteString("---|")
		}
		b.WriteString("---|\n")
		for i, yr := range p.Years {
			fmt.Fprintf(b, "| %d |", yr)
			for _, series := range p.Series {
				if m, ok := series.At(yr); ok {
					fmt.Fprintf(b, " %.3f |", m.HCS)
				} else {
					b.WriteString(" — |")
				}
			}
			if i < len(p.Gap) {
				fmt.Fprintf(b, " %+.3f |\n", p.Gap[i])
			} else {
				b.WriteString(" — |\n")
			}
		}
	}
	return true, nil
}

func (s *ReportService) bootstrapSection(ctx context.Context, b *strings.Builder) (bool, error) {
	var boot BootstrapResult
	ok, err := loadSection(ctx, s.store, BootstrapArtifact, &boot)
	if !ok || err != nil {
		return ok, err
	}

	b.WriteString("\n## Bootstrap confidence bands\n")
	for _, p := range boot.Panels {
		fmt.Fprintf(b, "\n### %s\n\n", p.Name)
		b.WriteString("| Series | Year | H_cs | 95% CI | N |\n|---|---|---|---|---|\n")
		for _, series := range p.Series {
			for _, c := range series.Cells {
				fmt.Fprintf(b, "| %s | %d | %.3f | [%.3f, %.3f] | %d |\n",
					series.Name, c.Year, c.H, c.Low, c.High, c.N)
			}
		}
	}
	return true, nil
}

func (s *ReportService) eventStudySection(ctx context.Context, b *strings.Builder) (bool, error) {
	var events EventStudyResult
	ok, err := loadSection(ctx, s.store, EventStudyArtifact, &events)
	if !ok || err != nil {
		return ok, err
	}

	b.WriteString("\n## Event studies\n\n")
	b.WriteString("| Study | Series | Role | Break | t | F | N |\n|---|---|---|---|---|---|---|\n")
	for _, study := range events.Studies {
		for _, series := range study.Series {
			if series.Fit == nil {
				fmt.Fprintf(b, "| %s | %s | %s | not estimated: %s | | | |\n",
					study.Name, series.Series.Name, series.Role, series.FitError)
				continue
			}
			post, _ := series.Fit.Coef("post")
			fmt.Fprintf(b, "| %s | %s | %s | %+.4f%s | %.2f | %.1f | %d |\n",
				study.Name, series.Series.Name, series.Role,
				post.Beta, export.Stars(post.T), post.T, series.FirstStageF, series.Fit.N)
		}
	}
	return true, nil
}

func (s *ReportService) regressionSection(ctx context.Context, b *strings.Builder) (bool, error) {
	var suite RegressionSuite
	ok, err := loadSection(ctx, s.store, RegressionArtifact, &suite)
	if !ok || err != nil {
		return ok, err
	}

	b.WriteString("\n## Lead-lag regressions\n\n")
	fmt.Fprintf(b, "- %s\n", export.SimpleLine("forward Δshare ~ ΔH", suite.Forward))
	fmt.Fprintf(b, "- %s\n", export.SimpleLine("reverse ΔH(t+1) ~ share", suite.ReverseLevel))
	fmt.Fprintf(b, "- %s\n", export.SimpleLine("reverse ΔΔH ~ share", suite.ReverseChange))
	fmt.Fprintf(b, "- %s\n", export.SimpleLine("mobile share ~ ΔH", suite.Mobile.Fit))
	fmt.Fprintf(b, "\n```\n%s```\n", export.FitTable("AR(1)-augmented forward specification", suite.AR1))
	fmt.Fprintf(b, "\nPartialled ΔH estimate: %+.6f.\n", suite.PartialBeta)
	fmt.Fprintf(b, "\nSpearman: forward ρ=%+.3f (p=%.3f), placebo ρ=%+.3f (p=%.3f).\n",
		suite.Spearman.Forward.Rho, suite.Spearman.Forward.P,
		suite.Spearman.Placebo.Rho, suite.Spearman.Placebo.P)
	pd := suite.PreDetermination
	fmt.Fprintf(b, "\nPre-determination (%d): ΔH %+.3f with react share %.1f%%.\n",
		suite.Data.Years[0], pd.DeltaH, pd.ReactSharePct)
	return true, nil
}

func (s *ReportService) sectorSection(ctx context.Context, b *strings.Builder) (bool, error) {
	var sector SectorDiDResult
	ok, err := loadSection(ctx, s.store, SectorDiDArtifact, &sector)
	if !ok || err != nil {
		return ok, err
	}

	fmt.Fprintf(b, "\n## Sector difference-in-differences (%s)\n", sector.Name)
	fmt.Fprintf(b, "\n```\n%s```\n", export.FitTable(
		fmt.Sprintf("%s vs %s around %s", sector.Treated.Name, sector.Control.Name, sector.Event), sector.Fit))
	delta, _ := sector.PlaceboFit.Coef("group_post")
	zeta, _ := sector.PlaceboFit.Coef("group_tau_post")
	fmt.Fprintf(b, "\nPlacebo event %s: δ=%+.4f (t=%.2f), ζ=%+.4f (t=%.2f).\n",
		sector.Placebo, delta.Beta, delta.T, zeta.Beta, zeta.T)
	return true, nil
}

func (s *ReportService) cotagsSection(ctx context.Context, b *strings.Builder) (bool, error) {
	var cotags CoTagsResult
	ok, err := loadSection(ctx, s.store, CoTagsArtifact, &cotags)
	if !ok || err != nil {
		return ok, err
	}

	b.WriteString("\n## Stack Overflow co-tag entropy\n\n")
	b.WriteString("| Tag | H_cs (SO) | H_cs (GitHub) | Co-tags | Questions |\n|---|---|---|---|---|\n")
	for _, cmp := range cotags.Comparison {
		row, ok := cotags.Platform(cmp.Tag)
		if !ok {
			continue
		}
		fmt.Fprintf(b, "| %s | %.3f | %.3f | %d | %d |\n",
			cmp.Tag, cmp.SOHCS, cmp.GitHubHCS, row.NCoTags, row.TotalQuestions)
	}
	b.WriteString("\n")
	for _, a := range cotags.Agreement {
		verdict := "agree"
		if !a.Agrees {
			verdict = "disagree"
		}
		fmt.Fprintf(b, "- %s: GitHub ranks %s first, Stack Overflow ranks %s first (%s).\n",
			a.Pair, a.GitHubWinner, a.SOWinner, verdict)
	}
	return true, nil
}

func (s *ReportService) simulationSection(ctx context.Context, b *strings.Builder) (bool, error) {
	var sim SimulationResult
	ok, err := loadSection(ctx, s.store, SimulationArtifact, &sim)
	if !ok || err != nil {
		return ok, err
	}

	b.WriteString("\n## Simulated discontinuity validation\n\n")
	for _, series := range []SimulatedSeries{sim.Treated, sim.Placebo} {
		post, _ := series.Fit.Coef("post")
		fmt.Fprintf(b, "- %s (seed %d): break %+.4f%s, F=%.1f, R²=%.3f.\n",
			series.Name, series.Seed, post.Beta, export.Stars(post.T),
			series.FirstStageF, series.Fit.R2)
	}
	fmt.Fprintf(b, "\nPlanted break %.2f with slope change %.3f.\n", simBreak, simPostSlope-simPreSlope)
	return true, nil
}

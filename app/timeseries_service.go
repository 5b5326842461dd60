package app

import (
	"context"
	"fmt"
	"log/slog"

	"entrolab/adapters/github"
	"entrolab/domain/core"
	"entrolab/domain/ecosystem"
	"entrolab/domain/panel"
	"entrolab/ports"
)

// Top labels kept per annual cell.
const timeseriesTopLabels = 10

// PanelResult is one annual panel's series plus its headline entropy-gap
// table (GapA minus GapB, in year order).
type PanelResult struct {
	Name   string            `json:"name"`
	Years  []int             `json:"years"`
	GapA   core.EcosystemKey `json:"gap_a"`
	GapB   core.EcosystemKey `json:"gap_b"`
	Gap    []float64         `json:"gap"`
	Series []*panel.Series   `json:"series"`
}

// SeriesFor returns the panel series measured for an ecosystem key.
func (p *PanelResult) SeriesFor(key core.EcosystemKey) (*panel.Series, bool) {
	for _, s := range p.Series {
		if s.Name == key.String() {
			return s, true
		}
	}
	return nil, false
}

// TimeseriesResult is the annual panels artifact payload.
type TimeseriesResult struct {
	Panels []PanelResult `json:"panels"`
}

// Panel returns the named panel.
func (r *TimeseriesResult) Panel(name string) (*PanelResult, bool) {
	for i := range r.Panels {
		if r.Panels[i].Name == name {
			return &r.Panels[i], true
		}
	}
	return nil, false
}

// TimeseriesService collects the annual entropy panels: one measurement
// per (panel member, year) over repositories created in that year.
type TimeseriesService struct {
	github ports.TopicSearcher
	store  ports.ArtifactStore
	log    *slog.Logger
}

// NewTimeseriesService creates an annual panel service.
func NewTimeseriesService(github ports.TopicSearcher, store ports.ArtifactStore, log *slog.Logger) *TimeseriesService {
	return &TimeseriesService{github: github, store: store, log: log}
}

// Run collects all three panels and persists the timeseries artifact.
func (s *TimeseriesService) Run(ctx context.Context) (*TimeseriesResult, error) {
	result := &TimeseriesResult{}
	for _, ap := range ecosystem.AnnualPanels() {
		pr, err := s.collectPanel(ctx, ap)
		if err != nil {
			return nil, fmt.Errorf("panel %s: %w", ap.Name, err)
		}
		result.Panels = append(result.Panels, *pr)
	}
	if err := s.store.Save(ctx, TimeseriesArtifact, newArtifact(core.ArtifactTimeseries, result)); err != nil {
		return nil, fmt.Errorf("save timeseries artifact: %w", err)
	}
	return result, nil
}

func (s *TimeseriesService) collectPanel(ctx context.Context, ap ecosystem.AnnualPanel) (*PanelResult, error) {
	pr := &PanelResult{Name: ap.Name, Years: ap.Years, GapA: ap.GapA, GapB: ap.GapB}
	for _, m := range ap.Members {
		series := panel.NewSeries(m.Key.String())
		for _, year := range ap.Years {
			repos, err := s.github.SearchRepos(ctx, github.YearQuery(m.Query, year))
			if err != nil {
				return nil, fmt.Errorf("%s %d: %w", m.Key, year, err)
			}
			meas := measureRepos(repos, m.Exclude, timeseriesTopLabels)
			series.Put(year, meas)
			s.log.Info("annual cell measured",
				"panel", ap.Name, "series", m.Key, "year", year,
				"n", meas.NUnits, "h_cs", meas.HCS)
		}
		pr.Series = append(pr.Series, series)
	}

	a, okA := pr.SeriesFor(ap.GapA)
	b, okB := pr.SeriesFor(ap.GapB)
	if !okA || !okB {
		return nil, fmt.Errorf("gap pair %s/%s: %w", ap.GapA, ap.GapB, core.ErrSeriesNotFound)
	}
	gap, err := a.Gap(b)
	if err != nil {
		return nil, fmt.Errorf("gap table %s-%s: %w", ap.GapA, ap.GapB, err)
	}
	pr.Gap = gap
	return pr, nil
}

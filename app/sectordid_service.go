package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"entrolab/adapters/github"
	"entrolab/adapters/stats/design"
	"entrolab/adapters/stats/ols"
	"entrolab/domain/core"
	"entrolab/domain/ecosystem"
	"entrolab/domain/panel"
	"entrolab/ports"
)

// SectorDiDResult is the stacked two-sector difference-in-differences
// artifact payload. Fit is keyed on the real event, PlaceboFit re-keys
// the same observations on the fake pre-period event; the group_post and
// group_tau_post coefficients carry the level break and slope change.
type SectorDiDResult struct {
	Name       string               `json:"name"`
	Event      panel.Month          `json:"event"`
	Placebo    panel.Month          `json:"placebo_event"`
	Treated    *panel.MonthlySeries `json:"treated"`
	Control    *panel.MonthlySeries `json:"control"`
	Fit        *ols.Fit             `json:"fit"`
	PlaceboFit *ols.Fit             `json:"placebo_fit"`
}

// SectorDiDService runs the within-Ethereum sector study: DeFi/staking
// repositories against wallet/tooling repositories around the Shanghai
// upgrade. Both sectors share the upgrade timing, so market-wide shocks
// difference out of the interaction terms.
type SectorDiDService struct {
	github ports.TopicSearcher
	store  ports.ArtifactStore
	log    *slog.Logger
}

// NewSectorDiDService creates a sector DiD service.
func NewSectorDiDService(github ports.TopicSearcher, store ports.ArtifactStore, log *slog.Logger) *SectorDiDService {
	return &SectorDiDService{github: github, store: store, log: log}
}

// Run collects both sector windows, fits the stacked design on the real
// and the placebo clock, and persists the sector artifact.
func (s *SectorDiDService) Run(ctx context.Context) (*SectorDiDResult, error) {
	study := ecosystem.ShanghaiSectorStudy()
	clock := panel.NewEventClock(study.Anchor)

	treated, err := s.sectorSeries(ctx, study, clock, study.Treated)
	if err != nil {
		return nil, fmt.Errorf("sector %s: %w", study.Treated.Key, err)
	}
	control, err := s.sectorSeries(ctx, study, clock, study.Control)
	if err != nil {
		return nil, fmt.Errorf("sector %s: %w", study.Control.Key, err)
	}

	result := &SectorDiDResult{
		Name:    study.Name,
		Event:   study.Anchor,
		Placebo: study.PlaceboAnchor,
		Treated: treated,
		Control: control,
	}
	if result.Fit, err = fitStacked(treated, control, clock); err != nil {
		return nil, fmt.Errorf("stacked fit: %w", err)
	}
	if result.PlaceboFit, err = fitStacked(treated, control, panel.NewEventClock(study.PlaceboAnchor)); err != nil {
		return nil, fmt.Errorf("placebo fit: %w", err)
	}

	delta, _ := result.Fit.Coef("group_post")
	zeta, _ := result.Fit.Coef("group_tau_post")
	s.log.Info("sector contrast estimated",
		"study", study.Name, "n", result.Fit.N,
		"level_break", delta.Beta, "level_break_t", delta.T,
		"slope_change", zeta.Beta, "slope_change_t", zeta.T)

	if err := s.store.Save(ctx, SectorDiDArtifact, newArtifact(core.ArtifactSectorDiD, result)); err != nil {
		return nil, fmt.Errorf("save sector artifact: %w", err)
	}
	return result, nil
}

func (s *SectorDiDService) sectorSeries(ctx context.Context, study ecosystem.SectorStudy, clock panel.EventClock, m ecosystem.Member) (*panel.MonthlySeries, error) {
	series := panel.NewMonthlySeries(m.Key.String(), clock)
	for _, month := range panel.MonthRange(study.Start, study.Months) {
		repos, err := s.github.SearchRepos(ctx, github.MonthQuery(m.Query, month))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", month, err)
		}
		meas := measureRepos(repos, m.Exclude, 0)
		series.Put(month, meas)
		s.log.Info("sector month measured",
			"sector", m.Key, "month", month, "tau", clock.Tau(month),
			"n", meas.NUnits, "h_cs", meas.HCS)
	}
	return series, nil
}

func fitStacked(treated, control *panel.MonthlySeries, clock panel.EventClock) (*ols.Fit, error) {
	X, y, err := design.StackedDiD(groupObs(treated, clock), groupObs(control, clock), 0)
	if err != nil {
		return nil, err
	}
	return ols.FitOLS(X, y, design.DiDNames())
}

// groupObs re-keys a monthly series on the given clock, mapping
// zero-sample months to missing outcomes so the builder drops them.
func groupObs(series *panel.MonthlySeries, clock panel.EventClock) []design.GroupObs {
	out := make([]design.GroupObs, 0, len(series.Points))
	for _, p := range series.Points {
		y := p.HCS
		if p.NUnits == 0 {
			y = math.NaN()
		}
		out = append(out, design.GroupObs{Tau: clock.Tau(p.Month), Y: y, DateKey: p.Month.Key()})
	}
	return out
}

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

// SeriesStudy is one series' monthly window with its discontinuity fit.
// FirstStageF is the squared t-statistic of the level break, reported on
// the treated series as instrument-strength evidence and on the
// counterpart as a falsification check.
type SeriesStudy struct {
	Role        string               `json:"role"`
	Series      *panel.MonthlySeries `json:"series"`
	Fit         *ols.Fit             `json:"fit,omitempty"`
	FitError    string               `json:"fit_error,omitempty"`
	FirstStageF float64              `json:"first_stage_f,omitempty"`
}

// StudyResult is one event window: the treated series and its placebo or
// control counterpart.
type StudyResult struct {
	Name   string        `json:"name"`
	Event  panel.Month   `json:"event"`
	Series []SeriesStudy `json:"series"`
}

// SeriesNamed returns the study series with the given name.
func (r *StudyResult) SeriesNamed(name string) (*SeriesStudy, bool) {
	for i := range r.Series {
		if r.Series[i].Series != nil && r.Series[i].Series.Name == name {
			return &r.Series[i], true
		}
	}
	return nil, false
}

// EventStudyResult is the monthly event-study artifact payload.
type EventStudyResult struct {
	Studies []StudyResult `json:"studies"`
}

// Study returns the named event study.
func (r *EventStudyResult) Study(name string) (*StudyResult, bool) {
	for i := range r.Studies {
		if r.Studies[i].Name == name {
			return &r.Studies[i], true
		}
	}
	return nil, false
}

// EventStudyService collects monthly entropy windows around the roster
// events and fits the discontinuity regression to each series.
type EventStudyService struct {
	github ports.TopicSearcher
	store  ports.ArtifactStore
	log    *slog.Logger
}

// NewEventStudyService creates an event-study service.
func NewEventStudyService(github ports.TopicSearcher, store ports.ArtifactStore, log *slog.Logger) *EventStudyService {
	return &EventStudyService{github: github, store: store, log: log}
}

// Run collects both event windows and persists the event-study artifact.
// Collection failures abort; estimation failures are recorded on the
// affected series, because a window too thin to fit is a finding, not a
// defect.
func (s *EventStudyService) Run(ctx context.Context) (*EventStudyResult, error) {
	result := &EventStudyResult{}
	for _, study := range ecosystem.EventStudies() {
		sr, err := s.collectStudy(ctx, study)
		if err != nil {
			return nil, fmt.Errorf("event study %s: %w", study.Name, err)
		}
		result.Studies = append(result.Studies, *sr)
	}
	if err := s.store.Save(ctx, EventStudyArtifact, newArtifact(core.ArtifactEventStudy, result)); err != nil {
		return nil, fmt.Errorf("save event-study artifact: %w", err)
	}
	return result, nil
}

func (s *EventStudyService) collectStudy(ctx context.Context, study ecosystem.EventStudy) (*StudyResult, error) {
	clock := panel.NewEventClock(study.Anchor)
	sr := &StudyResult{Name: study.Name, Event: study.Anchor}

	members := []struct {
		role string
		m    ecosystem.Member
	}{
		{"treated", study.Treated},
		{study.ControlRole, study.Control},
	}
	for _, mm := range members {
		series, err := s.monthlySeries(ctx, study, clock, mm.m)
		if err != nil {
			return nil, err
		}
		ss := SeriesStudy{Role: mm.role, Series: series}
		fit, err := fitDiscontinuity(series)
		if err != nil {
			if !core.IsEstimationError(err) {
				return nil, fmt.Errorf("%s fit: %w", mm.m.Key, err)
			}
			ss.FitError = err.Error()
			s.log.Warn("discontinuity fit failed",
				"study", study.Name, "series", mm.m.Key, "err", err)
		} else {
			ss.Fit = fit
			if c, ok := fit.Coef("post"); ok {
				ss.FirstStageF = c.T * c.T
			}
			s.log.Info("discontinuity fitted",
				"study", study.Name, "series", mm.m.Key, "role", mm.role,
				"f_first_stage", ss.FirstStageF, "r2", fit.R2)
		}
		sr.Series = append(sr.Series, ss)
	}
	return sr, nil
}

func (s *EventStudyService) monthlySeries(ctx context.Context, study ecosystem.EventStudy, clock panel.EventClock, m ecosystem.Member) (*panel.MonthlySeries, error) {
	series := panel.NewMonthlySeries(m.Key.String(), clock)
	for _, month := range panel.MonthRange(study.Start, study.Months) {
		repos, err := s.github.SearchRepos(ctx, github.MonthQuery(m.Query, month))
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", m.Key, month, err)
		}
		meas := measureRepos(repos, m.Exclude, 0)
		series.Put(month, meas)
		s.log.Info("monthly cell measured",
			"series", m.Key, "month", month.String(), "tau", clock.Tau(month),
			"n", meas.NUnits, "h_cs", meas.HCS)
	}
	return series, nil
}

// fitDiscontinuity runs the piecewise-linear break regression on a
// monthly series, mapping zero-sample months to missing outcomes.
func fitDiscontinuity(series *panel.MonthlySeries) (*ols.Fit, error) {
	obs := make([]design.Obs, 0, len(series.Points))
	for _, p := range series.Points {
		y := p.HCS
		if p.NUnits == 0 {
			y = math.NaN()
		}
		obs = append(obs, design.Obs{Tau: p.Tau, Y: y})
	}
	X, y, err := design.RDiT(obs, 0)
	if err != nil {
		return nil, err
	}
	return ols.FitOLS(X, y, design.RDiTNames())
}

package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"entrolab/adapters/stats/design"
	"entrolab/adapters/stats/ols"
	"entrolab/adapters/stats/rank"
	"entrolab/domain/core"
	"entrolab/ports"
)

// Tolerance for the Frisch-Waugh cross-check against the full fit.
const partialTolerance = 1e-8

// androidShare is the published Android share of the Android+iOS
// smartphone market in percent (IDC/Statcounter), aligned with the
// odd-year mobile panel.
var androidShare = []float64{55.6, 76.7, 76.6, 79.1, 80.4, 80.0, 80.0}

// LeadLagData is the assembled biennial frame, kept in the artifact so
// the regressions stay auditable against their inputs.
type LeadLagData struct {
	Years  []int     `json:"years"`
	DH     []float64 `json:"dh"`
	Share  []float64 `json:"share_pct"`
	DShare []float64 `json:"dshare_pp"`
	NextDH []float64 `json:"next_dh"`
	DDH    []float64 `json:"ddh"`
}

// MobileCrossSection is the cross-market check: entropy gaps against
// market outcomes in the mobile duopoly.
type MobileCrossSection struct {
	Years        []int          `json:"years"`
	DH           []float64      `json:"dh"`
	AndroidShare []float64      `json:"android_share_pct"`
	Fit          *ols.SimpleFit `json:"fit"`
}

// PreDetermination records the 2014 baseline: the entropy gap predates
// the market-share divergence it is supposed to predict.
type PreDetermination struct {
	ReactHCS      float64 `json:"react_h_cs_2014"`
	AngularHCS    float64 `json:"angular_h_cs_2014"`
	DeltaH        float64 `json:"delta_h_2014"`
	ReactSharePct float64 `json:"react_share_2014_pct"`
}

// SpearmanChecks are the nonparametric counterparts of the forward and
// reverse regressions.
type SpearmanChecks struct {
	Forward *rank.Correlation `json:"forward"`
	Placebo *rank.Correlation `json:"placebo"`
}

// RegressionSuite is the lead-lag regression artifact payload.
type RegressionSuite struct {
	Data    LeadLagData    `json:"data"`
	Forward *ols.SimpleFit `json:"forward"`
	AR1     *ols.Fit       `json:"ar1"`
	// PartialBeta re-estimates the entropy-gap coefficient by the
	// Frisch-Waugh route; it must agree with AR1's within tolerance.
	PartialBeta      float64            `json:"partial_beta"`
	ReverseLevel     *ols.SimpleFit     `json:"reverse_level"`
	ReverseChange    *ols.SimpleFit     `json:"reverse_change"`
	Mobile           MobileCrossSection `json:"mobile"`
	Spearman         SpearmanChecks     `json:"spearman"`
	PreDetermination PreDetermination   `json:"pre_determination"`
}

// CausalService runs the lead-lag regression suite over the timeseries
// and downloads artifacts: the forward specification, its AR(1)-augmented
// variant, both reverse placebos, the mobile cross-section and the rank
// correlations.
type CausalService struct {
	store ports.ArtifactStore
	log   *slog.Logger
}

// NewCausalService creates a causal suite service.
func NewCausalService(store ports.ArtifactStore, log *slog.Logger) *CausalService {
	return &CausalService{store: store, log: log}
}

// Run estimates the whole suite and persists the regression artifact. Any
// estimation failure aborts: these designs are all well posed on intact
// inputs, so a failure means the upstream artifacts are broken.
func (s *CausalService) Run(ctx context.Context) (*RegressionSuite, error) {
	ts, shares, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	frontend, ok := ts.Panel("frontend")
	if !ok {
		return nil, fmt.Errorf("frontend panel: %w", core.ErrSeriesNotFound)
	}
	sharePct, err := shares.VsAngularPercent(frontend.Years)
	if err != nil {
		return nil, fmt.Errorf("frontend share series: %w", err)
	}
	frame, err := design.NewLeadLagFrame(frontend.Gap, sharePct)
	if err != nil {
		return nil, fmt.Errorf("lead-lag frame: %w", err)
	}

	suite := &RegressionSuite{
		Data: LeadLagData{
			Years:  frontend.Years[:frame.N()],
			DH:     frame.DH,
			Share:  frame.Share,
			DShare: frame.DShare,
			NextDH: frame.NextDH,
			DDH:    frame.DDH,
		},
	}

	x, y := frame.Forward()
	if suite.Forward, err = ols.FitSimple(x, y); err != nil {
		return nil, fmt.Errorf("forward fit: %w", err)
	}

	X, yv, err := frame.AR()
	if err != nil {
		return nil, fmt.Errorf("ar frame: %w", err)
	}
	if suite.AR1, err = ols.FitOLS(X, yv, design.ARNames()); err != nil {
		return nil, fmt.Errorf("ar fit: %w", err)
	}
	if suite.PartialBeta, err = ols.FitPartial(X, yv, 1); err != nil {
		return nil, fmt.Errorf("partialled fit: %w", err)
	}
	if dh, ok := suite.AR1.Coef("dH"); ok && math.Abs(dh.Beta-suite.PartialBeta) > partialTolerance {
		s.log.Warn("partialled estimate diverged from the full fit",
			"full", dh.Beta, "partial", suite.PartialBeta)
	}

	x, y = frame.ReverseLevel()
	if suite.ReverseLevel, err = ols.FitSimple(x, y); err != nil {
		return nil, fmt.Errorf("reverse level fit: %w", err)
	}
	x, y = frame.ReverseChange()
	if suite.ReverseChange, err = ols.FitSimple(x, y); err != nil {
		return nil, fmt.Errorf("reverse change fit: %w", err)
	}

	if suite.Mobile, err = mobileCrossSection(ts); err != nil {
		return nil, err
	}

	fx, fy := frame.Forward()
	if suite.Spearman.Forward, err = rank.Spearman(fx, fy); err != nil {
		return nil, fmt.Errorf("forward rank correlation: %w", err)
	}
	px, py := frame.ReverseLevel()
	if suite.Spearman.Placebo, err = rank.Spearman(px, py); err != nil {
		return nil, fmt.Errorf("placebo rank correlation: %w", err)
	}

	if suite.PreDetermination, err = preDetermination(frontend, suite.Data); err != nil {
		return nil, err
	}

	s.log.Info("lead-lag suite estimated",
		"forward_beta", suite.Forward.Beta, "forward_p", suite.Forward.PBeta,
		"reverse_p", suite.ReverseLevel.PBeta,
		"spearman_forward", suite.Spearman.Forward.Rho)

	if err := s.store.Save(ctx, RegressionArtifact, newArtifact(core.ArtifactRegression, suite)); err != nil {
		return nil, fmt.Errorf("save regression artifact: %w", err)
	}
	return suite, nil
}

func (s *CausalService) loadInputs(ctx context.Context) (*TimeseriesResult, *DownloadsResult, error) {
	tsArtifact, err := s.store.Load(ctx, TimeseriesArtifact)
	if err != nil {
		return nil, nil, fmt.Errorf("load timeseries artifact: %w", err)
	}
	var ts TimeseriesResult
	if err := DecodeArtifact(tsArtifact, &ts); err != nil {
		return nil, nil, err
	}

	dlArtifact, err := s.store.Load(ctx, DownloadsArtifact)
	if err != nil {
		return nil, nil, fmt.Errorf("load downloads artifact: %w", err)
	}
	var dl DownloadsResult
	if err := DecodeArtifact(dlArtifact, &dl); err != nil {
		return nil, nil, err
	}
	return &ts, &dl, nil
}

func mobileCrossSection(ts *TimeseriesResult) (MobileCrossSection, error) {
	mobile, ok := ts.Panel("mobile")
	if !ok {
		return MobileCrossSection{}, fmt.Errorf("mobile panel: %w", core.ErrSeriesNotFound)
	}
	if len(mobile.Gap) != len(androidShare) {
		return MobileCrossSection{}, core.NewVectorShapeError("mobile cross-section", len(mobile.Gap), len(androidShare))
	}
	fit, err := ols.FitSimple(mobile.Gap, androidShare)
	if err != nil {
		return MobileCrossSection{}, fmt.Errorf("mobile fit: %w", err)
	}
	return MobileCrossSection{
		Years:        mobile.Years,
		DH:           mobile.Gap,
		AndroidShare: androidShare,
		Fit:          fit,
	}, nil
}

func preDetermination(frontend *PanelResult, data LeadLagData) (PreDetermination, error) {
	react, okR := frontend.SeriesFor(frontend.GapA)
	angular, okA := frontend.SeriesFor(frontend.GapB)
	if !okR || !okA {
		return PreDetermination{}, fmt.Errorf("frontend pair: %w", core.ErrSeriesNotFound)
	}
	base := frontend.Years[0]
	r, okR := react.At(base)
	a, okA := angular.At(base)
	if !okR || !okA {
		return PreDetermination{}, fmt.Errorf("baseline year %d: %w", base, core.ErrSeriesNotFound)
	}
	return PreDetermination{
		ReactHCS:      r.HCS,
		AngularHCS:    a.HCS,
		DeltaH:        r.HCS - a.HCS,
		ReactSharePct: data.Share[0],
	}, nil
}

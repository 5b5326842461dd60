package app

import (
	"context"
	"fmt"
	"log/slog"

	"entrolab/domain/core"
	"entrolab/domain/ecosystem"
	"entrolab/ports"
)

// ShareRow is one year of the frontend download-share table. The angular
// total sums the legacy package and the scoped core package; shares are
// fractions in [0,1], zero when the denominator is empty.
type ShareRow struct {
	Year         int   `json:"year"`
	React        int64 `json:"react"`
	AngularJS    int64 `json:"angularjs"`
	AngularCore  int64 `json:"angular_core"`
	Vue          int64 `json:"vue"`
	Svelte       int64 `json:"svelte"`
	AngularTotal int64 `json:"angular_total"`
	Total        int64 `json:"total"`
	// ReactShare measures react against the whole field;
	// ReactShareVsAngular restricts the denominator to the pair.
	ReactShare          float64 `json:"react_share"`
	ReactShareVsAngular float64 `json:"react_share_vs_angular"`
}

// DownloadsResult is the npm market-share artifact payload.
type DownloadsResult struct {
	Share []ShareRow `json:"annual_share"`
}

// Row returns the share row for a year.
func (r *DownloadsResult) Row(year int) (ShareRow, bool) {
	for _, row := range r.Share {
		if row.Year == year {
			return row, true
		}
	}
	return ShareRow{}, false
}

// VsAngularPercent returns the react-vs-angular share in percent for the
// given years, the market-share series of the lead-lag suite.
func (r *DownloadsResult) VsAngularPercent(years []int) ([]float64, error) {
	out := make([]float64, len(years))
	for i, yr := range years {
		row, ok := r.Row(yr)
		if !ok {
			return nil, fmt.Errorf("share year %d: %w", yr, core.ErrSeriesNotFound)
		}
		out[i] = row.ReactShareVsAngular * 100
	}
	return out, nil
}

// DownloadsService collects annual npm download totals for the frontend
// packages and derives the market-share table.
type DownloadsService struct {
	npm   ports.DownloadsReader
	store ports.ArtifactStore
	log   *slog.Logger
}

// NewDownloadsService creates a downloads service.
func NewDownloadsService(npm ports.DownloadsReader, store ports.ArtifactStore, log *slog.Logger) *DownloadsService {
	return &DownloadsService{npm: npm, store: store, log: log}
}

// Run collects every (package, year) total and persists the share table.
// A failed lookup counts as zero downloads with a warning; the downloads
// API predates some packages' first release, and a hole in one cell
// should not sink the whole table.
func (s *DownloadsService) Run(ctx context.Context) (*DownloadsResult, error) {
	packages := ecosystem.DownloadPackages()
	years := ecosystem.DownloadYears()

	totals := make(map[string]map[int]int64, len(packages))
	for _, pkg := range packages {
		totals[pkg] = make(map[int]int64, len(years))
		for _, yr := range years {
			count, err := s.npm.AnnualDownloads(ctx, pkg, yr)
			if err != nil {
				s.log.Warn("downloads lookup failed",
					"package", pkg, "year", yr, "err", err)
				count = 0
			}
			totals[pkg][yr] = count
			s.log.Info("annual downloads", "package", pkg, "year", yr, "count", count)
		}
	}

	result := &DownloadsResult{Share: make([]ShareRow, 0, len(years))}
	for _, yr := range years {
		result.Share = append(result.Share, shareRow(yr, totals))
	}

	if err := s.store.Save(ctx, DownloadsArtifact, newArtifact(core.ArtifactDownloads, result)); err != nil {
		return nil, fmt.Errorf("save downloads artifact: %w", err)
	}
	return result, nil
}

func shareRow(year int, totals map[string]map[int]int64) ShareRow {
	row := ShareRow{
		Year:        year,
		React:       totals["react"][year],
		AngularJS:   totals["angularjs"][year],
		AngularCore: totals["@angular/core"][year],
		Vue:         totals["vue"][year],
		Svelte:      totals["svelte"][year],
	}
	row.AngularTotal = row.AngularJS + row.AngularCore
	row.Total = row.React + row.AngularTotal + row.Vue + row.Svelte
	if row.Total > 0 {
		row.ReactShare = float64(row.React) / float64(row.Total)
	}
	if pair := row.React + row.AngularTotal; pair > 0 {
		row.ReactShareVsAngular = float64(row.React) / float64(pair)
	}
	return row
}

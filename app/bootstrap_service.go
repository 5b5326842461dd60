package app

import (
	"context"
	"fmt"
	"log/slog"

	"entrolab/domain/core"
	"entrolab/domain/entropy"
	"entrolab/ports"
)

// BootstrapCell is one annual estimate with its uncertainty band.
type BootstrapCell struct {
	Year int `json:"year"`
	entropy.Interval
}

// BootstrapSeries is one panel member's banded series.
type BootstrapSeries struct {
	Name  string          `json:"name"`
	Cells []BootstrapCell `json:"cells"`
}

// BootstrapPanel groups the banded series of one annual panel.
type BootstrapPanel struct {
	Name   string            `json:"name"`
	Series []BootstrapSeries `json:"series"`
}

// BootstrapResult is the confidence-interval artifact payload.
type BootstrapResult struct {
	Panels []BootstrapPanel `json:"panels"`
}

// Panel returns the named banded panel.
func (r *BootstrapResult) Panel(name string) (*BootstrapPanel, bool) {
	for i := range r.Panels {
		if r.Panels[i].Name == name {
			return &r.Panels[i], true
		}
	}
	return nil, false
}

// BootstrapService attaches parametric-bootstrap confidence bands to every
// cell of the collected annual panels. It is pure post-processing: no
// collection, just the timeseries artifact in and the banded artifact out.
type BootstrapService struct {
	store ports.ArtifactStore
	log   *slog.Logger
}

// NewBootstrapService creates a bootstrap service.
func NewBootstrapService(store ports.ArtifactStore, log *slog.Logger) *BootstrapService {
	return &BootstrapService{store: store, log: log}
}

// Run bands every panel cell and persists the bootstrap artifact.
func (s *BootstrapService) Run(ctx context.Context) (*BootstrapResult, error) {
	artifact, err := s.store.Load(ctx, TimeseriesArtifact)
	if err != nil {
		return nil, fmt.Errorf("load timeseries artifact: %w", err)
	}
	var ts TimeseriesResult
	if err := DecodeArtifact(artifact, &ts); err != nil {
		return nil, err
	}

	result := &BootstrapResult{}
	cells := 0
	for _, pr := range ts.Panels {
		bp := BootstrapPanel{Name: pr.Name}
		for _, series := range pr.Series {
			bs := BootstrapSeries{Name: series.Name}
			for _, p := range series.Points {
				bs.Cells = append(bs.Cells, BootstrapCell{
					Year:     p.Year,
					Interval: entropy.ConfidenceInterval(p.HCS, p.NUnits),
				})
				cells++
			}
			bp.Series = append(bp.Series, bs)
		}
		result.Panels = append(result.Panels, bp)
	}
	s.log.Info("confidence bands attached", "panels", len(result.Panels), "cells", cells)

	if err := s.store.Save(ctx, BootstrapArtifact, newArtifact(core.ArtifactBootstrap, result)); err != nil {
		return nil, fmt.Errorf("save bootstrap artifact: %w", err)
	}
	return result, nil
}

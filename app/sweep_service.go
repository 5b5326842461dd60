// Package app wires the collectors, the entropy estimators and the
// regression engine into the pipeline's analysis stages. Each service
// covers one stage and persists one artifact; downstream stages consume
// upstream artifacts through the store instead of re-collecting.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"entrolab/domain/core"
	"entrolab/domain/ecosystem"
	"entrolab/domain/entropy"
	"entrolab/ports"
)

// Sweep defaults. The GitHub sample per ecosystem is bounded by the
// collector's page cap; the npm sample by MaxPackages.
const (
	sweepMinStars    = 5
	sweepMaxPackages = 500
	sweepTopLabels   = 20
	sweepConcurrency = 4
)

// EcosystemEntropy is one ecosystem's cross-sectional measurement: the
// entropy of its pooled secondary-label distribution.
type EcosystemEntropy struct {
	Key          core.EcosystemKey    `json:"key"`
	Name         string               `json:"name"`
	Context      string               `json:"context"`
	ExpectedRank int                  `json:"expected_rank,omitempty"`
	NUnits       int                  `json:"n_units"`
	NLabels      int                  `json:"n_labels"`
	NInstances   int                  `json:"n_instances"`
	HPlugin      float64              `json:"h_plugin"`
	HCS          float64              `json:"h_cs"`
	SEff         float64              `json:"s_eff"`
	Top          []entropy.LabelCount `json:"top"`
	Fingerprint  core.Fingerprint     `json:"fingerprint"`
}

// SweepResult is the cross-sectional sweep artifact payload.
type SweepResult struct {
	GitHub []EcosystemEntropy `json:"github"`
	Npm    []EcosystemEntropy `json:"npm"`
}

// SweepService measures topic entropy for every GitHub ecosystem and
// keyword entropy for every npm ecosystem on the sweep roster.
type SweepService struct {
	github ports.TopicSearcher
	npm    ports.KeywordSearcher
	store  ports.ArtifactStore
	log    *slog.Logger

	// Concurrency bounds the collector fan-out.
	Concurrency int
	// MaxPackages caps the npm sample per keyword.
	MaxPackages int
}

// NewSweepService creates a sweep service with default sample caps.
func NewSweepService(github ports.TopicSearcher, npm ports.KeywordSearcher, store ports.ArtifactStore, log *slog.Logger) *SweepService {
	return &SweepService{
		github:      github,
		npm:         npm,
		store:       store,
		log:         log,
		Concurrency: sweepConcurrency,
		MaxPackages: sweepMaxPackages,
	}
}

// Run measures every roster ecosystem and persists the sweep artifact.
// Any ecosystem's collection failure aborts the whole sweep; a partial
// sweep would silently bias the cross-sectional ranking.
func (s *SweepService) Run(ctx context.Context) (*SweepResult, error) {
	topics := ecosystem.SweepTopics()
	keywords := ecosystem.SweepKeywords()
	result := &SweepResult{
		GitHub: make([]EcosystemEntropy, len(topics)),
		Npm:    make([]EcosystemEntropy, len(keywords)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)
	for i, topic := range topics {
		i, topic := i, topic
		g.Go(func() error {
			row, err := s.topicEntropy(gctx, topic)
			if err != nil {
				return fmt.Errorf("github sweep %s: %w", topic.Key, err)
			}
			result.GitHub[i] = *row
			return nil
		})
	}
	for i, kw := range keywords {
		i, kw := i, kw
		g.Go(func() error {
			row, err := s.keywordEntropy(gctx, kw)
			if err != nil {
				return fmt.Errorf("npm sweep %s: %w", kw.Key, err)
			}
			result.Npm[i] = *row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, SweepArtifact, newArtifact(core.ArtifactSweep, result)); err != nil {
		return nil, fmt.Errorf("save sweep artifact: %w", err)
	}
	return result, nil
}

func (s *SweepService) topicEntropy(ctx context.Context, t ecosystem.Topic) (*EcosystemEntropy, error) {
	query := fmt.Sprintf("topic:%s stars:>=%d", t.Key, sweepMinStars)
	repos, err := s.github.SearchRepos(ctx, query)
	if err != nil {
		return nil, err
	}
	dist := entropy.NewDistribution(t.Key.String())
	for _, repo := range repos {
		for _, label := range repo.Topics {
			dist.Add(label)
		}
	}
	row := measureEcosystem(t.Key, len(repos), dist)
	row.Name = t.Name
	row.Context = t.Context
	row.ExpectedRank = t.ExpectedRank
	s.log.Info("github ecosystem measured",
		"topic", t.Key, "repos", len(repos),
		"labels", dist.Distinct(), "h_cs", row.HCS)
	return row, nil
}

func (s *SweepService) keywordEntropy(ctx context.Context, k ecosystem.Keyword) (*EcosystemEntropy, error) {
	pkgs, err := s.npm.SearchPackages(ctx, k.Key.String(), s.MaxPackages)
	if err != nil {
		return nil, err
	}
	dist := entropy.NewDistribution(k.Key.String())
	for _, pkg := range pkgs {
		for _, kw := range pkg.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			dist.Add(kw)
		}
	}
	row := measureEcosystem(k.Key, len(pkgs), dist)
	row.Name = k.Name
	row.Context = k.Context
	s.log.Info("npm ecosystem measured",
		"keyword", k.Key, "packages", len(pkgs),
		"labels", dist.Distinct(), "h_cs", row.HCS)
	return row, nil
}

// measureEcosystem reduces a pooled label distribution to one sweep row.
func measureEcosystem(key core.EcosystemKey, units int, dist *entropy.Distribution) *EcosystemEntropy {
	hcs := dist.ChaoShen()
	return &EcosystemEntropy{
		Key:         key,
		NUnits:      units,
		NLabels:     dist.Distinct(),
		NInstances:  dist.Total(),
		HPlugin:     dist.Shannon(),
		HCS:         hcs,
		SEff:        entropy.EffectiveSpecies(hcs),
		Top:         dist.Top(sweepTopLabels),
		Fingerprint: dist.Fingerprint(),
	}
}

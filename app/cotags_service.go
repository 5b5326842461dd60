package app

import (
	"context"
	"fmt"
	"log/slog"

	"entrolab/domain/core"
	"entrolab/domain/ecosystem"
	"entrolab/domain/entropy"
	"entrolab/ports"
)

// Top co-tags kept per platform.
const cotagTopLabels = 10

// CoTagEntropy is one platform's demand-side entropy, measured over the
// question volumes of its Stack Overflow co-tags.
type CoTagEntropy struct {
	Tag            string   `json:"tag"`
	HCS            float64  `json:"h_cs_so"`
	NCoTags        int      `json:"n_cotags"`
	TotalQuestions int      `json:"total_questions"`
	Top            []string `json:"top,omitempty"`
}

// TagComparison pairs the demand-side measure with the supply-side
// GitHub reference for one platform.
type TagComparison struct {
	Tag       string  `json:"tag"`
	GitHubHCS float64 `json:"h_cs_github"`
	SOHCS     float64 `json:"h_cs_so"`
}

// RankAgreement records whether both measures rank a platform pair the
// same way.
type RankAgreement struct {
	Pair         string `json:"pair"`
	GitHubWinner string `json:"github_winner"`
	SOWinner     string `json:"so_winner"`
	Agrees       bool   `json:"rank_agrees"`
}

// CoTagsResult is the Stack Overflow co-tag artifact payload.
type CoTagsResult struct {
	Platforms  []CoTagEntropy     `json:"platform_data"`
	Comparison []TagComparison    `json:"comparison"`
	Agreement  []RankAgreement    `json:"rank_agreement"`
	Reference  map[string]float64 `json:"github_reference"`
}

// Platform returns the measured row for a tag.
func (r *CoTagsResult) Platform(tag string) (*CoTagEntropy, bool) {
	for i := range r.Platforms {
		if r.Platforms[i].Tag == tag {
			return &r.Platforms[i], true
		}
	}
	return nil, false
}

// CoTagsService measures demand-side entropy over Stack Overflow co-tag
// distributions and checks rank agreement against the supply-side GitHub
// panels. Two independent measures agreeing on ordering is the
// robustness argument; the levels are not comparable across APIs.
type CoTagsService struct {
	so    ports.RelatedTagsReader
	store ports.ArtifactStore
	log   *slog.Logger
}

// NewCoTagsService creates a co-tags service.
func NewCoTagsService(so ports.RelatedTagsReader, store ports.ArtifactStore, log *slog.Logger) *CoTagsService {
	return &CoTagsService{so: so, store: store, log: log}
}

// Run measures every roster tag and persists the co-tag artifact.
func (s *CoTagsService) Run(ctx context.Context) (*CoTagsResult, error) {
	ref := ecosystem.GitHubReferenceHCS()
	result := &CoTagsResult{Reference: ref}
	soH := make(map[string]float64)

	for _, tag := range ecosystem.CoTagTags() {
		row, err := s.tagEntropy(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("cotags %s: %w", tag, err)
		}
		result.Platforms = append(result.Platforms, *row)
		result.Comparison = append(result.Comparison, TagComparison{
			Tag:       tag,
			GitHubHCS: ref[tag],
			SOHCS:     row.HCS,
		})
		soH[tag] = row.HCS
	}

	for _, pair := range ecosystem.CoTagPairs() {
		agreement := rankAgreement(pair, ref, soH)
		result.Agreement = append(result.Agreement, agreement)
		s.log.Info("rank agreement checked",
			"pair", agreement.Pair, "github", agreement.GitHubWinner,
			"stackoverflow", agreement.SOWinner, "agrees", agreement.Agrees)
	}

	if err := s.store.Save(ctx, CoTagsArtifact, newArtifact(core.ArtifactCoTags, result)); err != nil {
		return nil, fmt.Errorf("save cotags artifact: %w", err)
	}
	return result, nil
}

func (s *CoTagsService) tagEntropy(ctx context.Context, tag string) (*CoTagEntropy, error) {
	related, err := s.so.RelatedTags(ctx, tag)
	if err != nil {
		return nil, err
	}
	dist := entropy.NewDistribution()
	for _, rt := range related {
		dist.AddCount(rt.Name, rt.QuestionCount)
	}
	row := &CoTagEntropy{
		Tag:            tag,
		HCS:            dist.ChaoShen(),
		NCoTags:        dist.Distinct(),
		TotalQuestions: dist.Total(),
	}
	for _, lc := range dist.Top(cotagTopLabels) {
		row.Top = append(row.Top, lc.Label)
	}
	s.log.Info("cotag entropy measured",
		"tag", tag, "cotags", row.NCoTags,
		"questions", row.TotalQuestions, "h_cs", row.HCS)
	return row, nil
}

func rankAgreement(pair ecosystem.CoTagPair, github, so map[string]float64) RankAgreement {
	winner := func(h map[string]float64) string {
		if h[pair.A] >= h[pair.B] {
			return pair.A
		}
		return pair.B
	}
	ghWinner, soWinner := winner(github), winner(so)
	return RankAgreement{
		Pair:         pair.A + "_vs_" + pair.B,
		GitHubWinner: ghWinner,
		SOWinner:     soWinner,
		Agrees:       ghWinner == soWinner,
	}
}

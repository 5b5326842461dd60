package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"entrolab/domain/core"
	"entrolab/domain/entropy"
	"entrolab/internal/testkit"
	"entrolab/ports"
)

// fourLabels pools to a uniform four-label distribution per ecosystem.
var fourLabels = map[string]int{"alpha": 1, "beta": 1, "gamma": 1, "delta": 1}

func sweepStubs(counts map[string]int) (*testkit.StubTopicSearcher, *testkit.StubKeywordSearcher) {
	gh := &testkit.StubTopicSearcher{
		SearchFunc: func(_ context.Context, query string) ([]ports.Repo, error) {
			key, ok := strings.CutPrefix(strings.Fields(query)[0], "topic:")
			if !ok {
				return nil, fmt.Errorf("unexpected query %q", query)
			}
			return testkit.RepoSet([]string{key}, counts), nil
		},
	}
	npm := &testkit.StubKeywordSearcher{
		SearchFunc: func(_ context.Context, keyword string, max int) ([]ports.Package, error) {
			return []ports.Package{
				{Name: keyword + "-kit", Keywords: []string{"  Alpha ", keyword, "beta"}},
				{Name: keyword + "-core", Keywords: []string{"alpha", "", "gamma"}},
			}, nil
		},
	}
	return gh, npm
}

func TestSweepMeasuresWholeRoster(t *testing.T) {
	gh, npm := sweepStubs(fourLabels)
	store := testkit.NewMemStore()
	svc := NewSweepService(gh, npm, store, testkit.Logger())

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.GitHub) != 14 || len(res.Npm) != 9 {
		t.Fatalf("got %d github + %d npm rows", len(res.GitHub), len(res.Npm))
	}

	first := res.GitHub[0]
	if first.Key != "ethereum" || first.Name != "Ethereum" || first.ExpectedRank != 1 {
		t.Errorf("first row = %+v", first)
	}
	for _, row := range res.GitHub {
		if row.NUnits != 4 || row.NLabels != 4 || row.NInstances != 4 {
			t.Errorf("%s: n=%d labels=%d instances=%d", row.Key, row.NUnits, row.NLabels, row.NInstances)
		}
		if math.Abs(row.HPlugin-1.3862943611198906) > 1e-12 {
			t.Errorf("%s: plugin entropy %v", row.Key, row.HPlugin)
		}
		if math.Abs(row.HCS-2.0279506082668113) > 1e-12 {
			t.Errorf("%s: coverage-adjusted entropy %v", row.Key, row.HCS)
		}
		if math.Abs(row.SEff-math.Exp(row.HCS)) > 1e-12 {
			t.Errorf("%s: effective species %v for H %v", row.Key, row.SEff, row.HCS)
		}
		if row.Fingerprint.IsEmpty() || len(row.Top) != 4 {
			t.Errorf("%s: fingerprint %q, top %v", row.Key, row.Fingerprint, row.Top)
		}
	}

	queries := gh.Queries()
	if len(queries) != 14 {
		t.Fatalf("%d github queries", len(queries))
	}
	seen := map[string]bool{}
	for _, q := range queries {
		seen[q] = true
	}
	if !seen["topic:ethereum stars:>=5"] || !seen["topic:google-cloud stars:>=5"] {
		t.Errorf("queries = %v", queries)
	}

	artifact, err := store.Load(context.Background(), SweepArtifact)
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	if artifact.Kind != core.ArtifactSweep || artifact.ID.IsEmpty() {
		t.Errorf("artifact kind %q id %q", artifact.Kind, artifact.ID)
	}
}

func TestSweepNormalizesKeywords(t *testing.T) {
	gh, npm := sweepStubs(fourLabels)
	store := testkit.NewMemStore()
	svc := NewSweepService(gh, npm, store, testkit.Logger())

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// "  Alpha " and "alpha" pool; the query keyword and the empty
	// keyword are dropped.
	want := map[string]int{"alpha": 2, "beta": 1, "gamma": 1}
	for _, row := range res.Npm {
		if row.NUnits != 2 || row.NLabels != 3 || row.NInstances != 4 {
			t.Errorf("%s: n=%d labels=%d instances=%d", row.Key, row.NUnits, row.NLabels, row.NInstances)
		}
		if math.Abs(row.HCS-entropy.ChaoShen(want)) > 1e-12 {
			t.Errorf("%s: H_cs %v", row.Key, row.HCS)
		}
		if len(row.Top) != 3 || row.Top[0].Label != "alpha" || row.Top[0].Count != 2 {
			t.Errorf("%s: top %v", row.Key, row.Top)
		}
	}
}

func TestSweepAbortsOnCollectorFailure(t *testing.T) {
	gh, npm := sweepStubs(fourLabels)
	inner := gh.SearchFunc
	gh.SearchFunc = func(ctx context.Context, query string) ([]ports.Repo, error) {
		if strings.Contains(query, "topic:aws") {
			return nil, fmt.Errorf("%w: github search throttled twice", core.ErrRateLimited)
		}
		return inner(ctx, query)
	}
	store := testkit.NewMemStore()
	svc := NewSweepService(gh, npm, store, testkit.Logger())

	_, err := svc.Run(context.Background())
	if !errors.Is(err, core.ErrRateLimited) {
		t.Fatalf("err = %v, want rate-limit failure", err)
	}
	if !strings.Contains(err.Error(), "aws") {
		t.Errorf("error does not name the ecosystem: %v", err)
	}
	if _, err := store.Load(context.Background(), SweepArtifact); !core.IsNotFound(err) {
		t.Errorf("partial sweep was persisted: %v", err)
	}
}

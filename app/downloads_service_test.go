package app

import (
	"context"
	"math"
	"testing"

	"entrolab/domain/core"
	"entrolab/internal/testkit"
)

func TestDownloadsBuildsShareTable(t *testing.T) {
	counts := map[string]int64{
		"react":         8_000,
		"angularjs":     1_500,
		"@angular/core": 500,
		"vue":           1_000,
		"svelte":        250,
	}
	npm := &testkit.StubDownloadsReader{
		DownloadsFunc: func(_ context.Context, pkg string, year int) (int64, error) {
			// Uniform integer growth keeps every share ratio fixed.
			return counts[pkg] * int64(year-2013), nil
		},
	}
	store := testkit.NewMemStore()
	svc := NewDownloadsService(npm, store, testkit.Logger())

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Share) != 11 {
		t.Fatalf("%d share rows", len(res.Share))
	}

	base, ok := res.Row(2014)
	if !ok {
		t.Fatal("2014 row missing")
	}
	if base.AngularTotal != 2_000 || base.Total != 11_250 {
		t.Errorf("2014 totals: angular %d, field %d", base.AngularTotal, base.Total)
	}
	if math.Abs(base.ReactShareVsAngular-0.8) > 1e-12 {
		t.Errorf("react vs angular share = %v", base.ReactShareVsAngular)
	}
	if math.Abs(base.ReactShare-8_000.0/11_250.0) > 1e-12 {
		t.Errorf("react field share = %v", base.ReactShare)
	}

	pct, err := res.VsAngularPercent([]int{2014, 2016})
	if err != nil {
		t.Fatalf("VsAngularPercent: %v", err)
	}
	// Uniform growth leaves the share ratio unchanged.
	if math.Abs(pct[0]-80) > 1e-9 || math.Abs(pct[1]-80) > 1e-9 {
		t.Errorf("share percents = %v", pct)
	}
	if _, err := res.VsAngularPercent([]int{1999}); err == nil {
		t.Error("missing year should fail")
	}

	artifact, err := store.Load(context.Background(), DownloadsArtifact)
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	if artifact.Kind != core.ArtifactDownloads {
		t.Errorf("artifact kind %q", artifact.Kind)
	}
}

func TestDownloadsTreatsLookupFailureAsZero(t *testing.T) {
	npm := &testkit.StubDownloadsReader{
		DownloadsFunc: func(_ context.Context, pkg string, year int) (int64, error) {
			if pkg == "svelte" && year < 2017 {
				return 0, core.NewStatusError("npm downloads", 404)
			}
			return 1_000, nil
		},
	}
	store := testkit.NewMemStore()
	svc := NewDownloadsService(npm, store, testkit.Logger())

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	row, _ := res.Row(2015)
	if row.Svelte != 0 {
		t.Errorf("failed lookup should count zero, got %d", row.Svelte)
	}
	if row.Total != 4_000 {
		t.Errorf("2015 field total = %d", row.Total)
	}
	later, _ := res.Row(2020)
	if later.Svelte != 1_000 {
		t.Errorf("2020 svelte = %d", later.Svelte)
	}
}

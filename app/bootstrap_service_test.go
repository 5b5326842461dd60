package app

import (
	"context"
	"strings"
	"testing"

	"entrolab/domain/core"
	"entrolab/domain/entropy"
	"entrolab/domain/panel"
	"entrolab/internal/testkit"
)

func TestBootstrapBandsEveryPanelCell(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewMemStore()

	android := panel.NewSeries("android")
	android.Put(2011, panel.Measurement{HCS: 8.0, NUnits: 30})
	android.Put(2013, panel.Measurement{HCS: 8.0, NUnits: 3000})
	android.Put(2015, panel.Measurement{HCS: 0.5, NUnits: 2})
	ios := panel.NewSeries("ios")
	ios.Put(2011, panel.Measurement{HCS: 0, NUnits: 0})
	ios.Put(2013, panel.Measurement{HCS: 0.5, NUnits: 1})
	ios.Put(2015, panel.Measurement{HCS: 7.5, NUnits: 400})
	ts := &TimeseriesResult{Panels: []PanelResult{{
		Name:   "mobile",
		Years:  []int{2011, 2013, 2015},
		Series: []*panel.Series{android, ios},
	}}}
	if err := store.Save(ctx, TimeseriesArtifact, newArtifact(core.ArtifactTimeseries, ts)); err != nil {
		t.Fatalf("seed timeseries: %v", err)
	}

	res, err := NewBootstrapService(store, testkit.Logger()).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	mobile, ok := res.Panel("mobile")
	if !ok || len(mobile.Series) != 2 {
		t.Fatalf("banded panel %+v", res.Panels)
	}
	got := mobile.Series[0]
	if got.Name != "android" || len(got.Cells) != 3 {
		t.Fatalf("android cells %+v", got)
	}

	thin, thick := got.Cells[0], got.Cells[1]
	if thin.Year != 2011 || thin.SE != entropy.BootstrapSE(8.0, 30) {
		t.Errorf("thin cell %+v", thin)
	}
	// Same estimate on a 100x larger sample must band 10x tighter.
	if thin.SE < 5*thick.SE {
		t.Errorf("thin SE %v vs thick SE %v", thin.SE, thick.SE)
	}
	if thin.Low >= thin.H || thin.High <= thin.H {
		t.Errorf("band does not bracket the estimate: %+v", thin)
	}

	// A huge SE on a small estimate floors the lower bound at zero.
	if floored := got.Cells[2]; floored.Low != 0 || floored.High <= floored.H {
		t.Errorf("floored cell %+v", floored)
	}

	// Degenerate cells carry no band: no sample, or a single unit.
	empty := mobile.Series[1].Cells[0]
	if empty.SE != 0 || empty.Low != 0 || empty.High != 0 || empty.N != 0 {
		t.Errorf("empty cell %+v", empty)
	}
	if single := mobile.Series[1].Cells[1]; single.SE != 0 {
		t.Errorf("single-unit cell %+v", single)
	}

	artifact, err := store.Load(ctx, BootstrapArtifact)
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	if artifact.Kind != core.ArtifactBootstrap {
		t.Errorf("artifact kind %q", artifact.Kind)
	}
}

func TestBootstrapRequiresTimeseries(t *testing.T) {
	store := testkit.NewMemStore()
	_, err := NewBootstrapService(store, testkit.Logger()).Run(context.Background())
	if !core.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
	if !strings.Contains(err.Error(), "timeseries") {
		t.Errorf("error does not name the missing artifact: %v", err)
	}
}

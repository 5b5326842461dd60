package export

import (
	"context"
	"testing"

	"entrolab/domain/core"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	artifact := core.Artifact{
		ID:   core.NewID(),
		Kind: core.ArtifactSweep,
		Payload: map[string]any{
			"ecosystem": "ethereum",
			"h_cs":      5.849,
		},
		CreatedAt: core.Now(),
	}
	if err := s.Save(ctx, "entropy_results", artifact); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx, "entropy_results")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != artifact.ID {
		t.Errorf("ID = %s, want %s", got.ID, artifact.ID)
	}
	if got.Kind != core.ArtifactSweep {
		t.Errorf("Kind = %s", got.Kind)
	}
	payload, ok := got.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type %T", got.Payload)
	}
	if payload["ecosystem"] != "ethereum" {
		t.Errorf("payload ecosystem = %v", payload["ecosystem"])
	}
	if payload["h_cs"] != 5.849 {
		t.Errorf("payload h_cs = %v", payload["h_cs"])
	}
}

func TestStoreLoadMissing(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	_, err = s.Load(context.Background(), "never_saved")
	if !core.IsNotFound(err) {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestStoreListSkipsManifest(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	for _, name := range []string{"timeseries", "entropy_results"} {
		a := core.Artifact{ID: core.NewID(), Kind: core.ArtifactTimeseries, CreatedAt: core.Now()}
		if err := s.Save(ctx, name, a); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}
	if _, err := s.WriteManifest(ctx, core.RunID(core.NewID())); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(names) != 2 || names[0] != "entropy_results" || names[1] != "timeseries" {
		t.Errorf("List = %v, want [entropy_results timeseries]", names)
	}
}

func TestStoreRejectsPathyNames(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()
	a := core.Artifact{ID: core.NewID(), Kind: core.ArtifactSweep, CreatedAt: core.Now()}

	for _, name := range []string{"", "manifest", "../escape", "a/b", "dotted.name"} {
		if err := s.Save(ctx, name, a); err == nil {
			t.Errorf("Save(%q) accepted, want error", name)
		}
		if _, err := s.Load(ctx, name); err == nil {
			t.Errorf("Load(%q) accepted, want error", name)
		}
	}
}

func TestWriteManifestEntries(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	ctx := context.Background()

	saves := map[string]core.ArtifactKind{
		"sector_did":      core.ArtifactSectorDiD,
		"entropy_results": core.ArtifactSweep,
	}
	for name, kind := range saves {
		a := core.Artifact{ID: core.NewID(), Kind: kind, CreatedAt: core.Now()}
		if err := s.Save(ctx, name, a); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	runID := core.RunID(core.NewID())
	m, err := s.WriteManifest(ctx, runID)
	if err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	if m.RunID != runID {
		t.Errorf("RunID = %s, want %s", m.RunID, runID)
	}
	if len(m.Artifacts) != 2 {
		t.Fatalf("manifest has %d entries, want 2", len(m.Artifacts))
	}
	// Entries come back sorted by name.
	if m.Artifacts[0].Name != "entropy_results" || m.Artifacts[1].Name != "sector_did" {
		t.Errorf("entry order = [%s %s]", m.Artifacts[0].Name, m.Artifacts[1].Name)
	}
	for _, e := range m.Artifacts {
		if e.Fingerprint.IsEmpty() {
			t.Errorf("entry %s has empty fingerprint", e.Name)
		}
		if e.Kind != saves[e.Name] {
			t.Errorf("entry %s kind = %s, want %s", e.Name, e.Kind, saves[e.Name])
		}
	}
}

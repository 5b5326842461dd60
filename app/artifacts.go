package app

import (
	"encoding/json"
	"fmt"

	"entrolab/domain/core"
)

// Artifact names the analysis stages persist their outputs under. Later
// stages load earlier results by these names, so they are part of the
// pipeline contract rather than mere file labels.
const (
	SweepArtifact      = "results"
	TimeseriesArtifact = "timeseries"
	DownloadsArtifact  = "npm_data"
	EventStudyArtifact = "rdit_monthly"
	RegressionArtifact = "regression_results"
	SectorDiDArtifact  = "sector_did"
	BootstrapArtifact  = "bootstrap_ci"
	CoTagsArtifact     = "so_data"
	SimulationArtifact = "simulation"
	ReportArtifact     = "report"
)

// newArtifact stamps a payload with a fresh ID and creation time.
func newArtifact(kind core.ArtifactKind, payload any) core.Artifact {
	return core.Artifact{
		ID:        core.NewID(),
		Kind:      kind,
		Payload:   payload,
		CreatedAt: core.Now(),
	}
}

// DecodeArtifact recovers a typed payload from a loaded artifact.
// Stored payloads come back from disk as generic maps; round-tripping
// through the encoder restores the concrete shape.
func DecodeArtifact[T any](artifact *core.Artifact, out *T) error {
	data, err := json.Marshal(artifact.Payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", artifact.Kind, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", artifact.Kind, err)
	}
	return nil
}

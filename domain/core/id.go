package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID        ID
	EcosystemKey ID
)

func (id RunID) String() string        { return ID(id).String() }
func (id EcosystemKey) String() string { return ID(id).String() }

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}

// ParseEcosystemKey parses a string into EcosystemKey
func ParseEcosystemKey(s string) (EcosystemKey, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("ecosystem key cannot be empty")
	}
	return EcosystemKey(s), nil
}

// Artifact represents any persisted output of a run
type Artifact struct {
	ID        ID           `json:"id"`
	Kind      ArtifactKind `json:"kind"`
	Payload   interface{}  `json:"payload"`
	CreatedAt Timestamp    `json:"created_at"`
}

// ArtifactKind defines types of artifacts
type ArtifactKind string

const (
	// ArtifactSweep is the cross-sectional entropy sweep over all ecosystems.
	ArtifactSweep ArtifactKind = "entropy_sweep"
	// ArtifactTimeseries holds the annual entropy panels per platform pair.
	ArtifactTimeseries ArtifactKind = "timeseries_panel"
	// ArtifactEventStudy holds monthly windows and their discontinuity fits.
	ArtifactEventStudy ArtifactKind = "event_study"
	// ArtifactRegression holds the lead-lag regression suite.
	ArtifactRegression ArtifactKind = "regression_suite"
	ArtifactSectorDiD  ArtifactKind = "sector_did"
	ArtifactBootstrap  ArtifactKind = "bootstrap_ci"
	ArtifactDownloads  ArtifactKind = "npm_downloads"
	ArtifactCoTags     ArtifactKind = "cotag_entropy"
	ArtifactSimulation ArtifactKind = "simulated_event_study"
	ArtifactReport     ArtifactKind = "report"
)

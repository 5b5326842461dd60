package ports

import (
	"context"

	"entrolab/domain/core"
)

// ArtifactStore persists run artifacts under stable names. Artifacts are
// whole-document writes; there is no partial update and no indexing
// beyond the name.
type ArtifactStore interface {
	// Save writes the artifact under name, replacing any previous version.
	Save(ctx context.Context, name string, artifact core.Artifact) error
	// Load reads the artifact stored under name. Returns a not-found
	// error when the name has never been saved.
	Load(ctx context.Context, name string) (*core.Artifact, error)
	// List returns the stored artifact names in lexical order.
	List(ctx context.Context) ([]string, error)
}

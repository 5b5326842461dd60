// Package export persists run outputs: JSON artifacts on disk, a run
// manifest tying them together, fixed-width summary tables, and an
// Excel workbook of the headline numbers.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"entrolab/domain/core"
)

const manifestFile = "manifest.json"

// Store is a directory-backed artifact store. Each artifact is one
// pretty-printed JSON document named <name>.json so runs diff cleanly
// in version control.
type Store struct {
	dir string

	mu      sync.Mutex
	written map[string]ManifestEntry
}

// Manifest records what one run wrote: which artifacts, under which
// fingerprints, stamped with a run ID and UTC timestamp.
type Manifest struct {
	RunID     core.RunID      `json:"run_id"`
	CreatedAt core.Timestamp  `json:"created_at"`
	Artifacts []ManifestEntry `json:"artifacts"`
}

// ManifestEntry is one saved artifact in a Manifest.
type ManifestEntry struct {
	Name        string            `json:"name"`
	Kind        core.ArtifactKind `json:"kind"`
	Fingerprint core.Fingerprint  `json:"fingerprint"`
}

// NewStore creates the artifact directory if needed and returns a store
// over it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &Store{
		dir:     dir,
		written: make(map[string]ManifestEntry),
	}, nil
}

// Dir returns the directory the store writes under.
func (s *Store) Dir() string { return s.dir }

// Save writes the artifact under name, replacing any previous version,
// and records it for the run manifest.
func (s *Store) Save(ctx context.Context, name string, artifact core.Artifact) error {
	if err := validName(name); err != nil {
		return err
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %w", name, err)
	}
	data = append(data, '\n')

	path := filepath.Join(s.dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write artifact %s: %w", name, err)
	}

	s.mu.Lock()
	s.written[name] = ManifestEntry{
		Name:        name,
		Kind:        artifact.Kind,
		Fingerprint: core.NewFingerprint(data),
	}
	s.mu.Unlock()
	return nil
}

// Load reads the artifact stored under name.
func (s *Store) Load(ctx context.Context, name string) (*core.Artifact, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrArtifactNotFound, name)
		}
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}

	var artifact core.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", name, err)
	}
	return &artifact, nil
}

// List returns the stored artifact names in lexical order. The run
// manifest is not an artifact and is not listed.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == manifestFile {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".json"); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// WriteManifest writes manifest.json covering every artifact saved
// through this store so far, stamped with runID.
func (s *Store) WriteManifest(ctx context.Context, runID core.RunID) (*Manifest, error) {
	s.mu.Lock()
	entries := make([]ManifestEntry, 0, len(s.written))
	for _, e := range s.written {
		entries = append(entries, e)
	}
	s.mu.Unlock()
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })

	m := &Manifest{
		RunID:     runID,
		CreatedAt: core.Now(),
		Artifacts: entries,
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(filepath.Join(s.dir, manifestFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return m, nil
}

// validName keeps artifact names flat: no path separators, no dots, and
// "manifest" is reserved for the run manifest itself.
func validName(name string) error {
	if name == "" || name == "manifest" || strings.ContainsAny(name, "./\\") {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return nil
}

// Package testkit provides in-memory fakes for the pipeline's ports so
// service tests run without network or disk.
package testkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"entrolab/domain/core"
	"entrolab/ports"
)

// Logger returns a logger that discards everything, so service tests
// stay quiet.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MemStore is an in-memory ports.ArtifactStore.
type MemStore struct {
	mu        sync.Mutex
	artifacts map[string]core.Artifact
}

// NewMemStore creates an empty in-memory artifact store.
func NewMemStore() *MemStore {
	return &MemStore{artifacts: make(map[string]core.Artifact)}
}

// Save stores the artifact under name, replacing any previous version.
func (s *MemStore) Save(ctx context.Context, name string, artifact core.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[name] = artifact
	return nil
}

// Load returns the artifact stored under name.
func (s *MemStore) Load(ctx context.Context, name string) (*core.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	artifact, ok := s.artifacts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrArtifactNotFound, name)
	}
	return &artifact, nil
}

// List returns the stored names in lexical order.
func (s *MemStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.artifacts))
	for name := range s.artifacts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// StubTopicSearcher implements ports.TopicSearcher with a function
// field, so each test decides what a query returns.
type StubTopicSearcher struct {
	SearchFunc func(ctx context.Context, query string) ([]ports.Repo, error)

	mu      sync.Mutex
	queries []string
}

// SearchRepos records the query and delegates to SearchFunc.
func (s *StubTopicSearcher) SearchRepos(ctx context.Context, query string) ([]ports.Repo, error) {
	s.mu.Lock()
	s.queries = append(s.queries, query)
	s.mu.Unlock()
	if s.SearchFunc == nil {
		return nil, nil
	}
	return s.SearchFunc(ctx, query)
}

// Queries returns the queries seen so far, in call order.
func (s *StubTopicSearcher) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

// StubKeywordSearcher implements ports.KeywordSearcher.
type StubKeywordSearcher struct {
	SearchFunc func(ctx context.Context, keyword string, max int) ([]ports.Package, error)
}

func (s *StubKeywordSearcher) SearchPackages(ctx context.Context, keyword string, max int) ([]ports.Package, error) {
	if s.SearchFunc == nil {
		return nil, nil
	}
	return s.SearchFunc(ctx, keyword, max)
}

// StubDownloadsReader implements ports.DownloadsReader.
type StubDownloadsReader struct {
	DownloadsFunc func(ctx context.Context, pkg string, year int) (int64, error)
}

func (s *StubDownloadsReader) AnnualDownloads(ctx context.Context, pkg string, year int) (int64, error) {
	if s.DownloadsFunc == nil {
		return 0, nil
	}
	return s.DownloadsFunc(ctx, pkg, year)
}

// StubRelatedTagsReader implements ports.RelatedTagsReader.
type StubRelatedTagsReader struct {
	RelatedFunc func(ctx context.Context, tag string) ([]ports.RelatedTag, error)
}

func (s *StubRelatedTagsReader) RelatedTags(ctx context.Context, tag string) ([]ports.RelatedTag, error) {
	if s.RelatedFunc == nil {
		return nil, nil
	}
	return s.RelatedFunc(ctx, tag)
}

// RepoSet builds a repository list whose pooled topic labels realize the
// given multiplicities. Every repo carries the base topics (the query
// topics) plus one secondary label; counts control how many repos carry
// each label. Labels are emitted in sorted order so the set is stable.
func RepoSet(base []string, counts map[string]int) []ports.Repo {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var repos []ports.Repo
	i := 0
	for _, label := range labels {
		for n := 0; n < counts[label]; n++ {
			topics := append(append([]string{}, base...), label)
			repos = append(repos, ports.Repo{
				FullName: fmt.Sprintf("synthetic/repo-%d", i),
				Stars:    10,
				Topics:   topics,
			})
			i++
		}
	}
	return repos
}

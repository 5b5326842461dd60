package ports

import (
	"context"
)

// Repo is the subset of a GitHub search hit the pipeline uses: the
// repository's topic labels are the unit of diversity measurement.
type Repo struct {
	FullName string   `json:"full_name"`
	Stars    int      `json:"stars"`
	Topics   []string `json:"topics"`
}

// TopicSearcher pulls repositories from the GitHub search API. The query
// uses GitHub search syntax (topic:, stars:, created: qualifiers);
// adapters follow pagination up to their page cap and handle the rate
// limit retry internally.
type TopicSearcher interface {
	SearchRepos(ctx context.Context, query string) ([]Repo, error)
}

// Package is the subset of an npm registry search hit the pipeline uses.
type Package struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// KeywordSearcher pulls packages from the npm registry search API by
// keyword, up to max packages.
type KeywordSearcher interface {
	SearchPackages(ctx context.Context, keyword string, max int) ([]Package, error)
}

// DownloadsReader reads download totals from the npm downloads API.
type DownloadsReader interface {
	// AnnualDownloads returns the total downloads for pkg over year.
	AnnualDownloads(ctx context.Context, pkg string, year int) (int64, error)
}

// RelatedTag is a co-occurring Stack Overflow tag with its question
// volume.
type RelatedTag struct {
	Name          string `json:"name"`
	QuestionCount int    `json:"question_count"`
}

// RelatedTagsReader pulls co-tag distributions from the Stack Exchange
// API. The queried tag itself is not part of the result.
type RelatedTagsReader interface {
	RelatedTags(ctx context.Context, tag string) ([]RelatedTag, error)
}

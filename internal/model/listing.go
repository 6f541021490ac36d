package model

import (
	"context"
	"time"
)

// Listing is the normalized representation of one job posting from any board.
type Listing struct {
	Title       string
	Company     string
	URL         string // direct posting link, stable identity key
	Source      string // board name
	Description string // plain text, may be empty
	SalaryMin   int    // annual, 0 = unknown
	SalaryMax   int    // annual, 0 = unknown
	Location    string
	Remote      bool
	PostedAt    *time.Time     // nullable (not all APIs provide this)
	Raw         map[string]any // source-specific fields, never interpreted by the pipeline
}

// Priority is the coarse bucket a scored listing lands in.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// FitResult is the outcome of an external fit estimation for one listing.
type FitResult struct {
	Score    float64  // bounded, see config.Scoring
	Summary  string
	Matched  []string // profile keywords the estimator found in the posting
	Gaps     []string // profile keywords it found missing
	Priority string   // estimator's own suggestion, advisory only
}

// Score combines the rule-based score with an optional fit estimate.
// Composite = Rule + Fit.Score (0 when Fit is nil), clamped by the scorer.
type Score struct {
	Rule      float64
	Composite float64
	Priority  Priority
	Fit       *FitResult // nil when estimation was unavailable or failed
}

// ScoredListing is a listing with its final score, as handed to reporters.
type ScoredListing struct {
	Listing Listing
	Score   Score
}

// Source produces listings from one job board.
type Source interface {
	Name() string
	Collect(ctx context.Context) ([]Listing, error)
}

// SeenStore is the persistent dedup index consulted across runs.
type SeenStore interface {
	HasURL(url string) (bool, error)
	HasTitleHash(company, titleHash string) (bool, error)
	Insert(entry SeenEntry) error
	Clear() error
}

// Estimator produces an optional fit estimate for one listing against the
// profile's resume summary. A nil result with a nil error means no estimate
// is available; either way the caller degrades to rule-score-only.
type Estimator interface {
	Estimate(ctx context.Context, l Listing, resumeSummary string) (*FitResult, error)
}

// Reporter delivers the final ranked batch of a run.
type Reporter interface {
	Deliver(batch []ScoredListing) error
}

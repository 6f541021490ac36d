package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/jobsift/jobsift/internal/model"
)

// TitleHash returns the first 16 hex characters of the SHA-256 of the
// lowercased, trimmed title. Stable across runs; paired with the exact
// company name it forms the cross-run dedup key.
func TitleHash(title string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}

// Matcher detects near-duplicate listings within a single run using
// token-sort-ratio similarity, which compares word-sorted strings so
// "Manager, Customer Success" and "Customer Success Manager" score 100.
type Matcher struct {
	threshold int // 0-100, a duplicate must score strictly above this on both fields
}

// NewMatcher returns a Matcher with the given similarity threshold.
func NewMatcher(threshold int) *Matcher {
	return &Matcher{threshold: threshold}
}

// IsDuplicate reports whether candidate is a near-duplicate of any
// already-accepted listing. Title similarity and company similarity must
// both exceed the threshold.
func (m *Matcher) IsDuplicate(candidate model.Listing, accepted []model.Listing) bool {
	for _, a := range accepted {
		if fuzzy.TokenSortRatio(candidate.Title, a.Title) <= m.threshold {
			continue
		}
		if fuzzy.TokenSortRatio(candidate.Company, a.Company) > m.threshold {
			return true
		}
	}
	return false
}

// Unique removes intra-run near-duplicates, keeping the first listing of
// each duplicate group in input order. Every candidate is compared against
// all previously kept listings; quadratic, fine at digest scale.
func (m *Matcher) Unique(listings []model.Listing) []model.Listing {
	kept := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if m.IsDuplicate(l, kept) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// Deduper runs both dedup checks: intra-run fuzzy matching, then the
// persistent seen index from prior runs.
type Deduper struct {
	matcher *Matcher
	store   model.SeenStore
	logger  *slog.Logger
}

// NewDeduper wires a Matcher and a seen store together.
func NewDeduper(matcher *Matcher, store model.SeenStore, logger *slog.Logger) *Deduper {
	return &Deduper{
		matcher: matcher,
		store:   store,
		logger:  logger,
	}
}

// Dedupe filters listings down to the genuinely new ones. A store lookup
// failure aborts the run: treating history as empty would re-surface
// everything already delivered.
func (d *Deduper) Dedupe(listings []model.Listing) ([]model.Listing, error) {
	unique := d.matcher.Unique(listings)
	if n := len(listings) - len(unique); n > 0 {
		d.logger.Debug("dropped intra-run duplicates", "count", n)
	}

	fresh := make([]model.Listing, 0, len(unique))
	for _, l := range unique {
		seen, err := d.Seen(l)
		if err != nil {
			return nil, err
		}
		if seen {
			d.logger.Debug("dropped previously seen listing", "url", l.URL)
			continue
		}
		fresh = append(fresh, l)
	}
	return fresh, nil
}

// Seen reports whether the listing matches the persistent index, by url or
// by exact company plus normalized title hash.
func (d *Deduper) Seen(l model.Listing) (bool, error) {
	seen, err := d.store.HasURL(l.URL)
	if err != nil {
		return false, fmt.Errorf("looking up url %s: %w", l.URL, err)
	}
	if seen {
		return true, nil
	}

	seen, err = d.store.HasTitleHash(l.Company, TitleHash(l.Title))
	if err != nil {
		return false, fmt.Errorf("looking up title hash for %q at %s: %w", l.Title, l.Company, err)
	}
	return seen, nil
}

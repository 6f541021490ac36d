package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jobsift/jobsift/internal/collector"
	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/dedupe"
	"github.com/jobsift/jobsift/internal/filter"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/scorer"
)

// Pipeline owns one full run: collect → freshness cut → filter → dedupe →
// score → rank → deliver → mark seen.
type Pipeline struct {
	collector *collector.Collector
	filter    *filter.HardFilter
	deduper   *dedupe.Deduper
	scorer    *scorer.Scorer
	estimator model.Estimator
	store     model.SeenStore
	reporters []model.Reporter
	profile   config.Profile
	logger    *slog.Logger
}

// New wires a pipeline from its injectable edges. The pure stages (filter,
// matcher, scorer) are built here from cfg; sources, store, reporters and
// the estimator come from the caller so runs can be composed differently
// (dry runs, resets, tests).
func New(
	col *collector.Collector,
	estimator model.Estimator,
	store model.SeenStore,
	reporters []model.Reporter,
	cfg *config.Config,
	logger *slog.Logger,
) *Pipeline {
	matcher := dedupe.NewMatcher(cfg.Dedupe.SimilarityThreshold)
	return &Pipeline{
		collector: col,
		filter:    filter.New(cfg.Profile),
		deduper:   dedupe.NewDeduper(matcher, store, logger),
		scorer:    scorer.New(cfg.Profile, cfg.Scoring),
		estimator: estimator,
		store:     store,
		reporters: reporters,
		profile:   cfg.Profile,
		logger:    logger,
	}
}

// Run executes one end-to-end pass. On total collection failure it still
// delivers an empty digest before returning the collection error. If every
// reporter fails, seen entries are not written so the batch resurfaces on
// the next run.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := p.logger.With("run_id", uuid.NewString())
	start := time.Now()

	listings, report, err := p.collector.Collect(ctx)
	if err != nil {
		if dErr := p.deliver(logger, nil); dErr != nil {
			logger.Error("empty digest delivery failed", "error", dErr)
		}
		return fmt.Errorf("collecting: %w", err)
	}

	fresh := p.freshnessCut(listings, start)

	var matched []model.Listing
	for _, l := range fresh {
		keep, reason := p.filter.Verdict(l)
		if !keep {
			logger.Debug("filtered out", "url", l.URL, "reason", reason)
			continue
		}
		matched = append(matched, l)
	}

	newListings, err := p.deduper.Dedupe(matched)
	if err != nil {
		return fmt.Errorf("deduplicating: %w", err)
	}

	batch := p.scoreAll(ctx, newListings, logger)
	sort.SliceStable(batch, func(i, j int) bool {
		return batch[i].Score.Composite > batch[j].Score.Composite
	})

	if err := p.deliver(logger, batch); err != nil {
		return err
	}

	if err := p.markSeen(batch, start); err != nil {
		return err
	}

	logger.Info("run complete",
		"sources_ok", report.Succeeded(),
		"sources_failed", report.Failed(),
		"collected", len(listings),
		"fresh", len(fresh),
		"matched", len(matched),
		"new", len(batch),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// freshnessCut drops listings older than the profile's max age, measured
// from a single per-run clock. Listings without a posted date pass: a
// missing date is not evidence of staleness.
func (p *Pipeline) freshnessCut(listings []model.Listing, now time.Time) []model.Listing {
	if p.profile.MaxAgeDays <= 0 {
		return listings
	}
	cutoff := now.AddDate(0, 0, -p.profile.MaxAgeDays)

	kept := make([]model.Listing, 0, len(listings))
	for _, l := range listings {
		if l.PostedAt != nil && l.PostedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}

// scoreAll computes the composite score for every listing. Estimator
// failure never blocks a listing; it is logged and the listing keeps its
// rule score.
func (p *Pipeline) scoreAll(ctx context.Context, listings []model.Listing, logger *slog.Logger) []model.ScoredListing {
	batch := make([]model.ScoredListing, 0, len(listings))
	for _, l := range listings {
		fit, err := p.estimator.Estimate(ctx, l, p.profile.ResumeSummary)
		if err != nil {
			logger.Warn("fit estimation failed, keeping rule score", "url", l.URL, "error", err)
			fit = nil
		}
		batch = append(batch, model.ScoredListing{
			Listing: l,
			Score:   p.scorer.Compose(l, fit),
		})
	}
	return batch
}

// deliver hands the ranked batch to every reporter. Individual failures are
// logged; only all reporters failing is an error.
func (p *Pipeline) deliver(logger *slog.Logger, batch []model.ScoredListing) error {
	failures := 0
	var lastErr error
	for _, r := range p.reporters {
		if err := r.Deliver(batch); err != nil {
			logger.Error("reporter failed", "error", err)
			failures++
			lastErr = err
		}
	}
	if failures > 0 && failures == len(p.reporters) {
		return fmt.Errorf("all %d reporters failed: %w", failures, lastErr)
	}
	return nil
}

// markSeen records every delivered listing in the seen index so later runs
// skip it.
func (p *Pipeline) markSeen(batch []model.ScoredListing, firstSeen time.Time) error {
	for _, sl := range batch {
		entry := model.SeenEntry{
			URL:       sl.Listing.URL,
			Title:     sl.Listing.Title,
			TitleHash: dedupe.TitleHash(sl.Listing.Title),
			Company:   sl.Listing.Company,
			Source:    sl.Listing.Source,
			FirstSeen: firstSeen.UTC(),
			Score:     sl.Score.Composite,
			Status:    model.StatusNew,
		}
		if err := p.store.Insert(entry); err != nil {
			return fmt.Errorf("marking %s seen: %w", sl.Listing.URL, err)
		}
	}
	return nil
}

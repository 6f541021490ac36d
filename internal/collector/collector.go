package collector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jobsift/jobsift/internal/model"
)

// ErrAllSourcesFailed is returned when every configured source failed in a
// single pass. Partial failure is not an error; total failure is surfaced
// so the caller can choose between an empty digest and an abort.
var ErrAllSourcesFailed = errors.New("all sources failed")

// SourceResult records the outcome of one source in a collection pass.
type SourceResult struct {
	Name    string
	Count   int
	Elapsed time.Duration
	Err     error // nil on success
}

// Report summarizes every source's outcome for one pass.
type Report struct {
	Results []SourceResult
}

// Succeeded returns how many sources completed without error.
func (r Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns how many sources errored.
func (r Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// AllFailed reports a total collection failure.
func (r Report) AllFailed() bool {
	return len(r.Results) > 0 && r.Failed() == len(r.Results)
}

// Collector fans out over all configured sources with bounded concurrency
// and merges their listings after every source has finished or failed.
type Collector struct {
	sources       []model.Source
	sourceTimeout time.Duration
	maxConcurrent int
	logger        *slog.Logger
}

// New creates a Collector over the given sources.
func New(sources []model.Source, sourceTimeout time.Duration, maxConcurrent int, logger *slog.Logger) *Collector {
	return &Collector{
		sources:       sources,
		sourceTimeout: sourceTimeout,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// Collect invokes every source and concatenates the successful results in
// source registration order, preserving each source's own ordering. A
// failing source contributes zero listings and a logged entry in the
// report; only a pass where every source fails returns ErrAllSourcesFailed.
func (c *Collector) Collect(ctx context.Context) ([]model.Listing, Report, error) {
	results := make([]SourceResult, len(c.sources))
	batches := make([][]model.Listing, len(c.sources))

	g := new(errgroup.Group)
	g.SetLimit(c.maxConcurrent)
	for i, src := range c.sources {
		g.Go(func() error {
			start := time.Now()
			listings, err := c.collectOne(ctx, src)
			elapsed := time.Since(start)

			// Each goroutine writes only its own slot; the merge below
			// happens after Wait.
			if err != nil {
				c.logger.Warn("source failed",
					"source", src.Name(),
					"elapsed", elapsed,
					"error", err,
				)
				results[i] = SourceResult{Name: src.Name(), Elapsed: elapsed, Err: err}
				return nil
			}

			c.logger.Debug("source collected",
				"source", src.Name(),
				"count", len(listings),
				"elapsed", elapsed,
			)
			results[i] = SourceResult{Name: src.Name(), Count: len(listings), Elapsed: elapsed}
			batches[i] = listings
			return nil
		})
	}
	// The goroutines never return an error; failures live in the report.
	_ = g.Wait()

	var merged []model.Listing
	for _, batch := range batches {
		merged = append(merged, batch...)
	}

	report := Report{Results: results}
	if report.AllFailed() {
		return nil, report, ErrAllSourcesFailed
	}
	return merged, report, nil
}

// collectOne bounds a single source with the per-source timeout and keeps
// a panicking source from taking down the whole pass.
func (c *Collector) collectOne(ctx context.Context, src model.Source) (listings []model.Listing, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source panicked: %v", r)
		}
	}()

	srcCtx, cancel := context.WithTimeout(ctx, c.sourceTimeout)
	defer cancel()

	return src.Collect(srcCtx)
}

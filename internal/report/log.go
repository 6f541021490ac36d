package report

import (
	"log/slog"

	"github.com/jobsift/jobsift/internal/model"
)

// Ensure LogReporter implements model.Reporter.
var _ model.Reporter = (*LogReporter)(nil)

// LogReporter writes the ranked digest to the given logger as structured messages.
type LogReporter struct {
	logger *slog.Logger
}

// NewLogReporter returns a reporter that logs each match via slog.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Deliver logs each listing with rank, score, priority, company, title and URL.
// Returns nil (stderr logging does not fail).
func (r *LogReporter) Deliver(batch []model.ScoredListing) error {
	if len(batch) == 0 {
		r.logger.Info("no new matches")
		return nil
	}

	for i, sl := range batch {
		l := sl.Listing
		args := []any{
			"rank", i + 1,
			"score", sl.Score.Composite,
			"priority", sl.Score.Priority,
			"company", l.Company,
			"title", l.Title,
			"url", l.URL,
		}
		if l.PostedAt != nil {
			args = append(args, "posted_at", *l.PostedAt)
		}
		r.logger.Info("new match", args...)
	}
	return nil
}

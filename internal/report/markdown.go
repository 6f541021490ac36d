package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// Ensure MarkdownReporter implements model.Reporter.
var _ model.Reporter = (*MarkdownReporter)(nil)

// MarkdownReporter archives each run as a dated markdown file, one per day.
// Reruns on the same day overwrite the day's file with the latest digest.
type MarkdownReporter struct {
	dir    string
	logger *slog.Logger
}

// NewMarkdownReporter returns a reporter that writes {dir}/YYYY-MM-DD.md.
func NewMarkdownReporter(dir string, logger *slog.Logger) *MarkdownReporter {
	return &MarkdownReporter{dir: dir, logger: logger}
}

// Deliver renders the ranked batch grouped by priority bucket and writes it
// to today's report file. An empty batch still writes a stub so the archive
// has no gaps.
func (r *MarkdownReporter) Deliver(batch []model.ScoredListing) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create report dir %s: %w", r.dir, err)
	}

	today := time.Now().Format("2006-01-02")
	path := filepath.Join(r.dir, today+".md")

	if err := os.WriteFile(path, []byte(renderReport(today, batch)), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}

	r.logger.Info("markdown report written", "path", path, "matches", len(batch))
	return nil
}

func renderReport(today string, batch []model.ScoredListing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Job Search Report — %s\n\n", today)

	if len(batch) == 0 {
		b.WriteString("No new matching jobs found today.\n")
		return b.String()
	}

	var high, medium, low []model.ScoredListing
	for _, sl := range batch {
		switch sl.Score.Priority {
		case model.PriorityHigh:
			high = append(high, sl)
		case model.PriorityMedium:
			medium = append(medium, sl)
		default:
			low = append(low, sl)
		}
	}

	fmt.Fprintf(&b, "**%d new matches** — %d high, %d medium, %d low priority\n\n",
		len(batch), len(high), len(medium), len(low))

	writeSection(&b, "High Priority", high)
	writeSection(&b, "Worth a Look", medium)
	writeSection(&b, "Other Matches", low)

	return b.String()
}

func writeSection(b *strings.Builder, heading string, group []model.ScoredListing) {
	if len(group) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, sl := range group {
		writeEntry(b, sl)
	}
}

func writeEntry(b *strings.Builder, sl model.ScoredListing) {
	l := sl.Listing
	fmt.Fprintf(b, "### [%s](%s) — %s\n", l.Title, l.URL, l.Company)
	fmt.Fprintf(b, "**Score:** %.0f/100 | **Source:** %s\n", sl.Score.Composite, l.Source)

	switch {
	case l.SalaryMin > 0 && l.SalaryMax > 0:
		fmt.Fprintf(b, "**Salary:** %s–%s\n", dollars(l.SalaryMin), dollars(l.SalaryMax))
	case l.SalaryMin > 0:
		fmt.Fprintf(b, "**Salary:** %s+\n", dollars(l.SalaryMin))
	}

	if l.PostedAt != nil {
		fmt.Fprintf(b, "**Posted:** %s\n", formatPosted(*l.PostedAt))
	}
	if l.Location != "" {
		fmt.Fprintf(b, "**Location:** %s\n", l.Location)
	}
	if sl.Score.Fit != nil && sl.Score.Fit.Summary != "" {
		fmt.Fprintf(b, "\n%s\n", sl.Score.Fit.Summary)
	}
	b.WriteString("\n")
}

// formatPosted renders a posting date as a human-readable age.
func formatPosted(posted time.Time) string {
	days := int(time.Since(posted).Hours() / 24)
	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return posted.Format("2006-01-02")
	}
}

// dollars formats a non-negative amount with thousands separators.
func dollars(n int) string {
	s := strconv.Itoa(n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return "$" + b.String()
}

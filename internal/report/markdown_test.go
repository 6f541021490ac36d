package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

func readTodayReport(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, time.Now().Format("2006-01-02")+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	return string(data)
}

func TestMarkdownDeliver_GroupsByPriority(t *testing.T) {
	dir := t.TempDir()
	r := NewMarkdownReporter(dir, discardLogger())

	batch := []model.ScoredListing{
		scored("Customer Success Manager", "Huntress", 45, model.PriorityHigh),
		scored("Technical Account Manager", "Acme", 25, model.PriorityMedium),
		scored("Support Engineer", "Beta", 12, model.PriorityLow),
	}

	if err := r.Deliver(batch); err != nil {
		t.Fatalf("Deliver() = %v, want nil", err)
	}

	content := readTodayReport(t, dir)

	if !strings.Contains(content, "# Job Search Report — "+time.Now().Format("2006-01-02")) {
		t.Error("missing dated report header")
	}
	if !strings.Contains(content, "**3 new matches** — 1 high, 1 medium, 1 low priority") {
		t.Errorf("missing counts line:\n%s", content)
	}

	highIdx := strings.Index(content, "## High Priority")
	mediumIdx := strings.Index(content, "## Worth a Look")
	lowIdx := strings.Index(content, "## Other Matches")
	if highIdx == -1 || mediumIdx == -1 || lowIdx == -1 {
		t.Fatalf("missing a priority section:\n%s", content)
	}
	if !(highIdx < mediumIdx && mediumIdx < lowIdx) {
		t.Errorf("sections out of order: high=%d medium=%d low=%d", highIdx, mediumIdx, lowIdx)
	}

	if !strings.Contains(content, "### [Customer Success Manager](https://example.com/jobs/Customer Success Manager) — Huntress") {
		t.Errorf("missing linked entry heading:\n%s", content)
	}
	if !strings.Contains(content, "**Score:** 45/100 | **Source:** greenhouse") {
		t.Errorf("missing score line:\n%s", content)
	}
}

func TestMarkdownDeliver_EmptyRunWritesStub(t *testing.T) {
	dir := t.TempDir()
	r := NewMarkdownReporter(dir, discardLogger())

	if err := r.Deliver(nil); err != nil {
		t.Fatalf("Deliver(nil) = %v, want nil", err)
	}

	content := readTodayReport(t, dir)
	if !strings.Contains(content, "No new matching jobs found today.") {
		t.Errorf("expected empty-run stub, got:\n%s", content)
	}
}

func TestMarkdownDeliver_CreatesReportDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	r := NewMarkdownReporter(dir, discardLogger())

	if err := r.Deliver(nil); err != nil {
		t.Fatalf("Deliver() = %v, want nil", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("report dir was not created: %v", err)
	}
}

func TestRenderReport_OmitsEmptySections(t *testing.T) {
	batch := []model.ScoredListing{
		scored("Customer Success Manager", "Acme", 45, model.PriorityHigh),
	}
	content := renderReport("2026-08-22", batch)

	if !strings.Contains(content, "## High Priority") {
		t.Error("missing high priority section")
	}
	if strings.Contains(content, "## Worth a Look") || strings.Contains(content, "## Other Matches") {
		t.Errorf("expected empty sections to be omitted:\n%s", content)
	}
}

func TestRenderReport_SalaryAndFitSummary(t *testing.T) {
	sl := scored("Customer Success Manager", "Acme", 60, model.PriorityHigh)
	sl.Listing.SalaryMin = 70000
	sl.Listing.SalaryMax = 90000
	sl.Score.Fit = &model.FitResult{Score: 15, Summary: "Strong overlap with onboarding experience."}

	content := renderReport("2026-08-22", []model.ScoredListing{sl})

	if !strings.Contains(content, "**Salary:** $70,000–$90,000") {
		t.Errorf("missing salary range:\n%s", content)
	}
	if !strings.Contains(content, "Strong overlap with onboarding experience.") {
		t.Errorf("missing fit summary:\n%s", content)
	}

	// Min-only salary renders open-ended.
	sl.Listing.SalaryMax = 0
	content = renderReport("2026-08-22", []model.ScoredListing{sl})
	if !strings.Contains(content, "**Salary:** $70,000+") {
		t.Errorf("missing open-ended salary:\n%s", content)
	}
}

func TestFormatPosted(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		posted time.Time
		want   string
	}{
		{"today", now.Add(-2 * time.Hour), "Today"},
		{"yesterday", now.AddDate(0, 0, -1), "Yesterday"},
		{"three days ago", now.AddDate(0, 0, -3), "3 days ago"},
		{"old posting falls back to date", now.AddDate(0, 0, -30), now.AddDate(0, 0, -30).Format("2006-01-02")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatPosted(tc.posted); got != tc.want {
				t.Errorf("formatPosted() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDollars(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{900, "$900"},
		{70000, "$70,000"},
		{135000, "$135,000"},
		{1250000, "$1,250,000"},
	}

	for _, tc := range tests {
		if got := dollars(tc.n); got != tc.want {
			t.Errorf("dollars(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
profile:
  role_keywords:
    - customer success
    - account manager
  salary_floor: 100000
  salary_target: 130000
  priority_companies:
    - Huntress
sources:
  greenhouse:
    - company: Acme Corp
      board: acme
  remoteok:
    enabled: true
collector:
  source_timeout: 10s
  max_concurrent: 2
report:
  types: [log, markdown]
  dir: out
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Profile.RoleKeywords) != 2 || cfg.Profile.RoleKeywords[0] != "customer success" {
		t.Errorf("RoleKeywords = %v", cfg.Profile.RoleKeywords)
	}
	if cfg.Profile.SalaryFloor != 100000 || cfg.Profile.SalaryTarget != 130000 {
		t.Errorf("salary floor/target = %d/%d", cfg.Profile.SalaryFloor, cfg.Profile.SalaryTarget)
	}
	if len(cfg.Sources.Greenhouse) != 1 || cfg.Sources.Greenhouse[0].Board != "acme" {
		t.Errorf("Greenhouse = %+v", cfg.Sources.Greenhouse)
	}
	if !cfg.Sources.RemoteOK.Enabled {
		t.Error("RemoteOK should be enabled")
	}
	if cfg.Sources.Count() != 2 {
		t.Errorf("Sources.Count() = %d, want 2", cfg.Sources.Count())
	}
	if cfg.Collector.SourceTimeout != 10*time.Second {
		t.Errorf("SourceTimeout = %v, want 10s", cfg.Collector.SourceTimeout)
	}
	if cfg.Collector.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent = %d, want 2", cfg.Collector.MaxConcurrent)
	}
	if cfg.Report.Dir != "out" {
		t.Errorf("Report.Dir = %q, want out", cfg.Report.Dir)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
profile:
  role_keywords: [engineer]
sources:
  remoteok:
    enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Path != "jobsift.db" {
		t.Errorf("Store.Path = %q, want jobsift.db", cfg.Store.Path)
	}
	if cfg.Profile.MaxAgeDays != 30 {
		t.Errorf("MaxAgeDays = %d, want 30", cfg.Profile.MaxAgeDays)
	}
	if len(cfg.Profile.SeniorityExcludes) == 0 {
		t.Error("SeniorityExcludes default missing")
	}
	if len(cfg.Profile.OnsiteSignals) == 0 {
		t.Error("OnsiteSignals default missing")
	}
	if cfg.Dedupe.SimilarityThreshold != 85 {
		t.Errorf("SimilarityThreshold = %d, want 85", cfg.Dedupe.SimilarityThreshold)
	}
	if cfg.Scoring.RuleMax != 50 || cfg.Scoring.CompositeMax != 100 {
		t.Errorf("score maxima = %v/%v, want 50/100", cfg.Scoring.RuleMax, cfg.Scoring.CompositeMax)
	}
	if cfg.Scoring.HighCutoff != 30 || cfg.Scoring.MediumCutoff != 20 {
		t.Errorf("cutoffs = %v/%v, want 30/20", cfg.Scoring.HighCutoff, cfg.Scoring.MediumCutoff)
	}
	if cfg.Daemon.Schedule != "@daily" {
		t.Errorf("Daemon.Schedule = %q, want @daily", cfg.Daemon.Schedule)
	}
	if cfg.RateLimit.MinDelayFor("greenhouse") != 2*time.Second {
		t.Errorf("MinDelayFor = %v, want 2s", cfg.RateLimit.MinDelayFor("greenhouse"))
	}
}

func TestLoad_ExplicitZeroMaxAge(t *testing.T) {
	path := writeConfig(t, `
profile:
  role_keywords: [engineer]
  max_age_days: 0
sources:
  remoteok:
    enabled: true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Profile.MaxAgeDays != 0 {
		t.Errorf("MaxAgeDays = %d, want 0 (explicitly disabled)", cfg.Profile.MaxAgeDays)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("JOBSIFT_TEST_WEBHOOK", "https://hooks.slack.com/services/T00/B00/token")

	path := writeConfig(t, `
profile:
  role_keywords: [engineer]
sources:
  remoteok:
    enabled: true
report:
  types: [slack]
  webhook_url: ${JOBSIFT_TEST_WEBHOOK}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Report.WebhookURL != "https://hooks.slack.com/services/T00/B00/token" {
		t.Errorf("WebhookURL = %q, env var not expanded", cfg.Report.WebhookURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err == nil {
		t.Fatal("Load: expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "profile: [broken")
	if _, err := Load(path); err == nil {
		t.Fatal("Load: expected error for invalid YAML")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "no role keywords",
			content: `
sources:
  remoteok:
    enabled: true
`,
		},
		{
			name: "no sources",
			content: `
profile:
  role_keywords: [engineer]
`,
		},
		{
			name: "negative salary floor",
			content: `
profile:
  role_keywords: [engineer]
  salary_floor: -1
sources:
  remoteok:
    enabled: true
`,
		},
		{
			name: "threshold out of range",
			content: `
profile:
  role_keywords: [engineer]
dedupe:
  similarity_threshold: 150
sources:
  remoteok:
    enabled: true
`,
		},
		{
			name: "medium cutoff above high cutoff",
			content: `
profile:
  role_keywords: [engineer]
scoring:
  high_cutoff: 20
  medium_cutoff: 30
sources:
  remoteok:
    enabled: true
`,
		},
		{
			name: "greenhouse board missing token",
			content: `
profile:
  role_keywords: [engineer]
sources:
  greenhouse:
    - company: Acme Corp
`,
		},
		{
			name: "workday missing tenant",
			content: `
profile:
  role_keywords: [engineer]
sources:
  workday:
    - company: Acme Corp
      host: acme.wd5.myworkdayjobs.com
      site: acmecareers
`,
		},
		{
			name: "unknown report type",
			content: `
profile:
  role_keywords: [engineer]
sources:
  remoteok:
    enabled: true
report:
  types: [carrier-pigeon]
`,
		},
		{
			name: "slack without webhook",
			content: `
profile:
  role_keywords: [engineer]
sources:
  remoteok:
    enabled: true
report:
  types: [slack]
`,
		},
		{
			name: "slack webhook wrong host",
			content: `
profile:
  role_keywords: [engineer]
sources:
  remoteok:
    enabled: true
report:
  types: [slack]
  webhook_url: https://example.com/hook
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := Load(path); err == nil {
				t.Fatal("Load: expected validation error")
			}
		})
	}
}

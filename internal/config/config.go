package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobsift.
type Config struct {
	Store     StoreConfig
	Collector CollectorConfig
	RateLimit RateLimitConfig
	Profile   Profile
	Scoring   Scoring
	Dedupe    DedupeConfig
	Sources   SourcesConfig
	Report    ReportConfig
	Daemon    DaemonConfig
}

// StoreConfig locates the seen-listing database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// CollectorConfig bounds the source fan-out.
type CollectorConfig struct {
	SourceTimeout time.Duration // per-source budget before it counts as failed
	MaxConcurrent int           // sources collected in parallel
}

// RateLimitConfig controls board-level request spacing.
type RateLimitConfig struct {
	MinDelay        time.Duration            // minimum gap between requests to the same board backend
	SourceOverrides map[string]time.Duration // per-board overrides, keyed by source name
}

// MinDelayFor returns the configured delay for the given source, falling back to MinDelay.
func (r RateLimitConfig) MinDelayFor(source string) time.Duration {
	if d, ok := r.SourceOverrides[source]; ok {
		return d
	}
	return r.MinDelay
}

// Profile is the immutable snapshot of the user's search criteria.
// Filter and Scorer receive it by value so nothing mutates shared state mid-run.
type Profile struct {
	RoleKeywords      []string `yaml:"role_keywords"`      // title must contain at least one
	SeniorityExcludes []string `yaml:"seniority_excludes"` // title must contain none
	OnsiteSignals     []string `yaml:"onsite_signals"`     // description phrases that mark a non-remote role
	LocationExcludes  []string `yaml:"location_excludes"`  // title/location keywords to reject outright
	SalaryFloor       int      `yaml:"salary_floor"`       // reject when a known salary_max sits below this
	SalaryTarget      int      `yaml:"salary_target"`      // full salary bonus at or above this
	MaxAgeDays        int      `yaml:"max_age_days"`       // drop postings older than this, 0 disables
	PriorityCompanies []string `yaml:"priority_companies"`
	IndustryKeywords  []string `yaml:"industry_keywords"`
	AlignmentKeywords []string `yaml:"alignment_keywords"`
	PrimaryTitles     []string `yaml:"primary_titles"`   // highest title tier
	SecondaryTitles   []string `yaml:"secondary_titles"` // middle title tier
	ResumeSummary     string   `yaml:"resume_summary"`   // handed to fit estimators verbatim
}

// Scoring holds every weight, cap and cutoff the scorer uses.
type Scoring struct {
	TitlePrimary      float64 `yaml:"title_primary"`
	TitleSecondary    float64 `yaml:"title_secondary"`
	TitleBase         float64 `yaml:"title_base"`
	PriorityCompany   float64 `yaml:"priority_company"`
	IndustryPerMatch  float64 `yaml:"industry_per_match"`
	IndustryMax       float64 `yaml:"industry_max"`
	SalaryFull        float64 `yaml:"salary_full"`
	SalaryPartial     float64 `yaml:"salary_partial"`
	AlignmentPerMatch float64 `yaml:"alignment_per_match"`
	AlignmentMax      float64 `yaml:"alignment_max"`
	RuleMax           float64 `yaml:"rule_max"`
	FitMax            float64 `yaml:"fit_max"`
	CompositeMax      float64 `yaml:"composite_max"`
	HighCutoff        float64 `yaml:"high_cutoff"`
	MediumCutoff      float64 `yaml:"medium_cutoff"`
}

// DedupeConfig controls intra-run fuzzy matching.
type DedupeConfig struct {
	SimilarityThreshold int `yaml:"similarity_threshold"` // 0-100, duplicates must score strictly above
}

// SourcesConfig lists the boards to collect from.
type SourcesConfig struct {
	Greenhouse []GreenhouseBoard `yaml:"greenhouse"`
	Lever      []LeverSite       `yaml:"lever"`
	Workday    []WorkdaySite     `yaml:"workday"`
	RemoteOK   RemoteOKConfig    `yaml:"remoteok"`
}

// Count returns the number of configured sources.
func (s SourcesConfig) Count() int {
	n := len(s.Greenhouse) + len(s.Lever) + len(s.Workday)
	if s.RemoteOK.Enabled {
		n++
	}
	return n
}

// GreenhouseBoard describes one Greenhouse job board.
type GreenhouseBoard struct {
	Company string `yaml:"company"`
	Board   string `yaml:"board"` // boards-api token, e.g. "stripe"
}

// LeverSite describes one Lever postings site.
type LeverSite struct {
	Company string `yaml:"company"`
	Site    string `yaml:"site"` // api.lever.co site token
}

// WorkdaySite describes one Workday CXS endpoint.
type WorkdaySite struct {
	Company    string `yaml:"company"`
	Host       string `yaml:"host"`   // e.g. "acme.wd5.myworkdayjobs.com"
	Tenant     string `yaml:"tenant"` // e.g. "acme"
	Site       string `yaml:"site"`   // e.g. "acmecareers"
	SearchText string `yaml:"search_text"`
	MaxPages   int    `yaml:"max_pages"`
}

// RemoteOKConfig enables the RemoteOK feed.
type RemoteOKConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ReportConfig selects and parameterizes the delivery targets.
type ReportConfig struct {
	Types      []string `yaml:"types"`       // any of "log", "markdown", "slack"
	Dir        string   `yaml:"dir"`         // markdown output directory
	WebhookURL string   `yaml:"webhook_url"` // required when "slack" is listed
}

// DaemonConfig controls the daemon command's schedule.
type DaemonConfig struct {
	Schedule string `yaml:"schedule"` // cron spec, also accepts "@daily" style descriptors
}

// rawConfig adds string-typed durations on top of the final types for YAML unmarshaling.
type rawConfig struct {
	Store     StoreConfig   `yaml:"store"`
	Collector rawCollector  `yaml:"collector"`
	RateLimit rawRateLimit  `yaml:"rate_limit"`
	Profile   Profile       `yaml:"profile"`
	Scoring   Scoring       `yaml:"scoring"`
	Dedupe    DedupeConfig  `yaml:"dedupe"`
	Sources   SourcesConfig `yaml:"sources"`
	Report    ReportConfig  `yaml:"report"`
	Daemon    DaemonConfig  `yaml:"daemon"`
}

type rawCollector struct {
	SourceTimeout string `yaml:"source_timeout"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type rawRateLimit struct {
	MinDelay        string            `yaml:"min_delay"`
	SourceOverrides map[string]string `yaml:"source_overrides"`
}

// defaultRaw returns a rawConfig pre-filled with defaults. Unmarshaling the
// user's file over it only touches the fields the file actually sets, so an
// explicit zero sticks while an absent field keeps its default.
func defaultRaw() rawConfig {
	return rawConfig{
		Store: StoreConfig{Path: "jobsift.db"},
		Collector: rawCollector{
			SourceTimeout: "30s",
			MaxConcurrent: 4,
		},
		RateLimit: rawRateLimit{MinDelay: "2s"},
		Profile: Profile{
			SeniorityExcludes: []string{"junior", "associate", "entry level", "intern"},
			OnsiteSignals: []string{
				"on-site only", "onsite only", "on site only",
				"in-office only", "in office only",
				"no remote", "not remote", "office-based",
				"must be located in", "must reside in", "must be based in",
				"relocation required", "hybrid required",
			},
			MaxAgeDays: 30,
		},
		Scoring: Scoring{
			TitlePrimary:      15,
			TitleSecondary:    10,
			TitleBase:         5,
			PriorityCompany:   10,
			IndustryPerMatch:  2.5,
			IndustryMax:       10,
			SalaryFull:        10,
			SalaryPartial:     5,
			AlignmentPerMatch: 1,
			AlignmentMax:      5,
			RuleMax:           50,
			FitMax:            50,
			CompositeMax:      100,
			HighCutoff:        30,
			MediumCutoff:      20,
		},
		Dedupe: DedupeConfig{SimilarityThreshold: 85},
		Report: ReportConfig{
			Types: []string{"log"},
			Dir:   "reports",
		},
		Daemon: DaemonConfig{Schedule: "@daily"},
	}
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	raw := defaultRaw()
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	sourceTimeout, err := time.ParseDuration(raw.Collector.SourceTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse collector.source_timeout %q: %w", raw.Collector.SourceTimeout, err)
	}

	minDelay, err := time.ParseDuration(raw.RateLimit.MinDelay)
	if err != nil {
		return nil, fmt.Errorf("parse rate_limit.min_delay %q: %w", raw.RateLimit.MinDelay, err)
	}

	overrides := make(map[string]time.Duration)
	for source, val := range raw.RateLimit.SourceOverrides {
		d, err := time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("parse rate_limit.source_overrides[%q]: %w", source, err)
		}
		overrides[source] = d
	}

	cfg := &Config{
		Store: raw.Store,
		Collector: CollectorConfig{
			SourceTimeout: sourceTimeout,
			MaxConcurrent: raw.Collector.MaxConcurrent,
		},
		RateLimit: RateLimitConfig{
			MinDelay:        minDelay,
			SourceOverrides: overrides,
		},
		Profile: raw.Profile,
		Scoring: raw.Scoring,
		Dedupe:  raw.Dedupe,
		Sources: raw.Sources,
		Report:  raw.Report,
		Daemon:  raw.Daemon,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if cfg.Collector.SourceTimeout <= 0 {
		return fmt.Errorf("collector.source_timeout must be positive, got %v", cfg.Collector.SourceTimeout)
	}
	if cfg.Collector.MaxConcurrent < 1 {
		return fmt.Errorf("collector.max_concurrent must be at least 1, got %d", cfg.Collector.MaxConcurrent)
	}

	if len(cfg.Profile.RoleKeywords) == 0 {
		return fmt.Errorf("profile.role_keywords must list at least one keyword")
	}
	if cfg.Profile.SalaryFloor < 0 {
		return fmt.Errorf("profile.salary_floor must not be negative, got %d", cfg.Profile.SalaryFloor)
	}
	if cfg.Profile.SalaryTarget < 0 {
		return fmt.Errorf("profile.salary_target must not be negative, got %d", cfg.Profile.SalaryTarget)
	}
	if cfg.Profile.MaxAgeDays < 0 {
		return fmt.Errorf("profile.max_age_days must not be negative, got %d", cfg.Profile.MaxAgeDays)
	}

	if t := cfg.Dedupe.SimilarityThreshold; t < 0 || t > 100 {
		return fmt.Errorf("dedupe.similarity_threshold must be between 0 and 100, got %d", t)
	}

	if cfg.Scoring.MediumCutoff > cfg.Scoring.HighCutoff {
		return fmt.Errorf("scoring.medium_cutoff (%v) must not exceed scoring.high_cutoff (%v)",
			cfg.Scoring.MediumCutoff, cfg.Scoring.HighCutoff)
	}
	if cfg.Scoring.RuleMax <= 0 {
		return fmt.Errorf("scoring.rule_max must be positive, got %v", cfg.Scoring.RuleMax)
	}
	if cfg.Scoring.CompositeMax <= 0 {
		return fmt.Errorf("scoring.composite_max must be positive, got %v", cfg.Scoring.CompositeMax)
	}

	if cfg.Sources.Count() == 0 {
		return fmt.Errorf("at least one source must be configured")
	}
	for i, b := range cfg.Sources.Greenhouse {
		if b.Company == "" || b.Board == "" {
			return fmt.Errorf("sources.greenhouse[%d] needs both company and board", i)
		}
	}
	for i, l := range cfg.Sources.Lever {
		if l.Company == "" || l.Site == "" {
			return fmt.Errorf("sources.lever[%d] needs both company and site", i)
		}
	}
	for i, w := range cfg.Sources.Workday {
		if w.Company == "" || w.Host == "" || w.Tenant == "" || w.Site == "" {
			return fmt.Errorf("sources.workday[%d] needs company, host, tenant and site", i)
		}
	}

	for _, typ := range cfg.Report.Types {
		switch typ {
		case "log", "markdown", "slack":
		default:
			return fmt.Errorf("report.types contains unknown type %q", typ)
		}
	}
	if hasReportType(cfg.Report.Types, "markdown") && cfg.Report.Dir == "" {
		return fmt.Errorf("report.dir is required when report.types includes \"markdown\"")
	}
	if hasReportType(cfg.Report.Types, "slack") {
		if cfg.Report.WebhookURL == "" {
			return fmt.Errorf("report.webhook_url is required when report.types includes \"slack\"")
		}
		if !strings.HasPrefix(cfg.Report.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("report.webhook_url must start with https://hooks.slack.com/")
		}
	}

	return nil
}

func hasReportType(types []string, want string) bool {
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

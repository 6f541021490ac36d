package scorer

import (
	"math"
	"strings"

	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/model"
)

// Scorer computes rule-based scores for listings against a profile
// snapshot. Pure: same listing and profile always yield the same score.
type Scorer struct {
	profile config.Profile
	weights config.Scoring
}

// New returns a Scorer bound to an immutable profile and weight set.
func New(profile config.Profile, weights config.Scoring) *Scorer {
	return &Scorer{
		profile: profile,
		weights: weights,
	}
}

// RuleScore sums the weighted contributions for one listing and clamps
// the result to [0, rule_max].
func (s *Scorer) RuleScore(l model.Listing) float64 {
	desc := strings.ToLower(l.Description)

	score := s.titleScore(l.Title)
	score += s.companyScore(l.Company)
	score += keywordScore(desc, s.profile.IndustryKeywords, s.weights.IndustryPerMatch, s.weights.IndustryMax)
	score += s.salaryScore(l.SalaryMin)
	score += keywordScore(desc, s.profile.AlignmentKeywords, s.weights.AlignmentPerMatch, s.weights.AlignmentMax)

	return clamp(score, 0, s.weights.RuleMax)
}

// Compose combines the rule score with an optional fit estimate into the
// final Score. A nil fit degrades to rule-score-only. The fit contribution
// is clamped to [0, fit_max] and the composite to [0, composite_max].
func (s *Scorer) Compose(l model.Listing, fit *model.FitResult) model.Score {
	rule := s.RuleScore(l)
	composite := rule

	var bounded *model.FitResult
	if fit != nil {
		f := *fit
		f.Score = clamp(f.Score, 0, s.weights.FitMax)
		bounded = &f
		composite += f.Score
	}
	composite = clamp(composite, 0, s.weights.CompositeMax)

	return model.Score{
		Rule:      rule,
		Composite: composite,
		Priority:  s.bucket(composite),
		Fit:       bounded,
	}
}

// titleScore awards the highest matching tier only; tiers never stack.
func (s *Scorer) titleScore(title string) float64 {
	lower := strings.ToLower(title)
	if containsAny(lower, s.profile.PrimaryTitles) {
		return s.weights.TitlePrimary
	}
	if containsAny(lower, s.profile.SecondaryTitles) {
		return s.weights.TitleSecondary
	}
	return s.weights.TitleBase
}

func (s *Scorer) companyScore(company string) float64 {
	if containsAny(strings.ToLower(company), s.profile.PriorityCompanies) {
		return s.weights.PriorityCompany
	}
	return 0
}

// salaryScore awards the full bonus at or above the target, the partial
// bonus at or above 85% of it, nothing below that or when the minimum is
// unknown.
func (s *Scorer) salaryScore(salaryMin int) float64 {
	if salaryMin <= 0 {
		return 0
	}
	if salaryMin >= s.profile.SalaryTarget {
		return s.weights.SalaryFull
	}
	acceptable := int(0.85 * float64(s.profile.SalaryTarget))
	if salaryMin >= acceptable {
		return s.weights.SalaryPartial
	}
	return 0
}

func (s *Scorer) bucket(composite float64) model.Priority {
	switch {
	case composite >= s.weights.HighCutoff:
		return model.PriorityHigh
	case composite >= s.weights.MediumCutoff:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// keywordScore counts how many distinct keywords appear in text and awards
// perMatch for each, capped at max. Repeats of one keyword count once.
func keywordScore(text string, keywords []string, perMatch, max float64) float64 {
	if text == "" || len(keywords) == 0 {
		return 0
	}
	var n int
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			n++
		}
	}
	return math.Min(float64(n)*perMatch, max)
}

// containsAny reports whether lower contains any of the candidates,
// case-insensitively.
func containsAny(lower string, candidates []string) bool {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(c)) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

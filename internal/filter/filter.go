package filter

import (
	"strings"

	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/model"
)

// HardFilter rejects listings that fail the profile's hard constraints.
// Pure: no clock, no I/O; the same listing and profile always produce the
// same verdict. Matching is case-insensitive substring throughout.
type HardFilter struct {
	profile config.Profile
}

// New returns a HardFilter bound to an immutable profile snapshot.
func New(profile config.Profile) *HardFilter {
	return &HardFilter{profile: profile}
}

// Keep returns true when the listing clears every hard constraint.
func (f *HardFilter) Keep(l model.Listing) bool {
	ok, _ := f.Verdict(l)
	return ok
}

// Verdict reports whether the listing passes, and when it does not, which
// constraint rejected it.
func (f *HardFilter) Verdict(l model.Listing) (bool, string) {
	title := strings.ToLower(l.Title)
	location := strings.ToLower(l.Location)
	desc := strings.ToLower(l.Description)

	// A non-remote listing is fine unless the posting says so outright.
	if !l.Remote {
		if signal, hit := matchAny(desc, f.profile.OnsiteSignals); hit {
			return false, "on-site signal: " + signal
		}
	}

	// An empty keyword list passes everything; config validation normally
	// guarantees at least one entry.
	if len(f.profile.RoleKeywords) > 0 {
		if _, hit := matchAny(title, f.profile.RoleKeywords); !hit {
			return false, "no role keyword in title"
		}
	}

	if kw, hit := matchAny(title, f.profile.SeniorityExcludes); hit {
		return false, "seniority exclude: " + kw
	}

	// Unknown salary never rejects; a known ceiling below the floor does.
	if l.SalaryMax > 0 && l.SalaryMax < f.profile.SalaryFloor {
		return false, "salary below floor"
	}

	if kw, hit := matchAny(title, f.profile.LocationExcludes); hit {
		return false, "excluded location: " + kw
	}
	if kw, hit := matchAny(location, f.profile.LocationExcludes); hit {
		return false, "excluded location: " + kw
	}

	return true, ""
}

// matchAny returns the first keyword found in lower, case-insensitively.
func matchAny(lower string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return kw, true
		}
	}
	return "", false
}

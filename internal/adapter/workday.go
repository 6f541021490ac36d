package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

const workdayPageSize = 20

// workdaySearchRequest is the POST body for the Workday CXS jobs endpoint.
type workdaySearchRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

// workdaySearchResponse is one page of the Workday CXS jobs endpoint.
type workdaySearchResponse struct {
	Total       int              `json:"total"`
	JobPostings []workdayPosting `json:"jobPostings"`
}

type workdayPosting struct {
	Title         string `json:"title"`
	ExternalPath  string `json:"externalPath"`
	LocationsText string `json:"locationsText"`
	PostedOn      string `json:"postedOn"`
}

// WorkdaySource collects listings from a Workday career site via the
// unauthenticated CXS search endpoint.
type WorkdaySource struct {
	company    string
	host       string
	tenant     string
	site       string
	searchText string
	maxPages   int // 0 = no page cap
	client     *http.Client
	baseURL    string
}

// NewWorkdaySource creates a source for a single Workday career site.
// host is the myworkdayjobs.com hostname, tenant and site the CXS path
// segments (e.g. "acme.wd5.myworkdayjobs.com", "acme", "acmecareers").
func NewWorkdaySource(company, host, tenant, site, searchText string, maxPages int, client *http.Client) *WorkdaySource {
	return &WorkdaySource{
		company:    company,
		host:       host,
		tenant:     tenant,
		site:       site,
		searchText: searchText,
		maxPages:   maxPages,
		client:     client,
		baseURL:    "https://" + host,
	}
}

// Name identifies the source in logs and collection reports.
func (s *WorkdaySource) Name() string {
	return "workday/" + s.tenant
}

// Collect paginates through the search endpoint (pages of 20, capped at
// maxPages when set) and normalizes the postings into listing records.
// Workday only exposes listing-level data here; salary stays unknown and
// the posting date is approximated from the relative postedOn text.
func (s *WorkdaySource) Collect(ctx context.Context) ([]model.Listing, error) {
	var listings []model.Listing
	offset := 0

	for page := 0; s.maxPages <= 0 || page < s.maxPages; page++ {
		searchResp, err := s.searchPage(ctx, offset)
		if err != nil {
			return nil, err
		}

		for _, p := range searchResp.JobPostings {
			listings = append(listings, s.listingFromPosting(p))
		}

		offset += workdayPageSize
		if offset >= searchResp.Total || len(searchResp.JobPostings) == 0 {
			break
		}
	}

	return listings, nil
}

func (s *WorkdaySource) searchPage(ctx context.Context, offset int) (*workdaySearchResponse, error) {
	body := workdaySearchRequest{
		AppliedFacets: map[string]any{},
		Limit:         workdayPageSize,
		Offset:        offset,
		SearchText:    s.searchText,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("workday search marshal for %s: %w", s.company, err)
	}

	url := fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", s.baseURL, s.tenant, s.site)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("workday search request for %s: %w", s.company, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("workday search fetch for %s: %w", s.company, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("workday search fetch for %s: unexpected status %d", s.company, resp.StatusCode),
		}
	}

	var searchResp workdaySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("workday search decode for %s: %w", s.company, err)
	}

	return &searchResp, nil
}

func (s *WorkdaySource) listingFromPosting(p workdayPosting) model.Listing {
	l := model.Listing{
		Title:    p.Title,
		Company:  s.company,
		URL:      s.postingURL(p.ExternalPath),
		Source:   "workday",
		Location: p.LocationsText,
		Remote:   mentionsRemote(p.Title, p.LocationsText),
	}
	l.PostedAt = parsePostedOn(p.PostedOn)
	return l
}

// postingURL builds the public job page URL from the CXS externalPath.
func (s *WorkdaySource) postingURL(externalPath string) string {
	return fmt.Sprintf("https://%s/%s/%s", s.host, s.site, strings.TrimPrefix(externalPath, "/"))
}

var daysAgoRegex = regexp.MustCompile(`^Posted (\d+) Days? Ago$`)

// parsePostedOn converts a Workday relative date string to an approximate timestamp.
func parsePostedOn(postedOn string) *time.Time {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch postedOn {
	case "Posted Today":
		return &today
	case "Posted Yesterday":
		t := today.AddDate(0, 0, -1)
		return &t
	}

	if n, ok := parseDaysAgo(postedOn); ok {
		t := today.AddDate(0, 0, -n)
		return &t
	}

	// "Posted 30+ Days Ago" or unknown → nil
	return nil
}

func parseDaysAgo(s string) (int, bool) {
	matches := daysAgoRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, false
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

const leverBaseURL = "https://api.lever.co/v0/postings"

// leverCategories represents the categories object in a Lever posting.
type leverCategories struct {
	Team         string   `json:"team"`
	Department   string   `json:"department"`
	Location     string   `json:"location"`
	Commitment   string   `json:"commitment"`
	AllLocations []string `json:"allLocations"`
}

// leverPosting represents a single posting in the Lever API response.
type leverPosting struct {
	ID               string          `json:"id"`
	Text             string          `json:"text"`
	DescriptionPlain string          `json:"descriptionPlain"`
	Categories       leverCategories `json:"categories"`
	CreatedAt        int64           `json:"createdAt"`
	WorkplaceType    string          `json:"workplaceType"`
	HostedURL        string          `json:"hostedUrl"`
}

// LeverSource collects listings from the Lever public postings API.
type LeverSource struct {
	company string
	site    string
	client  *http.Client
	baseURL string
}

// NewLeverSource creates a source for a single Lever site.
func NewLeverSource(company string, site string, client *http.Client) *LeverSource {
	return &LeverSource{
		company: company,
		site:    site,
		client:  client,
		baseURL: leverBaseURL,
	}
}

// Name identifies the source in logs and collection reports.
func (s *LeverSource) Name() string {
	return "lever/" + s.site
}

// Collect retrieves all postings on the site and normalizes them into
// listing records.
func (s *LeverSource) Collect(ctx context.Context) ([]model.Listing, error) {
	url := fmt.Sprintf("%s/%s?mode=json", s.baseURL, s.site)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", s.site, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", s.site, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("lever fetch for %s: unexpected status %d", s.site, resp.StatusCode),
		}
	}

	var postings []leverPosting
	if err := json.NewDecoder(resp.Body).Decode(&postings); err != nil {
		return nil, fmt.Errorf("lever fetch for %s: %w", s.site, err)
	}

	listings := make([]model.Listing, 0, len(postings))
	for _, p := range postings {
		// Prefer allLocations when present, fall back to the single location.
		location := p.Categories.Location
		if len(p.Categories.AllLocations) > 0 {
			location = strings.Join(p.Categories.AllLocations, ", ")
		}

		l := model.Listing{
			Title:       p.Text,
			Company:     s.company,
			URL:         p.HostedURL,
			Source:      "lever",
			Description: p.DescriptionPlain,
			Location:    location,
			Remote:      strings.EqualFold(p.WorkplaceType, "remote") || mentionsRemote(location),
		}

		// createdAt is Unix milliseconds.
		if p.CreatedAt > 0 {
			t := time.UnixMilli(p.CreatedAt).UTC()
			l.PostedAt = &t
		}

		listings = append(listings, l)
	}

	return listings, nil
}

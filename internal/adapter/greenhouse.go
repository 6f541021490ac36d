package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1/boards"

// greenhouseJob represents a single job in the Greenhouse API response.
type greenhouseJob struct {
	ID             int64              `json:"id"`
	Title          string             `json:"title"`
	Location       greenhouseLocation `json:"location"`
	AbsoluteURL    string             `json:"absolute_url"`
	Content        string             `json:"content"`
	FirstPublished string             `json:"first_published"`
	UpdatedAt      string             `json:"updated_at"`
}

type greenhouseLocation struct {
	Name string `json:"name"`
}

// greenhouseResponse is the top-level Greenhouse jobs API response.
type greenhouseResponse struct {
	Jobs []greenhouseJob `json:"jobs"`
}

// GreenhouseSource collects listings from the Greenhouse public boards API.
type GreenhouseSource struct {
	company string
	board   string
	client  *http.Client
	baseURL string
}

// NewGreenhouseSource creates a source for a single Greenhouse board.
func NewGreenhouseSource(company string, board string, client *http.Client) *GreenhouseSource {
	return &GreenhouseSource{
		company: company,
		board:   board,
		client:  client,
		baseURL: greenhouseBaseURL,
	}
}

// Name identifies the source in logs and collection reports.
func (s *GreenhouseSource) Name() string {
	return "greenhouse/" + s.board
}

// Collect retrieves all jobs on the board and normalizes them into listing
// records. content=true inlines the job description, so no per-job detail
// fetch is needed.
func (s *GreenhouseSource) Collect(ctx context.Context) ([]model.Listing, error) {
	url := fmt.Sprintf("%s/%s/jobs?content=true", s.baseURL, s.board)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", s.board, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", s.board, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("greenhouse fetch for %s: unexpected status %d", s.board, resp.StatusCode),
		}
	}

	var ghResp greenhouseResponse
	if err := json.NewDecoder(resp.Body).Decode(&ghResp); err != nil {
		return nil, fmt.Errorf("greenhouse fetch for %s: %w", s.board, err)
	}

	listings := make([]model.Listing, 0, len(ghResp.Jobs))
	for _, gj := range ghResp.Jobs {
		l := model.Listing{
			Title:       gj.Title,
			Company:     s.company,
			URL:         gj.AbsoluteURL,
			Source:      "greenhouse",
			Description: extractText(gj.Content),
			Location:    gj.Location.Name,
			Remote:      mentionsRemote(gj.Location.Name),
		}

		// first_published is when the posting went live; updated_at moves
		// on every edit and is only a fallback.
		published := gj.FirstPublished
		if published == "" {
			published = gj.UpdatedAt
		}
		if published != "" {
			if t, err := time.Parse(time.RFC3339, published); err == nil {
				l.PostedAt = &t
			}
		}

		listings = append(listings, l)
	}

	return listings, nil
}

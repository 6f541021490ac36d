package adapter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jobsift/jobsift/internal/model"
)

const remoteOKBaseURL = "https://remoteok.com/api"

// RemoteOKSource collects listings from the RemoteOK public API.
//
// The feed is loosely typed: the first array element is a legal notice
// rather than a job, and fields like salary_min drift between string and
// number across records. gjson handles the coercion instead of a rigid
// struct decode.
type RemoteOKSource struct {
	client  *http.Client
	baseURL string
}

// NewRemoteOKSource creates the RemoteOK feed source.
func NewRemoteOKSource(client *http.Client) *RemoteOKSource {
	return &RemoteOKSource{
		client:  client,
		baseURL: remoteOKBaseURL,
	}
}

// Name identifies the source in logs and collection reports.
func (s *RemoteOKSource) Name() string {
	return "remoteok"
}

// Collect retrieves the full feed and normalizes it into listing records.
// Every RemoteOK posting is remote by definition.
func (s *RemoteOKSource) Collect(ctx context.Context) ([]model.Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("remoteok fetch: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remoteok fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("remoteok fetch: unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("remoteok fetch: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("remoteok fetch: response is not valid JSON")
	}

	items := gjson.ParseBytes(body).Array()

	// The feed opens with a legal-notice element that has no position field.
	if len(items) > 0 && !items[0].Get("position").Exists() {
		items = items[1:]
	}

	listings := make([]model.Listing, 0, len(items))
	for _, item := range items {
		l := model.Listing{
			Title:       item.Get("position").String(),
			Company:     item.Get("company").String(),
			URL:         item.Get("url").String(),
			Source:      "remoteok",
			Description: item.Get("description").String(),
			SalaryMin:   int(item.Get("salary_min").Int()),
			SalaryMax:   int(item.Get("salary_max").Int()),
			Location:    item.Get("location").String(),
			Remote:      true,
		}
		if l.Location == "" {
			l.Location = "Worldwide"
		}

		if date := item.Get("date").String(); date != "" {
			if t, err := time.Parse(time.RFC3339, date); err == nil {
				l.PostedAt = &t
			}
		}

		if raw, ok := item.Value().(map[string]any); ok {
			l.Raw = raw
		}

		listings = append(listings, l)
	}

	return listings, nil
}

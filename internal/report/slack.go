package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// Ensure SlackReporter implements model.Reporter.
var _ model.Reporter = (*SlackReporter)(nil)

// SlackReporter sends the ranked digest to a Slack channel via Incoming Webhooks.
type SlackReporter struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSlackReporter returns a reporter that posts each match to Slack via webhook.
func NewSlackReporter(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackReporter {
	return &SlackReporter{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Deliver sends each listing as a separate Slack message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackReporter) Deliver(batch []model.ScoredListing) error {
	if len(batch) == 0 {
		return nil
	}

	failures := 0
	for i, sl := range batch {
		if i > 0 {
			time.Sleep(500 * time.Millisecond)
		}

		if err := s.sendMessage(sl); err != nil {
			s.logger.Error("slack delivery failed", "company", sl.Listing.Company, "title", sl.Listing.Title, "error", err)
			failures++
		}
	}

	sent := len(batch) - failures
	if failures == len(batch) {
		return fmt.Errorf("all %d slack deliveries failed", failures)
	}
	s.logger.Info("slack deliveries complete", "sent", sent, "failed", failures)
	return nil
}

func (s *SlackReporter) sendMessage(sl model.ScoredListing) error {
	payload := buildPayload(sl)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		secs, _ := strconv.Atoi(retryAfter)
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		resp2, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer resp2.Body.Close()

		if resp2.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", resp2.StatusCode)
		}
		s.logger.Info("slack message sent", "company", sl.Listing.Company, "title", sl.Listing.Title, "retried", true)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Info("slack message sent", "company", sl.Listing.Company, "title", sl.Listing.Title)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func buildPayload(sl model.ScoredListing) slackPayload {
	l := sl.Listing

	postedText := "Just detected"
	if l.PostedAt != nil {
		postedText = formatPosted(*l.PostedAt)
	}

	company := capitalize(l.Company)
	source := capitalize(l.Source)
	scoreText := fmt.Sprintf("%.0f/100 (%s)", sl.Score.Composite, sl.Score.Priority)

	secondSection := []slackText{
		{Type: "mrkdwn", Text: "*Posted:*\n" + postedText},
		{Type: "mrkdwn", Text: "*Source:*\n" + source},
	}
	switch {
	case l.SalaryMin > 0 && l.SalaryMax > 0:
		secondSection = append(secondSection,
			slackText{Type: "mrkdwn", Text: "*Salary:*\n" + dollars(l.SalaryMin) + "–" + dollars(l.SalaryMax)})
	case l.SalaryMin > 0:
		secondSection = append(secondSection,
			slackText{Type: "mrkdwn", Text: "*Salary:*\n" + dollars(l.SalaryMin) + "+"})
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "🚀 " + company + ": " + l.Title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Score:*\n" + scoreText},
				{Type: "mrkdwn", Text: "*Location:*\n" + l.Location},
			},
		},
		{
			Type:   "section",
			Fields: secondSection,
		},
	}

	if sl.Score.Fit != nil && sl.Score.Fit.Summary != "" {
		fitText := sl.Score.Fit.Summary
		if len(sl.Score.Fit.Matched) > 0 {
			fitText += "\n*Matched:* " + strings.Join(sl.Score.Fit.Matched, ", ")
		}
		if len(sl.Score.Fit.Gaps) > 0 {
			fitText += "\n*Gaps:* " + strings.Join(sl.Score.Fit.Gaps, ", ")
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: fitText},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "View Posting"},
					URL:   l.URL,
					Style: "primary",
				},
			},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}
}

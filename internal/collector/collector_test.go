package collector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jobsift/jobsift/internal/model"
)

// --- Mock/Fake Implementations ---

// MockSource returns a canned slice of listings or an error.
type MockSource struct {
	name     string
	listings []model.Listing
	err      error
}

func (m *MockSource) Name() string { return m.name }

func (m *MockSource) Collect(_ context.Context) ([]model.Listing, error) {
	return m.listings, m.err
}

// HangingSource blocks until its context is cancelled.
type HangingSource struct {
	name string
}

func (h *HangingSource) Name() string { return h.name }

func (h *HangingSource) Collect(ctx context.Context) ([]model.Listing, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// PanickySource panics on every call.
type PanickySource struct{}

func (p *PanickySource) Name() string { return "panicky" }

func (p *PanickySource) Collect(_ context.Context) ([]model.Listing, error) {
	panic("adapter bug")
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makeListings(source string, urls ...string) []model.Listing {
	listings := make([]model.Listing, len(urls))
	for i, url := range urls {
		listings[i] = model.Listing{
			Title:   "Customer Success Manager",
			Company: "TestCorp",
			URL:     url,
			Source:  source,
		}
	}
	return listings
}

// --- Tests ---

func TestCollect_MergesInRegistrationOrder(t *testing.T) {
	c := New([]model.Source{
		&MockSource{name: "alpha", listings: makeListings("alpha", "https://a.example/1", "https://a.example/2")},
		&MockSource{name: "beta", listings: makeListings("beta", "https://b.example/1")},
	}, time.Second, 4, discardLogger())

	listings, report, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	wantOrder := []string{"https://a.example/1", "https://a.example/2", "https://b.example/1"}
	if len(listings) != len(wantOrder) {
		t.Fatalf("got %d listings, want %d", len(listings), len(wantOrder))
	}
	for i, want := range wantOrder {
		if listings[i].URL != want {
			t.Errorf("listings[%d].URL = %s, want %s", i, listings[i].URL, want)
		}
	}
	if report.Succeeded() != 2 || report.Failed() != 0 {
		t.Errorf("report = %d ok / %d failed, want 2/0", report.Succeeded(), report.Failed())
	}
}

func TestCollect_IsolatesOneFailure(t *testing.T) {
	c := New([]model.Source{
		&MockSource{name: "broken", err: errors.New("boom")},
		&MockSource{name: "fine", listings: makeListings("fine", "https://f.example/1")},
	}, time.Second, 4, discardLogger())

	listings, report, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("one failing source must not fail the pass: %v", err)
	}
	if len(listings) != 1 || listings[0].URL != "https://f.example/1" {
		t.Fatalf("listings = %+v, want just the healthy source's output", listings)
	}
	if report.Failed() != 1 || report.Succeeded() != 1 {
		t.Errorf("report = %d ok / %d failed, want 1/1", report.Succeeded(), report.Failed())
	}
	if report.Results[0].Name != "broken" || report.Results[0].Err == nil {
		t.Errorf("Results[0] = %+v, want the broken source with its error", report.Results[0])
	}
}

func TestCollect_AllFailed(t *testing.T) {
	c := New([]model.Source{
		&MockSource{name: "one", err: errors.New("boom")},
		&MockSource{name: "two", err: errors.New("bang")},
	}, time.Second, 4, discardLogger())

	listings, report, err := c.Collect(context.Background())
	if !errors.Is(err, ErrAllSourcesFailed) {
		t.Fatalf("err = %v, want ErrAllSourcesFailed", err)
	}
	if len(listings) != 0 {
		t.Errorf("listings = %d, want empty set", len(listings))
	}
	if !report.AllFailed() {
		t.Error("report.AllFailed() should be true")
	}
}

func TestCollect_TimeoutCountsAsFailure(t *testing.T) {
	c := New([]model.Source{
		&HangingSource{name: "hung"},
		&MockSource{name: "fine", listings: makeListings("fine", "https://f.example/1")},
	}, 20*time.Millisecond, 4, discardLogger())

	listings, report, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}
	if report.Failed() != 1 {
		t.Errorf("report.Failed() = %d, want 1", report.Failed())
	}
	if report.Results[0].Err == nil {
		t.Error("hung source should carry a timeout error")
	}
}

func TestCollect_PanicIsContained(t *testing.T) {
	c := New([]model.Source{
		&PanickySource{},
		&MockSource{name: "fine", listings: makeListings("fine", "https://f.example/1")},
	}, time.Second, 4, discardLogger())

	listings, report, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("got %d listings, want 1", len(listings))
	}
	if report.Results[0].Err == nil {
		t.Error("panicking source should be reported as failed")
	}
}

func TestCollect_HonorsConcurrencyLimit(t *testing.T) {
	var current, peak atomic.Int32
	tracking := func(name string) model.Source {
		return &trackingSource{name: name, current: &current, peak: &peak}
	}

	c := New([]model.Source{
		tracking("one"), tracking("two"), tracking("three"), tracking("four"),
	}, time.Second, 2, discardLogger())

	if _, _, err := c.Collect(context.Background()); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", got)
	}
}

// trackingSource records how many Collect calls run at once.
type trackingSource struct {
	name    string
	current *atomic.Int32
	peak    *atomic.Int32
}

func (s *trackingSource) Name() string { return s.name }

func (s *trackingSource) Collect(_ context.Context) ([]model.Listing, error) {
	n := s.current.Add(1)
	for {
		old := s.peak.Load()
		if n <= old || s.peak.CompareAndSwap(old, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	s.current.Add(-1)
	return makeListings(s.name, "https://"+s.name+".example/1"), nil
}

package model

import "time"

// Status tracks what the user has done with a surfaced listing.
// The pipeline only ever writes StatusNew; everything else comes from
// the review flow.
type Status string

const (
	StatusNew          Status = "new"
	StatusApplied      Status = "applied"
	StatusSkipped      Status = "skipped"
	StatusInterviewing Status = "interviewing"
)

// Valid reports whether s is one of the known status tags.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusApplied, StatusSkipped, StatusInterviewing:
		return true
	}
	return false
}

// SeenEntry records that a listing was surfaced in some prior run.
type SeenEntry struct {
	URL       string // unique key
	Title     string
	TitleHash string // hash of the normalized title, see dedupe.TitleHash
	Company   string
	Source    string
	FirstSeen time.Time
	Score     float64 // composite score at first sighting
	Status    Status
}

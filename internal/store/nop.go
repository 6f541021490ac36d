package store

import "github.com/jobsift/jobsift/internal/model"

// NopStore is a no-op store used in dry-run mode. It reports every listing
// as unseen and records nothing, so a run leaves no trace.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasURL(url string) (bool, error)                        { return false, nil }
func (s *NopStore) HasTitleHash(company, titleHash string) (bool, error)   { return false, nil }
func (s *NopStore) Insert(e model.SeenEntry) error                         { return nil }
func (s *NopStore) Clear() error                                           { return nil }

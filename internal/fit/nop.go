package fit

import (
	"context"

	"github.com/jobsift/jobsift/internal/model"
)

// Ensure NopEstimator implements model.Estimator.
var _ model.Estimator = (*NopEstimator)(nil)

// NopEstimator is the estimator used when no fit backend is configured.
// It reports no estimate, so scoring degrades to rule-score-only.
type NopEstimator struct{}

// NewNopEstimator returns a NopEstimator.
func NewNopEstimator() *NopEstimator {
	return &NopEstimator{}
}

// Estimate always reports that no estimate is available.
func (n *NopEstimator) Estimate(_ context.Context, _ model.Listing, _ string) (*model.FitResult, error) {
	return nil, nil
}

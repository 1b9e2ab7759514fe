package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

func ptr(v float64) *float64 {
	return &v
}

func TestConfidenceScorer_Score(t *testing.T) {
	scorer := NewConfidenceScorer()

	testCases := []struct {
		name       string
		velocity   float64
		weeks      int
		cv         *float64
		share      *float64
		want       entities.Confidence
		wantReason string
	}{
		{"no sales", 0, 20, ptr(0.2), ptr(0.1), entities.ConfidenceLow, ReasonNoSales},
		{"one week of data", 5, 1, nil, ptr(0.1), entities.ConfidenceLow, ReasonInsufficientHistory},
		{"history rule beats customer rule", 5, 1, nil, ptr(0.9), entities.ConfidenceLow, ReasonInsufficientHistory},
		{"single customer", 5, 10, ptr(2.0), ptr(0.51), entities.ConfidenceLow, ReasonSingleCustomer},
		{"share at 0.5 is not single customer", 5, 10, ptr(0.2), ptr(0.5), entities.ConfidenceMedium, ReasonCustomerConcentration},
		{"volatile demand", 5, 10, ptr(1.2), ptr(0.4), entities.ConfidenceMedium, ReasonVolatileDemand},
		{"cv at 1.0 is not volatile", 5, 10, ptr(1.0), ptr(0.1), entities.ConfidenceHigh, ""},
		{"concentration", 5, 10, ptr(0.5), ptr(0.31), entities.ConfidenceMedium, ReasonCustomerConcentration},
		{"nil statistics are high", 5, 10, nil, nil, entities.ConfidenceHigh, ""},
		{"healthy product", 5, 10, ptr(0.4), ptr(0.2), entities.ConfidenceHigh, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := &entities.Product{
				ID:               "P1",
				SKU:              "SKU-1",
				DailyVelocity:    tc.velocity,
				WeeksOfData:      tc.weeks,
				VelocityCV:       tc.cv,
				TopCustomerShare: tc.share,
				UniqueCustomers:  3,
			}

			got, reason := scorer.Score(p)

			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantReason, reason)
			if got != entities.ConfidenceHigh {
				assert.NotEmpty(t, reason, "non-HIGH confidence must carry a reason")
			}
		})
	}
}

package services

import "github.com/vsinha/orderbuilder/pkg/domain/entities"

// Reasons surfaced next to the confidence badge
const (
	ReasonNoSales               = "no sales recorded"
	ReasonInsufficientHistory   = "insufficient sales history"
	ReasonSingleCustomer        = "single customer dependency"
	ReasonVolatileDemand        = "volatile demand"
	ReasonCustomerConcentration = "customer concentration"
)

// ConfidenceScorer rates the reliability of a product's velocity estimate
type ConfidenceScorer struct {
	MinWeeksOfData      int
	SingleCustomerShare float64
	VolatileCV          float64
	ConcentrationShare  float64
}

// NewConfidenceScorer creates a scorer with the default thresholds
func NewConfidenceScorer() *ConfidenceScorer {
	return &ConfidenceScorer{
		MinWeeksOfData:      2,
		SingleCustomerShare: 0.5,
		VolatileCV:          1.0,
		ConcentrationShare:  0.3,
	}
}

// Score applies the rules in order; the first match wins.
// The reason is empty only for HIGH.
func (s *ConfidenceScorer) Score(p *entities.Product) (entities.Confidence, string) {
	switch {
	case p.DailyVelocity <= 0:
		return entities.ConfidenceLow, ReasonNoSales
	case p.WeeksOfData < s.MinWeeksOfData:
		return entities.ConfidenceLow, ReasonInsufficientHistory
	case p.TopCustomerShare != nil && *p.TopCustomerShare > s.SingleCustomerShare:
		return entities.ConfidenceLow, ReasonSingleCustomer
	case p.VelocityCV != nil && *p.VelocityCV > s.VolatileCV:
		return entities.ConfidenceMedium, ReasonVolatileDemand
	case p.TopCustomerShare != nil && *p.TopCustomerShare > s.ConcentrationShare:
		return entities.ConfidenceMedium, ReasonCustomerConcentration
	default:
		return entities.ConfidenceHigh, ""
	}
}

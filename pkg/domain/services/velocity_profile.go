package services

import (
	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"gonum.org/v1/gonum/stat"
)

// VelocityProfile summarizes weekly sales history
type VelocityProfile struct {
	DailyVelocity float64
	WeeksOfData   int
	CV            *float64 // nil with fewer than 2 weeks or zero mean
}

// VelocityProfileFromWeekly derives daily velocity and its coefficient of variation
// from weekly sales in m²
func VelocityProfileFromWeekly(weekly []float64) VelocityProfile {
	profile := VelocityProfile{WeeksOfData: len(weekly)}
	if len(weekly) == 0 {
		return profile
	}

	mean := stat.Mean(weekly, nil)
	profile.DailyVelocity = mean / 7
	if len(weekly) < 2 || mean <= 0 {
		return profile
	}

	cv := stat.StdDev(weekly, nil) / mean
	profile.CV = &cv
	return profile
}

// ApplyWeeklyHistory fills velocity fields a snapshot left blank from its raw weekly history
func ApplyWeeklyHistory(p *entities.Product) {
	if len(p.WeeklySalesM2) == 0 {
		return
	}
	profile := VelocityProfileFromWeekly(p.WeeklySalesM2)
	if p.DailyVelocity == 0 {
		p.DailyVelocity = profile.DailyVelocity
	}
	if p.WeeksOfData == 0 {
		p.WeeksOfData = profile.WeeksOfData
	}
	if p.VelocityCV == nil {
		p.VelocityCV = profile.CV
	}
}

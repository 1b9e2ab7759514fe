package entities

import (
	"fmt"
	"strings"
	"time"
)

// Confidence rates how reliable a product's coverage gap estimate is.
// Only the discrete ranking LOW < MEDIUM < HIGH is meaningful.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// String method for Confidence enum
func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "LOW"
	case ConfidenceMedium:
		return "MEDIUM"
	case ConfidenceHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// Rank returns the discrete ordering position (LOW=0, MEDIUM=1, HIGH=2)
func (c Confidence) Rank() int {
	return int(c)
}

// ParseConfidence parses a confidence label
func ParseConfidence(s string) (Confidence, error) {
	switch normalizeLabel(s) {
	case "high":
		return ConfidenceHigh, nil
	case "medium":
		return ConfidenceMedium, nil
	case "low":
		return ConfidenceLow, nil
	default:
		return ConfidenceLow, fmt.Errorf("invalid confidence: %s (expected: HIGH, MEDIUM, or LOW)", s)
	}
}

// Priority is the boat-relative stockout bucket a product falls into
type Priority int

const (
	PriorityHigh Priority = iota
	PriorityConsider
	PriorityWellCovered
	PriorityYourCall
)

// Priorities lists the buckets in display order
var Priorities = []Priority{PriorityHigh, PriorityConsider, PriorityWellCovered, PriorityYourCall}

// String method for Priority enum
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH_PRIORITY"
	case PriorityConsider:
		return "CONSIDER"
	case PriorityWellCovered:
		return "WELL_COVERED"
	case PriorityYourCall:
		return "YOUR_CALL"
	default:
		return "UNKNOWN"
	}
}

// DisplayOrder returns the position of the bucket when products are grouped for display
func (p Priority) DisplayOrder() int {
	return int(p)
}

// ParsePriority parses a boat-relative priority label
func ParsePriority(s string) (Priority, error) {
	switch normalizeLabel(s) {
	case "high_priority":
		return PriorityHigh, nil
	case "consider":
		return PriorityConsider, nil
	case "well_covered":
		return PriorityWellCovered, nil
	case "your_call":
		return PriorityYourCall, nil
	default:
		return PriorityYourCall, fmt.Errorf("invalid priority: %s (expected: HIGH_PRIORITY, CONSIDER, WELL_COVERED, or YOUR_CALL)", s)
	}
}

// LegacyPriority is the urgency scheme used by the older recommendations payload
type LegacyPriority int

const (
	LegacyCritical LegacyPriority = iota
	LegacyHigh
	LegacyMedium
	LegacyLow
)

// String method for LegacyPriority enum
func (l LegacyPriority) String() string {
	switch l {
	case LegacyCritical:
		return "CRITICAL"
	case LegacyHigh:
		return "HIGH"
	case LegacyMedium:
		return "MEDIUM"
	case LegacyLow:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// ToPriority maps the legacy urgency onto the boat-relative buckets
func (l LegacyPriority) ToPriority() Priority {
	switch l {
	case LegacyCritical, LegacyHigh:
		return PriorityHigh
	case LegacyMedium:
		return PriorityConsider
	case LegacyLow:
		return PriorityWellCovered
	default:
		return PriorityYourCall
	}
}

// ParseLegacyPriority parses a CRITICAL/HIGH/MEDIUM/LOW label
func ParseLegacyPriority(s string) (LegacyPriority, error) {
	switch normalizeLabel(s) {
	case "critical":
		return LegacyCritical, nil
	case "high":
		return LegacyHigh, nil
	case "medium":
		return LegacyMedium, nil
	case "low":
		return LegacyLow, nil
	default:
		return LegacyLow, fmt.Errorf("invalid legacy priority: %s (expected: CRITICAL, HIGH, MEDIUM, or LOW)", s)
	}
}

// ParsePriorityAny accepts a label from either priority taxonomy
func ParsePriorityAny(s string) (Priority, error) {
	if p, err := ParsePriority(s); err == nil {
		return p, nil
	}
	legacy, err := ParseLegacyPriority(s)
	if err != nil {
		return PriorityYourCall, fmt.Errorf("invalid priority: %s (not a boat-relative or legacy label)", s)
	}
	return legacy.ToPriority(), nil
}

// Mode selects how aggressively the default order fills the boat
type Mode int

const (
	ModeMinimal Mode = iota
	ModeStandard
	ModeOptimal
)

// Modes lists the supported modes from smallest to largest
var Modes = []Mode{ModeMinimal, ModeStandard, ModeOptimal}

// String method for Mode enum
func (m Mode) String() string {
	switch m {
	case ModeMinimal:
		return "minimal"
	case ModeStandard:
		return "standard"
	case ModeOptimal:
		return "optimal"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode label; empty defaults to standard
func ParseMode(s string) (Mode, error) {
	switch normalizeLabel(s) {
	case "minimal":
		return ModeMinimal, nil
	case "standard", "":
		return ModeStandard, nil
	case "optimal":
		return ModeOptimal, nil
	default:
		return ModeStandard, fmt.Errorf("invalid mode: %s (expected: minimal, standard, or optimal)", s)
	}
}

// ProductRecommendation is the per (product, boat, mode) derived value object.
// It is recomputed on each query and never persisted.
type ProductRecommendation struct {
	Product

	CoverageGapM2      float64
	CoverageGapPallets int
	TotalDemandM2      float64
	DaysToCover        int
	NoSales            bool

	Confidence       Confidence
	ConfidenceReason string

	Priority       Priority
	PriorityReason string
}

// RecommendationSet is everything the allocation engine needs for one boat and mode
type RecommendationSet struct {
	Boat                    Boat
	NextBoat                *Boat
	Mode                    Mode
	Products                []ProductRecommendation
	WarehouseCurrentPallets int
	GeneratedAt             time.Time
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

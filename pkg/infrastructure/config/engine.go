package config

import (
	"fmt"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// EngineConfig holds the physical constants and policy thresholds of the order builder
type EngineConfig struct {
	M2PerPallet              float64 `yaml:"m2_per_pallet"`
	PalletsPerContainer      int     `yaml:"pallets_per_container"`
	WarehouseCapacityPallets int     `yaml:"warehouse_capacity_pallets"`
	MaxPalletsPerProduct     int     `yaml:"max_pallets_per_product"`

	ModeContainers ModeContainers  `yaml:"mode_containers"`
	Alerts         AlertThresholds `yaml:"alerts"`

	SafetyDays   int `yaml:"safety_days"`
	LeadTimeDays int `yaml:"lead_time_days"` // horizon past arrival when no following boat is scheduled

	// ScalingPolicy picks how defaults shrink to the mode target: proportional or priority_first
	ScalingPolicy string `yaml:"scaling_policy"`
}

// ScalingPolicies lists the accepted scaling policy names
var ScalingPolicies = []string{"proportional", "priority_first"}

// ModeContainers is the container target for each mode
type ModeContainers struct {
	Minimal  int `yaml:"minimal"`
	Standard int `yaml:"standard"`
	Optimal  int `yaml:"optimal"`
}

// AlertThresholds tunes when warnings and suggestions fire
type AlertThresholds struct {
	WarehouseWarnPercent float64 `yaml:"warehouse_warn_percent"`
	RoomForMorePercent   float64 `yaml:"room_for_more_percent"`
	DeadlineWarnDays     int     `yaml:"deadline_warn_days"`
}

// DefaultEngineConfig returns the standard warehouse and shipping constants
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		M2PerPallet:              135,
		PalletsPerContainer:      14,
		WarehouseCapacityPallets: 740,
		MaxPalletsPerProduct:     50,
		ModeContainers: ModeContainers{
			Minimal:  3,
			Standard: 4,
			Optimal:  5,
		},
		Alerts: AlertThresholds{
			WarehouseWarnPercent: 95,
			RoomForMorePercent:   90,
			DeadlineWarnDays:     3,
		},
		SafetyDays:    0,
		LeadTimeDays:  30,
		ScalingPolicy: "proportional",
	}
}

// Validate rejects non-positive constants
func (c EngineConfig) Validate() error {
	if c.M2PerPallet <= 0 {
		return fmt.Errorf("m2 per pallet must be positive, got %g", c.M2PerPallet)
	}
	if c.PalletsPerContainer <= 0 {
		return fmt.Errorf("pallets per container must be positive, got %d", c.PalletsPerContainer)
	}
	if c.WarehouseCapacityPallets <= 0 {
		return fmt.Errorf("warehouse capacity must be positive, got %d", c.WarehouseCapacityPallets)
	}
	if c.MaxPalletsPerProduct <= 0 {
		return fmt.Errorf("max pallets per product must be positive, got %d", c.MaxPalletsPerProduct)
	}
	for _, mode := range entities.Modes {
		if c.ContainersFor(mode) <= 0 {
			return fmt.Errorf("container target for mode %s must be positive, got %d", mode, c.ContainersFor(mode))
		}
	}
	if c.Alerts.WarehouseWarnPercent <= 0 || c.Alerts.RoomForMorePercent <= 0 {
		return fmt.Errorf("alert percentages must be positive")
	}
	if c.Alerts.DeadlineWarnDays < 0 {
		return fmt.Errorf("deadline warning days cannot be negative, got %d", c.Alerts.DeadlineWarnDays)
	}
	if c.SafetyDays < 0 {
		return fmt.Errorf("safety days cannot be negative, got %d", c.SafetyDays)
	}
	if c.LeadTimeDays < 0 {
		return fmt.Errorf("lead time days cannot be negative, got %d", c.LeadTimeDays)
	}
	if c.ScalingPolicy != "" && !knownScalingPolicy(c.ScalingPolicy) {
		return fmt.Errorf("unknown scaling policy: %s (expected one of %v)", c.ScalingPolicy, ScalingPolicies)
	}
	return nil
}

// ContainersFor returns the container target for a mode
func (c EngineConfig) ContainersFor(mode entities.Mode) int {
	switch mode {
	case entities.ModeMinimal:
		return c.ModeContainers.Minimal
	case entities.ModeOptimal:
		return c.ModeContainers.Optimal
	default:
		return c.ModeContainers.Standard
	}
}

func knownScalingPolicy(name string) bool {
	for _, p := range ScalingPolicies {
		if p == name {
			return true
		}
	}
	return false
}

package orderbuilder

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/config"
)

const (
	iconBlocked    = "🚫"
	iconWarning    = "⚠️"
	iconSuggestion = "💡"
	iconDeadline   = "⏰"
)

// AlertInput is everything the alert rules look at
type AlertInput struct {
	Lines      []Line
	Summary    entities.OrderSummary
	Boat       entities.Boat
	Now        time.Time
	Thresholds config.AlertThresholds
}

// GenerateAlerts evaluates every alert rule against the current order.
// Alerts are ordered blocked, warning, suggestion with insertion order kept within a type;
// a booking deadline warning is then placed ahead of everything else.
func GenerateAlerts(in AlertInput) []entities.Alert {
	s := in.Summary
	alerts := make([]entities.Alert, 0)

	if s.ExceedsWarehouse() {
		alerts = append(alerts, entities.Alert{
			Type:    entities.AlertBlocked,
			Code:    entities.AlertWarehouseExceeded,
			Icon:    iconBlocked,
			Message: fmt.Sprintf("Exceeds warehouse by %d pallets. Remove some items.", s.WarehouseAfterDelivery-s.WarehouseCapacity),
		})
	} else if s.WarehouseUtilizationAfter > in.Thresholds.WarehouseWarnPercent {
		alerts = append(alerts, entities.Alert{
			Type:    entities.AlertWarning,
			Code:    entities.AlertWarehouseNearFull,
			Icon:    iconWarning,
			Message: fmt.Sprintf("Warehouse will be at %d%% after delivery", int(math.Round(s.WarehouseUtilizationAfter))),
		})
	}

	if s.ExceedsBoat() {
		alerts = append(alerts, entities.Alert{
			Type:    entities.AlertBlocked,
			Code:    entities.AlertBoatExceeded,
			Icon:    iconBlocked,
			Message: fmt.Sprintf("Exceeds boat capacity (%d/%d containers)", s.TotalContainers, s.BoatMaxContainers),
		})
	}

	if s.BoatRemainingContainers > 0 && s.WarehouseUtilizationAfter < in.Thresholds.RoomForMorePercent {
		alerts = append(alerts, entities.Alert{
			Type:    entities.AlertSuggestion,
			Code:    entities.AlertRoomForMore,
			Icon:    iconSuggestion,
			Message: fmt.Sprintf("Room for %d more container(s)", s.BoatRemainingContainers),
		})
	}

	for _, line := range in.Lines {
		if line.Recommendation.Priority == entities.PriorityHigh && !line.Selection.IsSelected {
			alerts = append(alerts, entities.Alert{
				Type:       entities.AlertWarning,
				Code:       entities.AlertStockoutRisk,
				Icon:       iconWarning,
				ProductID:  line.Recommendation.ID,
				ProductSKU: line.Recommendation.SKU,
				Message:    "HIGH_PRIORITY but not selected - stockout risk",
			})
		}
	}

	for _, line := range in.Lines {
		if line.Selection.IsSelected && line.Recommendation.Confidence == entities.ConfidenceLow {
			alerts = append(alerts, entities.Alert{
				Type:       entities.AlertWarning,
				Code:       entities.AlertLowConfidence,
				Icon:       iconWarning,
				ProductID:  line.Recommendation.ID,
				ProductSKU: line.Recommendation.SKU,
				Message:    line.Recommendation.ConfidenceReason,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Type.Rank() < alerts[j].Type.Rank()
	})

	if days := in.Boat.DaysUntilDeadline(in.Now); days <= in.Thresholds.DeadlineWarnDays {
		deadline := entities.Alert{
			Type:    entities.AlertWarning,
			Code:    entities.AlertDeadlineImminent,
			Icon:    iconDeadline,
			Message: deadlineMessage(days),
		}
		alerts = append([]entities.Alert{deadline}, alerts...)
	}

	return alerts
}

func deadlineMessage(days int) string {
	if days < 0 {
		return fmt.Sprintf("Booking deadline passed %d days ago!", -days)
	}
	return fmt.Sprintf("Booking deadline in %d days!", days)
}

package orderbuilder

import (
	"github.com/vsinha/orderbuilder/pkg/application/dto"
	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

var groupHeadings = map[entities.Priority][2]string{
	entities.PriorityHigh:        {"HIGH PRIORITY", "must order - stockout before next boat"},
	entities.PriorityConsider:    {"CONSIDER", "worth adding - stockout before second boat"},
	entities.PriorityWellCovered: {"WELL COVERED", "skip this cycle - sufficient stock"},
	entities.PriorityYourCall:    {"YOUR CALL", "needs review - limited data"},
}

// View renders the current order grouped by priority. Empty groups are omitted and
// products keep their recommendation order within a group.
func (e *Engine) View() dto.OrderBuilderView {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	view := dto.OrderBuilderView{
		Mode:        e.mode.String(),
		Groups:      make([]dto.PriorityGroup, 0, len(entities.Priorities)),
		Summary:     e.summaryLocked(),
		Alerts:      e.alertsLocked(now),
		GeneratedAt: now,
	}
	if !e.loaded {
		return view
	}

	view.Boat = dto.NewBoatView(e.boat, now)
	if e.nextBoat != nil {
		next := dto.NewBoatView(*e.nextBoat, now)
		view.NextBoat = &next
	}

	for _, priority := range entities.Priorities {
		var products []dto.ProductLine
		for _, line := range e.lines {
			if line.Recommendation.Priority == priority {
				products = append(products, e.productLine(line))
			}
		}
		if len(products) == 0 {
			continue
		}
		heading := groupHeadings[priority]
		view.Groups = append(view.Groups, dto.PriorityGroup{
			Priority: priority.String(),
			Title:    heading[0],
			Subtitle: heading[1],
			Products: products,
		})
	}
	return view
}

func (e *Engine) productLine(line Line) dto.ProductLine {
	rec := line.Recommendation
	return dto.ProductLine{
		ProductID:          rec.ID,
		SKU:                rec.SKU,
		Description:        rec.Description,
		WarehouseM2:        rec.WarehouseStockM2,
		InTransitM2:        rec.InTransitM2,
		DailyVelocity:      rec.DailyVelocity,
		DaysToCover:        rec.DaysToCover,
		CoverageGapM2:      rec.CoverageGapM2,
		CoverageGapPallets: rec.CoverageGapPallets,
		Confidence:         rec.Confidence.String(),
		ConfidenceReason:   rec.ConfidenceReason,
		Priority:           rec.Priority.String(),
		PriorityReason:     rec.PriorityReason,
		IsSelected:         line.Selection.IsSelected,
		SelectedPallets:    line.Selection.SelectedPallets,
		SelectedM2:         palletArea(line.Selection.SelectedPallets, e.cfg.M2PerPallet).InexactFloat64(),
	}
}

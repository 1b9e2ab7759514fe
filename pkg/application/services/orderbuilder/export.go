package orderbuilder

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/config"
)

// ExportHeader is the first row of an exported order
var ExportHeader = []string{"SKU", "Pallets", "m²", "Priority", "Confidence"}

// ExportCSV serializes the selected lines and the summary totals. Rows follow the display
// order of the priority groups and are sorted by product id within a group, so identical
// selections always produce identical bytes. Lines are newline separated with no
// trailing newline.
func ExportCSV(lines []Line, summary entities.OrderSummary, cfg config.EngineConfig) ([]byte, error) {
	selected := make([]Line, 0, len(lines))
	for _, line := range lines {
		if line.Selection.IsSelected && line.Selection.SelectedPallets > 0 {
			selected = append(selected, line)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		pi, pj := selected[i].Recommendation.Priority, selected[j].Recommendation.Priority
		if pi != pj {
			return pi.DisplayOrder() < pj.DisplayOrder()
		}
		return selected[i].Recommendation.ID < selected[j].Recommendation.ID
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := make([][]string, 0, len(selected)+5)
	records = append(records, ExportHeader)
	for _, line := range selected {
		rec := line.Recommendation
		records = append(records, []string{
			rec.SKU,
			strconv.Itoa(line.Selection.SelectedPallets),
			palletArea(line.Selection.SelectedPallets, cfg.M2PerPallet).String(),
			rec.Priority.String(),
			rec.Confidence.String(),
		})
	}
	records = append(records,
		[]string{},
		[]string{"Total Pallets", strconv.Itoa(summary.TotalPallets)},
		[]string{"Total m²", palletArea(summary.TotalPallets, cfg.M2PerPallet).String()},
		[]string{"Containers", strconv.Itoa(summary.TotalContainers)},
	)

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write export: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

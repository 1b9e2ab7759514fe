package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vsinha/orderbuilder/pkg/application/dto"
)

// File names written when an output directory is given
const (
	TextFile = "order.txt"
	JSONFile = "order.json"
	CSVFile  = "order.csv"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	LoadTime  time.Duration
	Out       io.Writer // defaults to stdout
}

func (c Config) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Generate renders the order view, or the CSV export, in the configured format
func Generate(view dto.OrderBuilderView, export []byte, config Config) error {
	switch config.Format {
	case "text", "":
		return generateTextOutput(view, config)
	case "json":
		return generateJSONOutput(view, config)
	case "csv":
		return generateCSVOutput(view, export, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(view dto.OrderBuilderView, config Config) error {
	var b strings.Builder
	WriteText(&b, view)
	if config.Verbose && config.LoadTime > 0 {
		fmt.Fprintf(&b, "Load Time: %v\n", config.LoadTime)
	}

	if _, err := io.WriteString(config.writer(), b.String()); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return saveFile(config, TextFile, []byte(b.String()))
}

// WriteText renders the grouped order, summary and alerts
func WriteText(w io.Writer, view dto.OrderBuilderView) {
	fmt.Fprintf(w, "🚢 Order Builder - %s (%s)\n", view.Boat.Name, view.Boat.ID)
	fmt.Fprintf(w, "==============================\n\n")
	fmt.Fprintf(w, "Departure: %s (%d days)\n", view.Boat.DepartureDate, view.Boat.DaysUntilDeparture)
	fmt.Fprintf(w, "Arrival: %s (%d days)\n", view.Boat.ArrivalDate, view.Boat.DaysUntilArrival)
	fmt.Fprintf(w, "Booking Deadline: %s (%d days)\n", view.Boat.BookingDeadline, view.Boat.DaysUntilDeadline)
	if view.NextBoat != nil {
		fmt.Fprintf(w, "Next Boat: %s (%s) arrives %s\n", view.NextBoat.Name, view.NextBoat.ID, view.NextBoat.ArrivalDate)
	}
	fmt.Fprintf(w, "Mode: %s\n\n", view.Mode)

	for _, group := range view.Groups {
		fmt.Fprintf(w, "%s (%d) - %s\n", group.Title, len(group.Products), group.Subtitle)
		fmt.Fprintf(w, "  %-3s %-16s %-10s %-10s %-8s %-8s %-8s %s\n",
			"", "SKU", "Stock m²", "Gap m²", "Gap Plt", "Pallets", "Conf", "Reason")
		fmt.Fprintf(w, "  %-3s %-16s %-10s %-10s %-8s %-8s %-8s %s\n",
			"", "----------------", "----------", "----------", "--------", "--------", "--------", "------")
		for _, p := range group.Products {
			mark := "[ ]"
			if p.IsSelected {
				mark = "[x]"
			}
			fmt.Fprintf(w, "  %-3s %-16s %-10.0f %-10.0f %-8d %-8d %-8s %s\n",
				mark,
				p.SKU,
				p.WarehouseM2+p.InTransitM2,
				p.CoverageGapM2,
				p.CoverageGapPallets,
				p.SelectedPallets,
				p.Confidence,
				p.ConfidenceReason)
		}
		fmt.Fprintln(w)
	}

	s := view.Summary
	fmt.Fprintf(w, "📦 Summary\n")
	fmt.Fprintf(w, "Pallets: %d (%.0f m²)\n", s.TotalPallets, s.TotalM2)
	fmt.Fprintf(w, "Containers: %d/%d (%d remaining)\n", s.TotalContainers, s.BoatMaxContainers, s.BoatRemainingContainers)
	fmt.Fprintf(w, "Warehouse: %d + %d = %d/%d (%.0f%%)\n",
		s.WarehouseCurrentPallets, s.TotalPallets, s.WarehouseAfterDelivery, s.WarehouseCapacity, s.WarehouseUtilizationAfter)

	if len(view.Alerts) > 0 {
		fmt.Fprintf(w, "\nAlerts:\n")
		for _, a := range view.Alerts {
			if a.ProductSKU != "" {
				fmt.Fprintf(w, "  %s %s: %s\n", a.Icon, a.ProductSKU, a.Message)
				continue
			}
			fmt.Fprintf(w, "  %s %s\n", a.Icon, a.Message)
		}
	}
	fmt.Fprintln(w)
}

// generateJSONOutput creates JSON output
func generateJSONOutput(view dto.OrderBuilderView, config Config) error {
	jsonData, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}
	return saveFile(config, JSONFile, jsonData)
}

// generateCSVOutput writes the order export
func generateCSVOutput(view dto.OrderBuilderView, export []byte, config Config) error {
	if view.Summary.TotalPallets == 0 {
		fmt.Fprintln(os.Stderr, "No products selected to export")
	}

	if config.OutputDir == "" {
		if _, err := fmt.Fprintf(config.writer(), "%s\n", export); err != nil {
			return fmt.Errorf("failed to write CSV output: %w", err)
		}
		return nil
	}
	return saveFile(config, CSVFile, export)
}

func saveFile(config Config, name string, data []byte) error {
	if config.OutputDir == "" {
		return nil
	}

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, name)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 Results saved to: %s\n", filename)
	}
	return nil
}

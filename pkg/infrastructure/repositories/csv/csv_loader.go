package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// File names expected in a scenario directory
const (
	ProductsFile  = "products.csv"
	BoatsFile     = "boats.csv"
	WarehouseFile = "warehouse.csv"
)

var (
	productsHeader = []string{
		"id", "sku", "description", "warehouse_m2", "in_transit_m2", "daily_velocity", "weeks_of_data",
		"velocity_cv", "unique_customers", "top_customer_name", "top_customer_share", "recurring_customers",
		"weekly_sales_m2",
	}
	boatsHeader = []string{
		"id", "name", "departure_date", "arrival_date", "booking_deadline", "max_containers", "status",
		"origin_port", "destination_port",
	}
	warehouseHeader = []string{"current_pallets", "recorded_at"}
)

// Loader handles loading order builder snapshots from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadProducts loads the product demand snapshot from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readRecords(filename, "products", productsHeader)
	if err != nil {
		return nil, err
	}

	var products []*entities.Product
	for i, record := range records {
		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}

	return products, nil
}

// LoadBoats loads the boat schedule from a CSV file
func (l *Loader) LoadBoats(filename string) ([]*entities.Boat, error) {
	records, err := readRecords(filename, "boats", boatsHeader)
	if err != nil {
		return nil, err
	}

	var boats []*entities.Boat
	for i, record := range records {
		boat, err := parseBoat(record)
		if err != nil {
			return nil, fmt.Errorf("boats CSV row %d: %w", i+2, err)
		}
		boats = append(boats, boat)
	}

	return boats, nil
}

// LoadWarehouse loads the warehouse occupancy reading. When the file lists several
// readings the most recent one wins.
func (l *Loader) LoadWarehouse(filename string) (*entities.WarehouseReading, error) {
	records, err := readRecords(filename, "warehouse", warehouseHeader)
	if err != nil {
		return nil, err
	}

	var latest *entities.WarehouseReading
	for i, record := range records {
		reading, err := parseWarehouseReading(record)
		if err != nil {
			return nil, fmt.Errorf("warehouse CSV row %d: %w", i+2, err)
		}
		if latest == nil || !reading.RecordedAt.Before(latest.RecordedAt) {
			latest = reading
		}
	}

	return latest, nil
}

// readRecords opens a CSV file, checks its header and returns the data rows
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	rows := records[1:]
	for i, record := range rows {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return rows, nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseProduct(record []string) (*entities.Product, error) {
	warehouse, err := parseFloat("warehouse_m2", record[3])
	if err != nil {
		return nil, err
	}
	transit, err := parseFloat("in_transit_m2", record[4])
	if err != nil {
		return nil, err
	}
	velocity, err := parseFloat("daily_velocity", record[5])
	if err != nil {
		return nil, err
	}
	weeks, err := parseInt("weeks_of_data", record[6])
	if err != nil {
		return nil, err
	}
	cv, err := parseOptionalFloat("velocity_cv", record[7])
	if err != nil {
		return nil, err
	}
	unique, err := parseInt("unique_customers", record[8])
	if err != nil {
		return nil, err
	}
	share, err := parseOptionalFloat("top_customer_share", record[10])
	if err != nil {
		return nil, err
	}
	recurring, err := parseInt("recurring_customers", record[11])
	if err != nil {
		return nil, err
	}
	weekly, err := parseWeeklySales(record[12])
	if err != nil {
		return nil, err
	}

	p := &entities.Product{
		ID:                 entities.ProductID(strings.TrimSpace(record[0])),
		SKU:                strings.TrimSpace(record[1]),
		Description:        record[2],
		WarehouseStockM2:   warehouse,
		InTransitM2:        transit,
		DailyVelocity:      velocity,
		WeeksOfData:        weeks,
		VelocityCV:         cv,
		UniqueCustomers:    unique,
		TopCustomerName:    record[9],
		TopCustomerShare:   share,
		RecurringCustomers: recurring,
		WeeklySalesM2:      weekly,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func parseBoat(record []string) (*entities.Boat, error) {
	departure, err := parseDate("departure_date", record[2])
	if err != nil {
		return nil, err
	}
	arrival, err := parseDate("arrival_date", record[3])
	if err != nil {
		return nil, err
	}
	deadline, err := parseDate("booking_deadline", record[4])
	if err != nil {
		return nil, err
	}
	maxContainers, err := parseInt("max_containers", record[5])
	if err != nil {
		return nil, err
	}
	status, err := entities.ParseBoatStatus(record[6])
	if err != nil {
		return nil, err
	}

	b := &entities.Boat{
		ID:              entities.BoatID(strings.TrimSpace(record[0])),
		Name:            record[1],
		DepartureDate:   departure,
		ArrivalDate:     arrival,
		BookingDeadline: deadline,
		MaxContainers:   maxContainers,
		Status:          status,
		OriginPort:      record[7],
		DestinationPort: record[8],
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func parseWarehouseReading(record []string) (*entities.WarehouseReading, error) {
	pallets, err := parseInt("current_pallets", record[0])
	if err != nil {
		return nil, err
	}
	if pallets < 0 {
		return nil, fmt.Errorf("current_pallets cannot be negative, got %d", pallets)
	}
	recordedAt, err := parseDate("recorded_at", record[1])
	if err != nil {
		return nil, err
	}
	return &entities.WarehouseReading{CurrentPallets: pallets, RecordedAt: recordedAt}, nil
}

func parseFloat(column, s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return v, nil
}

func parseOptionalFloat(column, s string) (*float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	v, err := parseFloat(column, s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseInt(column, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, s)
	}
	return v, nil
}

func parseDate(column, s string) (time.Time, error) {
	d, err := time.Parse(entities.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %s (expected YYYY-MM-DD)", column, s)
	}
	return d, nil
}

// parseWeeklySales reads a semicolon separated list of weekly m² figures, oldest first
func parseWeeklySales(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	weekly := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weekly_sales_m2 entry: %s", part)
		}
		weekly = append(weekly, v)
	}
	return weekly, nil
}

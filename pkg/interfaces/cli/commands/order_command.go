package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/orderbuilder/pkg/application/services/orchestration"
	"github.com/vsinha/orderbuilder/pkg/application/services/recommendation"
	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/domain/repositories"
	"github.com/vsinha/orderbuilder/pkg/domain/services"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/config"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/metrics"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/orderbuilder/pkg/interfaces/cli/output"
)

// Config holds configuration for the order command
type Config struct {
	ScenarioDir string
	DBPath      string
	Import      bool
	BoatID      string
	Mode        string
	Toggle      string // comma separated product ids
	Set         string // comma separated id=pallets pairs
	OutputDir   string
	Format      string
	Verbose     bool
	Help        bool
}

// OrderCommand builds an order for one boat from a snapshot and prints it
type OrderCommand struct {
	config Config
	engine config.EngineConfig
	log    zerolog.Logger
	clock  func() time.Time
}

// NewOrderCommand creates a new order command with the given configuration
func NewOrderCommand(cfg Config, engine config.EngineConfig, log zerolog.Logger) *OrderCommand {
	return &OrderCommand{
		config: cfg,
		engine: engine,
		log:    log.With().Str("component", "order_command").Logger(),
		clock:  time.Now,
	}
}

// quantityEdit is one -set entry
type quantityEdit struct {
	ProductID entities.ProductID
	Pallets   int
}

// Execute runs the order command
func (c *OrderCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	mode, err := entities.ParseMode(c.config.Mode)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	edits, err := parseQuantityEdits(c.config.Set)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(mode)
	}

	products, boats, closeFn, err := c.openSnapshot(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	recorder := metrics.NewRecorder()
	source := recommendation.NewService(products, boats, c.engine, c.log, recommendation.WithClock(c.clock))
	manager, err := orchestration.NewSessionManager(source, c.engine, c.log,
		orchestration.WithMetrics(recorder),
		orchestration.WithClock(c.clock),
	)
	if err != nil {
		return err
	}

	start := time.Now()
	session, err := manager.Open(ctx, entities.BoatID(c.config.BoatID), mode)
	if err != nil {
		return err
	}
	defer manager.Close(session.ID)
	loadTime := time.Since(start)

	for _, id := range splitList(c.config.Toggle) {
		if !session.Engine.ToggleSelect(entities.ProductID(id)) {
			fmt.Fprintf(os.Stderr, "Warning: unknown product %s, toggle ignored\n", id)
		}
	}
	for _, edit := range edits {
		if !session.Engine.SetQuantity(edit.ProductID, edit.Pallets) {
			fmt.Fprintf(os.Stderr, "Warning: unknown product %s, quantity ignored\n", edit.ProductID)
		}
	}

	export, err := session.Engine.Export()
	if err != nil {
		return fmt.Errorf("error exporting order: %w", err)
	}

	err = output.Generate(session.Engine.View(), export, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		LoadTime:  loadTime,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		c.printMetrics(recorder)
	}
	return nil
}

// openSnapshot wires the product and boat repositories for the configured source
func (c *OrderCommand) openSnapshot(
	ctx context.Context,
) (repositories.ProductRepository, repositories.BoatRepository, func(), error) {
	noop := func() {}

	if c.config.ScenarioDir == "" {
		store, err := sqlite.Open(c.config.DBPath, c.log)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("failed to open snapshot database: %w", err)
		}
		return store.Products, store.Boats, func() { store.Close() }, nil
	}

	products, boats, reading, err := c.loadScenario()
	if err != nil {
		return nil, nil, noop, err
	}

	if c.config.DBPath != "" && c.config.Import {
		store, err := sqlite.Open(c.config.DBPath, c.log)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("failed to open snapshot database: %w", err)
		}
		if err := store.ImportSnapshot(ctx, products, boats, reading); err != nil {
			store.Close()
			return nil, nil, noop, fmt.Errorf("failed to import scenario: %w", err)
		}
		if c.config.Verbose {
			fmt.Printf("💾 Scenario imported into %s\n", c.config.DBPath)
		}
		return store.Products, store.Boats, func() { store.Close() }, nil
	}

	productRepo := memory.NewProductRepository(len(products))
	if err := productRepo.LoadProducts(products); err != nil {
		return nil, nil, noop, fmt.Errorf("failed to load products into repository: %w", err)
	}
	if reading != nil {
		productRepo.SetWarehouseReading(*reading)
	}
	boatRepo := memory.NewBoatRepository()
	if err := boatRepo.LoadBoats(boats); err != nil {
		return nil, nil, noop, fmt.Errorf("failed to load boats into repository: %w", err)
	}
	return productRepo, boatRepo, noop, nil
}

// loadScenario reads and validates the CSV files of a scenario directory
func (c *OrderCommand) loadScenario() ([]*entities.Product, []*entities.Boat, *entities.WarehouseReading, error) {
	files, err := c.resolveInputFiles()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to resolve input files: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("📂 Loading data from CSV files...")
	}

	loader := csv.NewLoader()
	products, err := loader.LoadProducts(files[csv.ProductsFile])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading products: %w", err)
	}
	boats, err := loader.LoadBoats(files[csv.BoatsFile])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading boats: %w", err)
	}

	var reading *entities.WarehouseReading
	if path, ok := files[csv.WarehouseFile]; ok {
		reading, err = loader.LoadWarehouse(path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("error loading warehouse: %w", err)
		}
	}

	validation := services.NewSnapshotValidator().ValidateSnapshot(products, boats)
	if !validation.Valid() {
		return nil, nil, nil, fmt.Errorf("snapshot validation failed: %s", strings.Join(validation.Errors, "; "))
	}

	if c.config.Verbose {
		fmt.Printf("✅ Data loaded successfully:\n")
		fmt.Printf("  Products: %d\n", len(products))
		fmt.Printf("  Boats: %d\n", len(boats))
		if reading != nil {
			fmt.Printf("  Warehouse: %d pallets\n", reading.CurrentPallets)
		}
		fmt.Println()
	}

	return products, boats, reading, nil
}

// validateInputs validates the command configuration
func (c *OrderCommand) validateInputs() error {
	if c.config.ScenarioDir == "" && c.config.DBPath == "" {
		return fmt.Errorf("must specify either -scenario directory or -db file")
	}
	if c.config.Import && (c.config.ScenarioDir == "" || c.config.DBPath == "") {
		return fmt.Errorf("-import requires both -scenario and -db")
	}
	return nil
}

// resolveInputFiles determines the scenario file paths; the warehouse file is optional
func (c *OrderCommand) resolveInputFiles() (map[string]string, error) {
	files := make(map[string]string, 3)
	for _, name := range []string{csv.ProductsFile, csv.BoatsFile} {
		path := filepath.Join(c.config.ScenarioDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
		files[name] = path
	}

	warehouse := filepath.Join(c.config.ScenarioDir, csv.WarehouseFile)
	if _, err := os.Stat(warehouse); err == nil {
		files[csv.WarehouseFile] = warehouse
	}
	return files, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseQuantityEdits parses "id=pallets,id=pallets"
func parseQuantityEdits(s string) ([]quantityEdit, error) {
	var edits []quantityEdit
	for _, pair := range splitList(s) {
		id, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid -set entry %q (expected id=pallets)", pair)
		}
		pallets, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid pallet count in -set entry %q: %w", pair, err)
		}
		edits = append(edits, quantityEdit{ProductID: entities.ProductID(strings.TrimSpace(id)), Pallets: pallets})
	}
	return edits, nil
}

// printHeader prints the command header information
func (c *OrderCommand) printHeader(mode entities.Mode) {
	fmt.Printf("🚀 Order Builder CLI\n")
	if c.config.ScenarioDir != "" {
		fmt.Printf("Scenario: %s\n", c.config.ScenarioDir)
	}
	if c.config.DBPath != "" {
		fmt.Printf("Database: %s\n", c.config.DBPath)
	}
	boat := c.config.BoatID
	if boat == "" {
		boat = "next available"
	}
	fmt.Printf("Boat: %s\n", boat)
	fmt.Printf("Mode: %s\n", mode)
	fmt.Printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Println()
}

func (c *OrderCommand) printMetrics(recorder *metrics.Recorder) {
	snap, err := recorder.Snapshot()
	if err != nil {
		c.log.Warn().Err(err).Msg("Failed to gather metrics")
		return
	}

	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("📈 Metrics:\n")
	for _, name := range names {
		fmt.Printf("  %s %g\n", name, snap[name])
	}
}

// showHelp displays the help message
func (c *OrderCommand) showHelp() {
	fmt.Printf(`Order Builder CLI - Container order planning for a tile distributor

USAGE:
    orderbuilder -scenario <directory> [OPTIONS]   # Use scenario directory with CSV files
    orderbuilder -db <file> [OPTIONS]              # Use a previously imported snapshot
    orderbuilder generate [OPTIONS]                # Generate a synthetic scenario

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -db <file>          Path to the SQLite snapshot database
    -import             Import the scenario into the -db database before planning
    -boat <id>          Boat to plan for (default: next boat with a future departure)
    -mode <mode>        Order mode: minimal, standard, optimal (default: standard)
    -toggle <ids>       Comma separated product ids to toggle after defaults are built
    -set <pairs>        Comma separated id=pallets quantities applied after toggles
    -output <dir>       Output directory for results (optional)
    -format <fmt>       Output format: text, json, csv (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── products.csv    # Product demand snapshot
    ├── boats.csv       # Boat schedule
    └── warehouse.csv   # Warehouse occupancy readings (optional)

CSV FILE FORMATS:

products.csv:
    id,sku,description,warehouse_m2,in_transit_m2,daily_velocity,weeks_of_data,velocity_cv,unique_customers,top_customer_name,top_customer_share,recurring_customers,weekly_sales_m2
    P-001,TILE-60-GRY,Grey porcelain 60x60,810,0,30,16,0.3,12,Casa Nova,0.2,9,

boats.csv:
    id,name,departure_date,arrival_date,booking_deadline,max_containers,status,origin_port,destination_port
    B1,MSC Aurora,2026-03-12,2026-04-06,2026-03-07,5,available,Valencia,Santos

warehouse.csv:
    current_pallets,recorded_at
    600,2026-03-01

ENVIRONMENT:
    ORDERBUILDER_CONFIG           YAML site file with engine constants
    ORDERBUILDER_DB               Default for -db
    ORDERBUILDER_SCALING_POLICY   proportional or priority_first
    LOG_LEVEL, LOG_PRETTY         Logger settings

EXAMPLES:
    # Plan the next boat with the standard container target
    orderbuilder -scenario examples/showroom -verbose

    # Plan a specific boat in optimal mode and adjust two lines
    orderbuilder -scenario examples/showroom -boat B2 -mode optimal -toggle P-WELL -set P-HIGH=12

    # Import once, then plan from the database
    orderbuilder -scenario examples/showroom -db data/orders.db -import
    orderbuilder -db data/orders.db -format csv -output results/
`)
}

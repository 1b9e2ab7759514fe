package commands

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/repositories/csv"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Products  int     // Number of products to generate
	Boats     int     // Number of scheduled boats
	Cadence   int     // Days between boat departures
	Coverage  float64 // Stock multiplier (e.g., 0.5 = half the usual cover, 2.0 = double)
	StartDate string  // Reference date (YYYY-MM-DD), defaults to today
	OutputDir string  // Output directory for generated files
	Seed      int64   // Random seed for reproducible generation
	Help      bool    // Show help
	Verbose   bool    // Verbose output
}

// GenerateCommand handles scenario generation
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	start  time.Time
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

var (
	tileFamilies = []string{"TILE", "MOSAIC", "SLATE", "WOOD", "TERRAZZO", "MARBLE"}
	tileSizes    = []string{"30", "45", "60", "90", "120"}
	tileFinishes = []string{"GRY", "BEI", "WHT", "BLK", "OAK", "SND"}
	vessels      = []string{"MSC Aurora", "Maersk Lima", "Hapag Tide", "CMA Orion", "ONE Harbor", "Evergreen Sol"}
	customers    = []string{"Casa Nova", "Obra Prima", "Studio Piso", "Lar Doce", "Reforma Ja"}
)

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf(
			"🔧 Generating scenario with %d products, %d boats every %d days, %.1fx coverage\n",
			cmd.config.Products,
			cmd.config.Boats,
			cmd.config.Cadence,
			cmd.config.Coverage,
		)
		fmt.Printf("📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Printf("🎲 Random seed: %d\n", cmd.config.Seed)
	}

	// Create output directory
	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("🚢 Generating %s...\n", csv.BoatsFile)
	}
	if err := cmd.generateBoats(); err != nil {
		return fmt.Errorf("failed to generate boats: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("📦 Generating %s...\n", csv.ProductsFile)
	}
	if err := cmd.generateProducts(); err != nil {
		return fmt.Errorf("failed to generate products: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("🏭 Generating %s...\n", csv.WarehouseFile)
	}
	if err := cmd.generateWarehouse(); err != nil {
		return fmt.Errorf("failed to generate warehouse: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}

	return nil
}

func (cmd *GenerateCommand) validate() error {
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if cmd.config.Products <= 0 {
		return fmt.Errorf("products must be positive, got %d", cmd.config.Products)
	}
	if cmd.config.Boats <= 0 {
		return fmt.Errorf("boats must be positive, got %d", cmd.config.Boats)
	}
	if cmd.config.Cadence <= 0 {
		return fmt.Errorf("cadence must be positive, got %d", cmd.config.Cadence)
	}
	if cmd.config.Coverage <= 0 {
		return fmt.Errorf("coverage must be positive, got %g", cmd.config.Coverage)
	}

	cmd.start = time.Now().UTC().Truncate(24 * time.Hour)
	if cmd.config.StartDate != "" {
		start, err := time.Parse(entities.DateLayout, cmd.config.StartDate)
		if err != nil {
			return fmt.Errorf("invalid start date: %s", cmd.config.StartDate)
		}
		cmd.start = start
	}
	return nil
}

// generateBoats writes a regular departure schedule starting one week out
func (cmd *GenerateCommand) generateBoats() error {
	filePath := filepath.Join(cmd.config.OutputDir, csv.BoatsFile)
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write header
	fmt.Fprintln(file, "id,name,departure_date,arrival_date,booking_deadline,max_containers,status,origin_port,destination_port")

	for i := 0; i < cmd.config.Boats; i++ {
		departure := cmd.start.AddDate(0, 0, 7+i*cmd.config.Cadence)
		arrival := departure.AddDate(0, 0, 22+cmd.rand.Intn(7))
		deadline := departure.AddDate(0, 0, -5)
		maxContainers := 3 + cmd.rand.Intn(4)

		fmt.Fprintf(file, "B%02d,%s,%s,%s,%s,%d,available,Valencia,Santos\n",
			i+1,
			vessels[i%len(vessels)],
			departure.Format(entities.DateLayout),
			arrival.Format(entities.DateLayout),
			deadline.Format(entities.DateLayout),
			maxContainers)
	}

	return nil
}

// generateProducts writes a product snapshot mixing steady sellers, volatile lines,
// single-customer lines and products with no sales
func (cmd *GenerateCommand) generateProducts() error {
	filePath := filepath.Join(cmd.config.OutputDir, csv.ProductsFile)
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	// Write header
	fmt.Fprintln(file, "id,sku,description,warehouse_m2,in_transit_m2,daily_velocity,weeks_of_data,velocity_cv,unique_customers,top_customer_name,top_customer_share,recurring_customers,weekly_sales_m2")

	for i := 0; i < cmd.config.Products; i++ {
		family := tileFamilies[cmd.rand.Intn(len(tileFamilies))]
		size := tileSizes[cmd.rand.Intn(len(tileSizes))]
		finish := tileFinishes[cmd.rand.Intn(len(tileFinishes))]
		id := fmt.Sprintf("P-%04d", i+1)
		sku := fmt.Sprintf("%s-%s-%s-%03d", family, size, finish, i+1)
		desc := fmt.Sprintf("%s %sx%s %s", strings.ToLower(family), size, size, strings.ToLower(finish))

		// Roughly one in ten products has no sales yet
		if cmd.rand.Intn(10) == 0 {
			fmt.Fprintf(file, "%s,%s,%s,%.0f,0,0,0,,0,,,0,\n", id, sku, desc, float64(cmd.rand.Intn(800)))
			continue
		}

		weekly := cmd.generateWeeklySales()
		velocity := 0.0
		for _, w := range weekly {
			velocity += w
		}
		velocity = velocity / float64(len(weekly)) / 7

		coverDays := float64(10+cmd.rand.Intn(80)) * cmd.config.Coverage
		warehouse := velocity * coverDays
		transit := 0.0
		if cmd.rand.Intn(10) < 3 {
			transit = velocity * float64(5+cmd.rand.Intn(20))
		}

		unique := 1 + cmd.rand.Intn(20)
		share := 1.0
		if unique > 1 {
			share = 0.05 + cmd.rand.Float64()*0.7
		}
		recurring := cmd.rand.Intn(unique + 1)

		fmt.Fprintf(file, "%s,%s,%s,%.1f,%.1f,,,,%d,%s,%.2f,%d,%s\n",
			id, sku, desc, warehouse, transit,
			unique, customers[cmd.rand.Intn(len(customers))], share, recurring,
			formatWeekly(weekly))
	}

	return nil
}

// generateWeeklySales produces 1 to 26 weeks of history; some lines are lumpy
func (cmd *GenerateCommand) generateWeeklySales() []float64 {
	weeks := 1 + cmd.rand.Intn(26)
	base := 20 + cmd.rand.Float64()*250
	lumpy := cmd.rand.Intn(5) == 0

	weekly := make([]float64, weeks)
	for i := range weekly {
		switch {
		case lumpy && cmd.rand.Intn(3) != 0:
			weekly[i] = 0
		case lumpy:
			weekly[i] = base * 3
		default:
			weekly[i] = base * (0.7 + cmd.rand.Float64()*0.6)
		}
	}
	// Keep at least one sale so velocity stays positive
	weekly[weeks-1] += 1
	return weekly
}

func formatWeekly(weekly []float64) string {
	parts := make([]string, len(weekly))
	for i, w := range weekly {
		parts[i] = strconv.FormatFloat(w, 'f', 1, 64)
	}
	return strings.Join(parts, ";")
}

// generateWarehouse writes a single occupancy reading taken on the start date
func (cmd *GenerateCommand) generateWarehouse() error {
	filePath := filepath.Join(cmd.config.OutputDir, csv.WarehouseFile)
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	fmt.Fprintln(file, "current_pallets,recorded_at")
	fmt.Fprintf(file, "%d,%s\n", 300+cmd.rand.Intn(400), cmd.start.Format(entities.DateLayout))
	return nil
}

func (cmd *GenerateCommand) printHelp() {
	fmt.Println(`Order Builder Scenario Generator

USAGE:
    orderbuilder generate [OPTIONS]

OPTIONS:
    --products <N>      Number of products to generate (required)
    --boats <N>         Number of scheduled boats (default: 4)
    --cadence <N>       Days between departures (default: 14)
    --coverage <F>      Stock multiplier (e.g., 0.5 = half the usual cover, 2.0 = double) (default: 1.0)
    --start <DATE>      Reference date YYYY-MM-DD (default: today)
    --output <DIR>      Output directory for generated files (required)
    --seed <N>          Random seed for reproducible generation (optional)
    --verbose           Enable verbose output
    --help              Show this help message

EXAMPLES:
    # Generate small test scenario
    orderbuilder generate --products 40 --output ./test_scenario

    # Generate a tight scenario where most products run short
    orderbuilder generate --products 500 --coverage 0.4 --output ./short_scenario --verbose

    # Generate reproducible scenario
    orderbuilder generate --products 200 --boats 6 --output ./repro_scenario --seed 12345`)
}

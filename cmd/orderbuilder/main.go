package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/vsinha/orderbuilder/pkg/infrastructure/config"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/logger"
	"github.com/vsinha/orderbuilder/pkg/interfaces/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "generate" {
		if err := runGenerate(ctx, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing CSV files",
		)
		dbPath    = flag.String("db", cfg.DatabasePath, "Path to the SQLite snapshot database")
		importDB  = flag.Bool("import", false, "Import the scenario into the database before planning")
		boatID    = flag.String("boat", "", "Boat to plan for (default: next boat)")
		mode      = flag.String("mode", "standard", "Order mode: minimal, standard, optimal")
		toggle    = flag.String("toggle", "", "Comma separated product ids to toggle")
		set       = flag.String("set", "", "Comma separated id=pallets quantities")
		outputDir = flag.String("output", "", "Output directory for results (optional)")
		format    = flag.String("format", "text", "Output format: text, json, csv")
		verbose   = flag.Bool("verbose", false, "Enable verbose output")
		help      = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	level := cfg.LogLevel
	if *verbose && level == "info" {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	// Create command configuration
	cmdConfig := commands.Config{
		ScenarioDir: *scenarioDir,
		DBPath:      *dbPath,
		Import:      *importDB,
		BoatID:      *boatID,
		Mode:        *mode,
		Toggle:      *toggle,
		Set:         *set,
		OutputDir:   *outputDir,
		Format:      *format,
		Verbose:     *verbose,
		Help:        *help,
	}

	// Create and execute command
	cmd := commands.NewOrderCommand(cmdConfig, cfg.Engine, log)
	if err := cmd.Execute(ctx); err != nil {
		log.Error().Err(err).Msg("Order builder failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		products  = fs.Int("products", 0, "Number of products to generate")
		boats     = fs.Int("boats", 4, "Number of scheduled boats")
		cadence   = fs.Int("cadence", 14, "Days between departures")
		coverage  = fs.Float64("coverage", 1.0, "Stock multiplier")
		start     = fs.String("start", "", "Reference date YYYY-MM-DD (default: today)")
		outputDir = fs.String("output", "", "Output directory for generated files")
		seed      = fs.Int64("seed", 0, "Random seed for reproducible generation")
		verbose   = fs.Bool("verbose", false, "Enable verbose output")
		help      = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := commands.NewGenerateCommand(commands.GenerateConfig{
		Products:  *products,
		Boats:     *boats,
		Cadence:   *cadence,
		Coverage:  *coverage,
		StartDate: *start,
		OutputDir: *outputDir,
		Seed:      *seed,
		Help:      *help,
		Verbose:   *verbose,
	})
	return cmd.Execute(ctx)
}

package commands

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/orderbuilder/pkg/domain/services"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/repositories/csv"
)

func TestGenerateCommand_ProducesLoadableScenario(t *testing.T) {
	dir := t.TempDir()
	gen := NewGenerateCommand(GenerateConfig{
		Products:  30,
		Boats:     3,
		Cadence:   14,
		Coverage:  0.8,
		StartDate: "2026-03-01",
		OutputDir: dir,
		Seed:      42,
	})
	require.NoError(t, gen.Execute(context.Background()))

	loader := csv.NewLoader()
	products, err := loader.LoadProducts(filepath.Join(dir, csv.ProductsFile))
	require.NoError(t, err)
	boats, err := loader.LoadBoats(filepath.Join(dir, csv.BoatsFile))
	require.NoError(t, err)
	reading, err := loader.LoadWarehouse(filepath.Join(dir, csv.WarehouseFile))
	require.NoError(t, err)

	assert.Len(t, products, 30)
	assert.Len(t, boats, 3)
	require.NotNil(t, reading)
	assert.GreaterOrEqual(t, reading.CurrentPallets, 300)
	assert.True(t, services.NewSnapshotValidator().ValidateSnapshot(products, boats).Valid())

	assert.Equal(t, "2026-03-08", boats[0].DepartureDate.Format("2006-01-02"))
	assert.Equal(t, "2026-03-22", boats[1].DepartureDate.Format("2006-01-02"))

	cmd := newTestCommand(Config{ScenarioDir: dir, Mode: "optimal", Format: "csv", OutputDir: t.TempDir()})
	require.NoError(t, cmd.Execute(context.Background()))
}

func TestGenerateCommand_SameSeedSameScenario(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	for _, dir := range []string{first, second} {
		gen := NewGenerateCommand(GenerateConfig{
			Products: 10, Boats: 2, Cadence: 7, Coverage: 1, StartDate: "2026-03-01", OutputDir: dir, Seed: 7,
		})
		require.NoError(t, gen.Execute(context.Background()))
	}

	loader := csv.NewLoader()
	a, err := loader.LoadProducts(filepath.Join(first, csv.ProductsFile))
	require.NoError(t, err)
	b, err := loader.LoadProducts(filepath.Join(second, csv.ProductsFile))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateCommand_Validation(t *testing.T) {
	err := NewGenerateCommand(GenerateConfig{Products: 5, Boats: 1, Cadence: 7, Coverage: 1}).Execute(context.Background())
	assert.EqualError(t, err, "validation error: output directory is required")

	err = NewGenerateCommand(GenerateConfig{Products: 5, Boats: 1, Cadence: 7, Coverage: 1, StartDate: "03/01/2026", OutputDir: t.TempDir()}).
		Execute(context.Background())
	assert.EqualError(t, err, "validation error: invalid start date: 03/01/2026")
}

package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "orderbuilder.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func day(s string) time.Time {
	d, err := time.Parse(entities.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestStore_ImportSnapshot_RoundTrip(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	cv := 0.4
	share := 0.3
	products := []*entities.Product{
		{
			ID: "P2", SKU: "TILE-90", WarehouseStockM2: 540, InTransitM2: 135, DailyVelocity: 9.5,
			WeeksOfData: 12, VelocityCV: &cv, UniqueCustomers: 5, TopCustomerName: "Acme Build",
			TopCustomerShare: &share, RecurringCustomers: 2, WeeklySalesM2: []float64{60, 70.5},
		},
		{ID: "P1", SKU: "TILE-60"},
	}
	boat, err := entities.NewBoat("B1", "MSC Aurora", day("2026-03-10"), day("2026-04-05"), day("2026-03-05"), 4)
	require.NoError(t, err)
	boat.Status = entities.BoatBooked
	reading := &entities.WarehouseReading{CurrentPallets: 700, RecordedAt: day("2026-03-01")}

	require.NoError(t, store.ImportSnapshot(ctx, products, []*entities.Boat{boat}, reading))

	got, err := store.Products.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entities.ProductID("P2"), got[0].ID, "load order is preserved")
	assert.Equal(t, *products[0], *got[0])
	assert.Nil(t, got[1].VelocityCV)
	assert.Nil(t, got[1].TopCustomerShare)
	assert.Nil(t, got[1].WeeklySalesM2)

	gotBoat, err := store.Boats.GetBoat(ctx, "B1")
	require.NoError(t, err)
	assert.Equal(t, *boat, *gotBoat)

	gotReading, err := store.Products.GetWarehouseReading(ctx)
	require.NoError(t, err)
	require.NotNil(t, gotReading)
	assert.Equal(t, 700, gotReading.CurrentPallets)
	assert.True(t, reading.RecordedAt.Equal(gotReading.RecordedAt))
}

func TestStore_ReimportReplacesProducts(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.ImportSnapshot(ctx, []*entities.Product{{ID: "P1", SKU: "A"}, {ID: "P2", SKU: "B"}}, nil, nil))
	require.NoError(t, store.ImportSnapshot(ctx, []*entities.Product{{ID: "P3", SKU: "C"}}, nil, nil))

	got, err := store.Products.GetProducts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entities.ProductID("P3"), got[0].ID)
}

func TestProductRepository_LatestWarehouseReading(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	reading, err := store.Products.GetWarehouseReading(ctx)
	require.NoError(t, err)
	assert.Nil(t, reading)

	require.NoError(t, store.Products.RecordWarehouseReading(ctx, entities.WarehouseReading{CurrentPallets: 650, RecordedAt: day("2026-03-02")}))
	require.NoError(t, store.Products.RecordWarehouseReading(ctx, entities.WarehouseReading{CurrentPallets: 600, RecordedAt: day("2026-02-20")}))

	reading, err = store.Products.GetWarehouseReading(ctx)
	require.NoError(t, err)
	assert.Equal(t, 650, reading.CurrentPallets)
}

func TestBoatRepository_Schedule(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	later, err := entities.NewBoat("B2", "Maersk Lima", day("2026-03-24"), day("2026-04-19"), day("2026-03-19"), 5)
	require.NoError(t, err)
	sooner, err := entities.NewBoat("B1", "MSC Aurora", day("2026-03-10"), day("2026-04-05"), day("2026-03-05"), 4)
	require.NoError(t, err)
	require.NoError(t, store.Boats.LoadBoats([]*entities.Boat{later, sooner}))

	boats, err := store.Boats.GetBoats(ctx)
	require.NoError(t, err)
	require.Len(t, boats, 2)
	assert.Equal(t, entities.BoatID("B1"), boats[0].ID)

	_, err = store.Boats.GetBoat(ctx, "B9")
	assert.ErrorIs(t, err, entities.ErrUnknownBoat)
}

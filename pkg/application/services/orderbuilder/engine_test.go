package orderbuilder

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/orderbuilder/pkg/application/services/recommendation"
	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/domain/repositories"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/config"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/events"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/metrics"
	testhelpers "github.com/vsinha/orderbuilder/pkg/infrastructure/testing"
)

func newTestEngine(source repositories.RecommendationSource, opts ...Option) *Engine {
	opts = append([]Option{WithClock(func() time.Time { return testhelpers.Today })}, opts...)
	engine, err := NewEngine(source, config.DefaultEngineConfig(), zerolog.Nop(), opts...)
	if err != nil {
		panic(err)
	}
	return engine
}

// boat departs in 11 days with the booking deadline 6 days out
func aurora(maxContainers int) *entities.Boat {
	return testhelpers.MustCreateBoat("B1", "MSC Aurora", "2026-03-12", "2026-04-06", "2026-03-07", maxContainers)
}

func loadedEngine(
	t *testing.T,
	boat *entities.Boat,
	mode entities.Mode,
	warehouse int,
	recs ...entities.ProductRecommendation,
) *Engine {
	t.Helper()
	engine := newTestEngine(recommendation.NewStaticSource(testhelpers.NewRecommendationSet(boat, mode, warehouse, recs...)))
	require.NoError(t, engine.Initialize(context.Background(), boat.ID, mode))
	return engine
}

func selection(t *testing.T, e *Engine, id entities.ProductID) entities.Selection {
	t.Helper()
	line, ok := e.Line(id)
	require.True(t, ok, "product %s not loaded", id)
	return line.Selection
}

func TestEngine_Initialize_Defaults(t *testing.T) {
	engine := loadedEngine(t, aurora(5), entities.ModeOptimal, 100,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build(),
		testhelpers.Recommendation("P2").Priority(entities.PriorityConsider).Gap(2).Build(),
		testhelpers.Recommendation("P3").Gap(4).Build(),
		testhelpers.Recommendation("P4").Priority(entities.PriorityYourCall).Gap(3).Build(),
		testhelpers.Recommendation("P5").Priority(entities.PriorityHigh).Gap(80).Build(),
		testhelpers.Recommendation("P6").Priority(entities.PriorityHigh).Gap(0).Build(),
	)

	testCases := []struct {
		id       entities.ProductID
		pallets  int
		selected bool
	}{
		{"P1", 6, true},
		{"P2", 2, true},
		{"P3", 0, false},
		{"P4", 0, false},
		{"P5", 50, true},
		{"P6", 0, false},
	}
	for _, tc := range testCases {
		t.Run(string(tc.id), func(t *testing.T) {
			sel := selection(t, engine, tc.id)
			assert.Equal(t, tc.pallets, sel.SelectedPallets)
			assert.Equal(t, tc.selected, sel.IsSelected)
		})
	}

	assert.True(t, engine.Loaded())
	assert.Equal(t, entities.ModeOptimal, engine.Mode())
	boat, ok := engine.Boat()
	require.True(t, ok)
	assert.Equal(t, entities.BoatID("B1"), boat.ID)
	assert.Equal(t, 58, engine.Summary().TotalPallets)
}

func TestEngine_Initialize_KeepsRatioWhenUnderTarget(t *testing.T) {
	engine := loadedEngine(t, aurora(4), entities.ModeStandard, 100,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(30).Build(),
		testhelpers.Recommendation("P2").Priority(entities.PriorityHigh).Gap(25).Build(),
	)

	summary := engine.Summary()
	assert.LessOrEqual(t, summary.TotalPallets, 56)
	assert.Equal(t, 30, selection(t, engine, "P1").SelectedPallets)
	assert.Equal(t, 25, selection(t, engine, "P2").SelectedPallets)
	assert.Equal(t, 4, summary.TotalContainers)
}

func TestEngine_Initialize_ScalesToModeTarget(t *testing.T) {
	testCases := []struct {
		name     string
		boat     *entities.Boat
		mode     entities.Mode
		gaps     []int
		expected []int
	}{
		{"exact proportion", aurora(5), entities.ModeStandard, []int{40, 30}, []int{32, 24}},
		{"remainders to earlier lines", aurora(1), entities.ModeMinimal, []int{10, 10, 10}, []int{5, 5, 4}},
		{"boat caps optimal target", aurora(2), entities.ModeOptimal, []int{50, 20}, []int{20, 8}},
		{"minimal target", aurora(5), entities.ModeMinimal, []int{45, 45}, []int{21, 21}},
		{"gaps above product max keep their ratio", aurora(5), entities.ModeMinimal, []int{100, 50}, []int{28, 14}},
		{"scaled share still clamped", aurora(5), entities.ModeOptimal, []int{300, 50, 50}, []int{50, 9, 9}},
		{"clamped defaults within target", aurora(5), entities.ModeOptimal, []int{80, 10}, []int{50, 10}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var recs []entities.ProductRecommendation
			ids := []entities.ProductID{"P1", "P2", "P3"}
			for i, gap := range tc.gaps {
				recs = append(recs, testhelpers.Recommendation(string(ids[i])).Priority(entities.PriorityHigh).Gap(gap).Build())
			}
			engine := loadedEngine(t, tc.boat, tc.mode, 0, recs...)

			total := 0
			for i, want := range tc.expected {
				got := selection(t, engine, ids[i]).SelectedPallets
				assert.Equal(t, want, got, "product %s", ids[i])
				assert.LessOrEqual(t, got, tc.gaps[i])
				total += got
			}
			assert.LessOrEqual(t, total, tc.boat.MaxContainers*14)
		})
	}
}

func TestEngine_Initialize_PriorityFirstScaling(t *testing.T) {
	boat := aurora(5)
	source := recommendation.NewStaticSource(testhelpers.NewRecommendationSet(boat, entities.ModeStandard, 0,
		testhelpers.Recommendation("P1").Priority(entities.PriorityConsider).Gap(30).Build(),
		testhelpers.Recommendation("P2").Priority(entities.PriorityHigh).Gap(30).Build(),
	))
	engine := newTestEngine(source, WithScalingPolicy(PriorityFirstScaling{}))
	require.NoError(t, engine.Initialize(context.Background(), "B1", entities.ModeStandard))

	assert.Equal(t, 26, selection(t, engine, "P1").SelectedPallets)
	assert.Equal(t, 30, selection(t, engine, "P2").SelectedPallets)
	assert.Equal(t, 56, engine.Summary().TotalPallets)
}

func TestEngine_Initialize_IgnoresDuplicateProducts(t *testing.T) {
	engine := loadedEngine(t, aurora(5), entities.ModeStandard, 0,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(4).Build(),
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(9).Build(),
	)

	require.Len(t, engine.Lines(), 1)
	assert.Equal(t, 4, selection(t, engine, "P1").SelectedPallets)
}

func TestEngine_ToggleSelect(t *testing.T) {
	engine := loadedEngine(t, aurora(5), entities.ModeStandard, 100,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build(),
		testhelpers.Recommendation("P2").Gap(0).Build(),
		testhelpers.Recommendation("P3").Gap(70).Build(),
	)

	require.True(t, engine.ToggleSelect("P1"))
	assert.Equal(t, entities.Selection{IsSelected: false, SelectedPallets: 0}, selection(t, engine, "P1"))

	require.True(t, engine.ToggleSelect("P1"))
	assert.Equal(t, entities.Selection{IsSelected: true, SelectedPallets: 6}, selection(t, engine, "P1"))

	require.True(t, engine.ToggleSelect("P2"))
	assert.Equal(t, entities.Selection{IsSelected: true, SelectedPallets: 1}, selection(t, engine, "P2"), "zero gap selects one pallet")

	require.True(t, engine.ToggleSelect("P3"))
	assert.Equal(t, 50, selection(t, engine, "P3").SelectedPallets)

	assert.False(t, engine.ToggleSelect("missing"))
	assert.Len(t, engine.Lines(), 3)
}

func TestEngine_SetQuantity(t *testing.T) {
	engine := loadedEngine(t, aurora(5), entities.ModeStandard, 100,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build(),
	)

	testCases := []struct {
		requested int
		expected  entities.Selection
	}{
		{12, entities.Selection{IsSelected: true, SelectedPallets: 12}},
		{0, entities.Selection{IsSelected: false, SelectedPallets: 0}},
		{-3, entities.Selection{IsSelected: false, SelectedPallets: 0}},
		{75, entities.Selection{IsSelected: true, SelectedPallets: 50}},
		{50, entities.Selection{IsSelected: true, SelectedPallets: 50}},
	}
	for _, tc := range testCases {
		require.True(t, engine.SetQuantity("P1", tc.requested))
		assert.Equal(t, tc.expected, selection(t, engine, "P1"), "requested %d", tc.requested)
	}

	assert.False(t, engine.SetQuantity("missing", 4))
}

func TestEngine_ToggleOffThenSetQuantity(t *testing.T) {
	engine := loadedEngine(t, aurora(5), entities.ModeStandard, 100,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build(),
	)

	require.True(t, engine.ToggleSelect("P1"))
	require.True(t, engine.SetQuantity("P1", 5))

	assert.Equal(t, entities.Selection{IsSelected: true, SelectedPallets: 5}, selection(t, engine, "P1"))
}

func TestEngine_MutationsBeforeInitialize(t *testing.T) {
	engine := newTestEngine(recommendation.NewStaticSource())

	assert.False(t, engine.ToggleSelect("P1"))
	assert.False(t, engine.SetQuantity("P1", 3))
	assert.Empty(t, engine.Alerts())
	assert.Equal(t, 0, engine.Summary().TotalPallets)
	assert.False(t, engine.Loaded())
	_, ok := engine.Boat()
	assert.False(t, ok)
}

func TestEngine_SelectionInvariantsHoldUnderRandomEdits(t *testing.T) {
	engine := loadedEngine(t, aurora(5), entities.ModeStandard, 300,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build(),
		testhelpers.Recommendation("P2").Priority(entities.PriorityConsider).Gap(18).Build(),
		testhelpers.Recommendation("P3").Gap(0).Build(),
		testhelpers.Recommendation("P4").Priority(entities.PriorityYourCall).NoSales().Build(),
		testhelpers.Recommendation("P5").Priority(entities.PriorityHigh).Gap(64).Build(),
	)

	ids := []entities.ProductID{"P1", "P2", "P3", "P4", "P5", "P-UNKNOWN"}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		id := ids[rng.Intn(len(ids))]
		if rng.Intn(2) == 0 {
			engine.ToggleSelect(id)
		} else {
			engine.SetQuantity(id, rng.Intn(120)-30)
		}

		total := 0
		for _, line := range engine.Lines() {
			sel := line.Selection
			require.Equal(t, sel.SelectedPallets > 0, sel.IsSelected)
			require.GreaterOrEqual(t, sel.SelectedPallets, 0)
			require.LessOrEqual(t, sel.SelectedPallets, 50)
			total += sel.SelectedPallets
		}

		summary := engine.Summary()
		require.Equal(t, total, summary.TotalPallets)
		require.Equal(t, (total+13)/14, summary.TotalContainers)
		require.Equal(t, 300+total, summary.WarehouseAfterDelivery)
	}
}

func TestEngine_Summary(t *testing.T) {
	engine := loadedEngine(t, aurora(5), entities.ModeStandard, 370,
		testhelpers.Recommendation("P1").Build(),
		testhelpers.Recommendation("P2").Build(),
	)

	testCases := []struct {
		p1, p2     int
		containers int
		remaining  int
	}{
		{0, 0, 0, 5},
		{14, 0, 1, 4},
		{10, 5, 2, 3},
		{50, 50, 8, 0},
	}
	for _, tc := range testCases {
		engine.SetQuantity("P1", tc.p1)
		engine.SetQuantity("P2", tc.p2)

		summary := engine.Summary()
		total := tc.p1 + tc.p2
		assert.Equal(t, total, summary.TotalPallets)
		assert.Equal(t, tc.containers, summary.TotalContainers)
		assert.Equal(t, tc.remaining, summary.BoatRemainingContainers)
		assert.Equal(t, float64(total)*135, summary.TotalM2)
		assert.Equal(t, 740, summary.WarehouseCapacity)
		assert.Equal(t, 370+total, summary.WarehouseAfterDelivery)
		assert.InDelta(t, float64(370+total)/740*100, summary.WarehouseUtilizationAfter, 1e-9)
	}
}

func TestEngine_Reset(t *testing.T) {
	boat := aurora(5)
	source := recommendation.NewStaticSource(testhelpers.NewRecommendationSet(boat, entities.ModeStandard, 100,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build(),
		testhelpers.Recommendation("P2").Priority(entities.PriorityConsider).Gap(3).Build(),
		testhelpers.Recommendation("P3").Build(),
	))
	engine := newTestEngine(source)
	ctx := context.Background()
	require.NoError(t, engine.Initialize(ctx, "B1", entities.ModeStandard))
	defaults := engine.Lines()

	engine.ToggleSelect("P1")
	engine.SetQuantity("P3", 9)
	require.NotEqual(t, defaults, engine.Lines())

	require.NoError(t, engine.Reset(ctx, "", entities.ModeStandard))
	assert.Equal(t, defaults, engine.Lines())

	require.NoError(t, engine.Reset(ctx, "", entities.ModeStandard))
	assert.Equal(t, defaults, engine.Lines(), "reset is idempotent")

	boatAfter, _ := engine.Boat()
	assert.Equal(t, entities.BoatID("B1"), boatAfter.ID)
	assert.Equal(t, 3, source.Calls())
}

func TestEngine_Reset_ChangesMode(t *testing.T) {
	boat := aurora(5)
	source := recommendation.NewStaticSource(testhelpers.NewRecommendationSet(boat, entities.ModeStandard, 0,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(40).Build(),
		testhelpers.Recommendation("P2").Priority(entities.PriorityHigh).Gap(30).Build(),
	))
	engine := newTestEngine(source)
	ctx := context.Background()

	require.NoError(t, engine.Initialize(ctx, "B1", entities.ModeOptimal))
	assert.Equal(t, 70, engine.Summary().TotalPallets)

	require.NoError(t, engine.Reset(ctx, "", entities.ModeMinimal))
	assert.Equal(t, entities.ModeMinimal, engine.Mode())
	assert.Equal(t, 42, engine.Summary().TotalPallets)
}

type sourceFunc func(ctx context.Context, boatID entities.BoatID, mode entities.Mode) (*entities.RecommendationSet, error)

func (f sourceFunc) GetRecommendations(ctx context.Context, boatID entities.BoatID, mode entities.Mode) (*entities.RecommendationSet, error) {
	return f(ctx, boatID, mode)
}

func TestEngine_Initialize_FailureKeepsPreviousState(t *testing.T) {
	boat := aurora(5)
	set := testhelpers.NewRecommendationSet(boat, entities.ModeStandard, 100,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build(),
	)

	var failWith error
	var empty bool
	source := sourceFunc(func(context.Context, entities.BoatID, entities.Mode) (*entities.RecommendationSet, error) {
		if failWith != nil {
			return nil, failWith
		}
		if empty {
			return nil, nil
		}
		out := *set
		return &out, nil
	})

	recorder := metrics.NewRecorder()
	engine := newTestEngine(source, WithMetrics(recorder))
	ctx := context.Background()
	require.NoError(t, engine.Initialize(ctx, "B1", entities.ModeStandard))
	engine.SetQuantity("P1", 9)
	before := engine.Lines()

	testCases := []struct {
		name     string
		err      error
		empty    bool
		sentinel error
	}{
		{"timeout", errors.New("connection timed out"), false, entities.ErrDataUnavailable},
		{"already classified", entities.ErrDataUnavailable, false, entities.ErrDataUnavailable},
		{"unknown boat", entities.ErrUnknownBoat, false, entities.ErrUnknownBoat},
		{"no data", nil, true, entities.ErrDataUnavailable},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			failWith, empty = tc.err, tc.empty

			err := engine.Initialize(ctx, "B9", entities.ModeOptimal)
			require.ErrorIs(t, err, tc.sentinel)
			assert.Equal(t, before, engine.Lines())
			assert.Equal(t, entities.ModeStandard, engine.Mode())
			assert.True(t, engine.Loaded())
		})
	}

	snap, err := recorder.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 4.0, snap[`orderbuilder_initializations_total{outcome="failed"}`])
	assert.Equal(t, 1.0, snap[`orderbuilder_initializations_total{outcome="ok"}`])
}

// gatedSource blocks each fetch until its boat's gate is closed
type gatedSource struct {
	sets    map[entities.BoatID]*entities.RecommendationSet
	gates   map[entities.BoatID]chan struct{}
	started chan entities.BoatID
}

func newGatedSource(sets ...*entities.RecommendationSet) *gatedSource {
	s := &gatedSource{
		sets:    make(map[entities.BoatID]*entities.RecommendationSet),
		gates:   make(map[entities.BoatID]chan struct{}),
		started: make(chan entities.BoatID, 4),
	}
	for _, set := range sets {
		s.sets[set.Boat.ID] = set
		s.gates[set.Boat.ID] = make(chan struct{})
	}
	return s
}

func (s *gatedSource) GetRecommendations(ctx context.Context, boatID entities.BoatID, mode entities.Mode) (*entities.RecommendationSet, error) {
	s.started <- boatID
	select {
	case <-s.gates[boatID]:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	out := *s.sets[boatID]
	out.Mode = mode
	return &out, nil
}

func TestEngine_LatestInitializeWins(t *testing.T) {
	b1 := aurora(5)
	b2 := testhelpers.MustCreateBoat("B2", "Maersk Lima", "2026-03-26", "2026-04-20", "2026-03-21", 5)
	source := newGatedSource(
		testhelpers.NewRecommendationSet(b1, entities.ModeStandard, 100,
			testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build()),
		testhelpers.NewRecommendationSet(b2, entities.ModeStandard, 100,
			testhelpers.Recommendation("P2").Priority(entities.PriorityHigh).Gap(4).Build()),
	)

	recorder := metrics.NewRecorder()
	store := events.NewInMemoryEventStore(zerolog.Nop())
	engine := newTestEngine(source, WithMetrics(recorder), WithEvents(store, "session-1"))
	ctx := context.Background()

	first := make(chan error, 1)
	second := make(chan error, 1)
	go func() { first <- engine.Initialize(ctx, "B1", entities.ModeStandard) }()
	require.Equal(t, entities.BoatID("B1"), <-source.started)
	go func() { second <- engine.Initialize(ctx, "B2", entities.ModeStandard) }()
	require.Equal(t, entities.BoatID("B2"), <-source.started)

	close(source.gates["B2"])
	require.NoError(t, <-second)
	close(source.gates["B1"])
	require.ErrorIs(t, <-first, entities.ErrSuperseded)

	boat, ok := engine.Boat()
	require.True(t, ok)
	assert.Equal(t, entities.BoatID("B2"), boat.ID)
	_, stale := engine.Line("P1")
	assert.False(t, stale)
	assert.Equal(t, 4, selection(t, engine, "P2").SelectedPallets)

	snap, err := recorder.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1.0, snap[`orderbuilder_initializations_total{outcome="superseded"}`])
	assert.Equal(t, 1.0, snap[`orderbuilder_initializations_total{outcome="ok"}`])

	recorded, err := store.History("session-1", 1)
	require.NoError(t, err)
	require.Len(t, recorded, 2)
	assert.Equal(t, events.OrderInitializedEvent, recorded[0].Type)
	assert.Equal(t, events.OrderInitializeSupersededEvent, recorded[1].Type)
}

func TestEngine_DiscardsMutationsDuringReload(t *testing.T) {
	boat := aurora(5)
	source := newGatedSource(testhelpers.NewRecommendationSet(boat, entities.ModeStandard, 100,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build(),
		testhelpers.Recommendation("P2").Build(),
	))
	close(source.gates["B1"])

	recorder := metrics.NewRecorder()
	engine := newTestEngine(source, WithMetrics(recorder))
	ctx := context.Background()
	require.NoError(t, engine.Initialize(ctx, "B1", entities.ModeStandard))
	<-source.started

	// reopen the gate so the reset blocks
	source.gates["B1"] = make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- engine.Reset(ctx, "B1", entities.ModeStandard) }()
	<-source.started

	assert.False(t, engine.ToggleSelect("P1"))
	assert.False(t, engine.SetQuantity("P2", 12))

	close(source.gates["B1"])
	require.NoError(t, <-done)

	assert.Equal(t, entities.Selection{IsSelected: true, SelectedPallets: 6}, selection(t, engine, "P1"))
	assert.Equal(t, entities.Selection{}, selection(t, engine, "P2"))
	assert.True(t, engine.SetQuantity("P2", 12), "mutations resume after the reload")

	snap, err := recorder.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 1.0, snap[`orderbuilder_mutations_total{operation="toggle",outcome="discarded"}`])
	assert.Equal(t, 1.0, snap[`orderbuilder_mutations_total{operation="set_quantity",outcome="discarded"}`])
	assert.Equal(t, 1.0, snap[`orderbuilder_mutations_total{operation="set_quantity",outcome="applied"}`])
}

func TestEngine_Initialize_CancelledContext(t *testing.T) {
	boat := aurora(5)
	source := newGatedSource(testhelpers.NewRecommendationSet(boat, entities.ModeStandard, 100,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build(),
	))
	engine := newTestEngine(source)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Initialize(ctx, "B1", entities.ModeStandard) }()
	<-source.started
	cancel()

	require.ErrorIs(t, <-done, context.Canceled)
	assert.False(t, engine.Loaded())
	assert.False(t, engine.ToggleSelect("P1"))
}

func TestEngine_RecordsEvents(t *testing.T) {
	boat := aurora(5)
	store := events.NewInMemoryEventStore(zerolog.Nop())
	source := recommendation.NewStaticSource(testhelpers.NewRecommendationSet(boat, entities.ModeStandard, 100,
		testhelpers.Recommendation("P1").Priority(entities.PriorityHigh).Gap(6).Build(),
	))
	engine := newTestEngine(source, WithEvents(store, "s-42"))
	require.NoError(t, engine.Initialize(context.Background(), "", entities.ModeStandard))

	engine.ToggleSelect("P1")
	engine.SetQuantity("P1", 80)
	engine.SetQuantity("missing", 1)
	_, err := engine.Export()
	require.NoError(t, err)

	recorded, err := store.History("s-42", 1)
	require.NoError(t, err)
	require.Len(t, recorded, 4)

	initialized, ok := recorded[0].Data.(events.OrderInitialized)
	require.True(t, ok)
	assert.Equal(t, events.OrderInitialized{BoatID: "B1", Mode: "standard", Products: 1, TotalPallets: 6}, initialized)

	assert.Equal(t, events.SelectionToggled{ProductID: "P1", Selected: false, Pallets: 0}, recorded[1].Data)
	assert.Equal(t, events.SelectionQuantitySet{ProductID: "P1", Requested: 80, Pallets: 50}, recorded[2].Data)
	assert.Equal(t, events.OrderExportedEvent, recorded[3].Type)
	assert.Equal(t, testhelpers.Today, recorded[3].At)
	assert.Equal(t, 4, recorded[3].Version)
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultEngineConfig()
	cfg.PalletsPerContainer = 0

	engine, err := NewEngine(recommendation.NewStaticSource(), cfg, zerolog.Nop())
	assert.Nil(t, engine)
	assert.EqualError(t, err, "invalid engine config: pallets per container must be positive, got 0")
}

func TestEngine_AlertMetricsFollowOrderChanges(t *testing.T) {
	boat := aurora(5)
	recorder := metrics.NewRecorder()
	engine := newTestEngine(
		recommendation.NewStaticSource(testhelpers.NewRecommendationSet(boat, entities.ModeStandard, 700,
			testhelpers.Recommendation("P1").Build())),
		WithMetrics(recorder),
	)
	require.NoError(t, engine.Initialize(context.Background(), "B1", entities.ModeStandard))

	const exceeded = `orderbuilder_alerts_total{code="warehouse_exceeded",type="blocked"}`
	alertCount := func() float64 {
		snap, err := recorder.Snapshot()
		require.NoError(t, err)
		return snap[exceeded]
	}

	assert.Equal(t, 0.0, alertCount())

	require.True(t, engine.SetQuantity("P1", 50))
	assert.Equal(t, 1.0, alertCount())

	for i := 0; i < 3; i++ {
		require.Len(t, engine.Alerts(), 1)
	}
	assert.Equal(t, 1.0, alertCount(), "reading alerts records nothing")

	require.True(t, engine.ToggleSelect("P1"))
	assert.Equal(t, 1.0, alertCount())

	snap, err := recorder.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 0.0, snap["orderbuilder_selected_pallets"])
}

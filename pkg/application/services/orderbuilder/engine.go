package orderbuilder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/domain/repositories"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/config"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/events"
	"github.com/vsinha/orderbuilder/pkg/infrastructure/metrics"
)

// Mutation operation names used in logs, events and metrics
const (
	opToggle      = "toggle"
	opSetQuantity = "set_quantity"
)

// Line is a product recommendation paired with the planner's selection
type Line struct {
	Recommendation entities.ProductRecommendation
	Selection      entities.Selection
}

// Engine holds the order being built for one planning session.
//
// Mutations issued while an Initialize or Reset fetch is in flight are discarded and
// report false. When fetches overlap only the most recent one is applied; older calls
// return entities.ErrSuperseded.
type Engine struct {
	source  repositories.RecommendationSource
	cfg     config.EngineConfig
	scaling ScalingPolicy
	clock   func() time.Time
	log     zerolog.Logger
	metrics *metrics.Recorder
	events  events.EventStore
	stream  string

	mu         sync.Mutex
	generation uint64
	inFlight   int
	loaded     bool
	boat       entities.Boat
	nextBoat   *entities.Boat
	mode       entities.Mode
	warehouse  int
	lines      []Line
	index      map[entities.ProductID]int
}

// Option configures an Engine
type Option func(*Engine)

// WithScalingPolicy replaces the default proportional scaling
func WithScalingPolicy(policy ScalingPolicy) Option {
	return func(e *Engine) {
		e.scaling = policy
	}
}

// WithClock overrides the time source used for deadline alerts
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithMetrics records engine activity on the given recorder
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(e *Engine) {
		e.metrics = recorder
	}
}

// WithEvents appends engine events to the given stream of the store
func WithEvents(store events.EventStore, streamID string) Option {
	return func(e *Engine) {
		e.events = store
		e.stream = streamID
	}
}

// NewEngine creates an empty engine; call Initialize before use
func NewEngine(
	source repositories.RecommendationSource,
	cfg config.EngineConfig,
	log zerolog.Logger,
	opts ...Option,
) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	e := &Engine{
		source:  source,
		cfg:     cfg,
		scaling: ProportionalScaling{},
		clock:   time.Now,
		log:     log.With().Str("component", "order_builder").Logger(),
		index:   make(map[entities.ProductID]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Initialize fetches the recommendation set for the boat and builds the default order.
// An empty boat id selects the next applicable boat. On error the previous state is kept.
func (e *Engine) Initialize(ctx context.Context, boatID entities.BoatID, mode entities.Mode) error {
	return e.load(ctx, boatID, mode, false)
}

// Reset discards manual edits by rebuilding the default order. An empty boat id keeps
// the current boat once one is loaded.
func (e *Engine) Reset(ctx context.Context, boatID entities.BoatID, mode entities.Mode) error {
	if boatID == "" {
		e.mu.Lock()
		if e.loaded {
			boatID = e.boat.ID
		}
		e.mu.Unlock()
	}
	return e.load(ctx, boatID, mode, true)
}

func (e *Engine) load(ctx context.Context, boatID entities.BoatID, mode entities.Mode, reset bool) error {
	start := time.Now()

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.inFlight++
	e.mu.Unlock()

	set, err := e.source.GetRecommendations(ctx, boatID, mode)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight--

	logger := e.log.With().Str("boat_id", string(boatID)).Str("mode", mode.String()).Bool("reset", reset).Logger()

	if gen != e.generation {
		logger.Debug().Uint64("generation", gen).Msg("Discarding superseded recommendation fetch")
		e.metrics.RecordInitialize(metrics.OutcomeSuperseded, time.Since(start))
		e.publish(events.OrderInitializeSupersededEvent, events.OrderInitializeSuperseded{
			BoatID: boatID, Mode: mode.String(), Generation: gen,
		})
		return entities.ErrSuperseded
	}

	if err == nil && set == nil {
		err = errors.New("recommendation source returned no data")
	}
	if err != nil {
		err = classifyLoadError(err)
		logger.Warn().Err(err).Msg("Failed to load recommendations, keeping previous order")
		e.metrics.RecordInitialize(metrics.OutcomeFailed, time.Since(start))
		e.publish(events.OrderInitializeFailedEvent, events.OrderInitializeFailed{
			BoatID: boatID, Mode: mode.String(), Error: err.Error(),
		})
		return err
	}

	e.apply(set, mode)

	summary := Summarize(e.lines, e.boat, e.warehouse, e.cfg)
	logger.Info().
		Str("boat_id", string(e.boat.ID)).
		Int("products", len(e.lines)).
		Int("default_pallets", summary.TotalPallets).
		Int("containers", summary.TotalContainers).
		Msg("Order initialized")
	e.metrics.RecordInitialize(metrics.OutcomeOK, time.Since(start))
	e.recordOrderState()
	e.publish(events.OrderInitializedEvent, events.OrderInitialized{
		BoatID: e.boat.ID, Mode: mode.String(), Products: len(e.lines), TotalPallets: summary.TotalPallets, Reset: reset,
	})
	return nil
}

// classifyLoadError keeps the domain sentinels and treats anything else as unavailable data
func classifyLoadError(err error) error {
	switch {
	case errors.Is(err, entities.ErrDataUnavailable),
		errors.Is(err, entities.ErrUnknownBoat),
		errors.Is(err, entities.ErrNoUpcomingBoat),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", entities.ErrDataUnavailable, err)
	}
}

// apply replaces the whole state with the defaults for a recommendation set
func (e *Engine) apply(set *entities.RecommendationSet, mode entities.Mode) {
	recs := make([]entities.ProductRecommendation, 0, len(set.Products))
	index := make(map[entities.ProductID]int, len(set.Products))
	for _, rec := range set.Products {
		if _, dup := index[rec.ID]; dup {
			e.log.Warn().Str("product_id", string(rec.ID)).Msg("Ignoring duplicate product in recommendation set")
			continue
		}
		index[rec.ID] = len(recs)
		recs = append(recs, rec)
	}

	// scaling works on unclamped gaps; the per-product clamp applies to its result
	gaps := make([]int, len(recs))
	defaults := make([]int, len(recs))
	total := 0
	for i, rec := range recs {
		if rec.Priority == entities.PriorityHigh || rec.Priority == entities.PriorityConsider {
			gaps[i] = max(rec.CoverageGapPallets, 0)
			defaults[i] = e.clampPallets(gaps[i])
			total += defaults[i]
		}
	}

	if target := e.targetPallets(mode, set.Boat); total > target {
		defaults = e.scaling.Scale(recs, gaps, target)
		e.log.Debug().
			Str("policy", e.scaling.Name()).
			Int("unscaled_pallets", total).
			Int("target_pallets", target).
			Msg("Scaled default order to mode target")
	}

	lines := make([]Line, len(recs))
	for i, rec := range recs {
		lines[i] = Line{Recommendation: rec, Selection: entities.NewSelection(e.clampPallets(defaults[i]))}
	}

	e.boat = set.Boat
	e.nextBoat = set.NextBoat
	e.mode = mode
	e.warehouse = set.WarehouseCurrentPallets
	e.lines = lines
	e.index = index
	e.loaded = true
}

// targetPallets is the mode's container target, capped at the boat, in pallets
func (e *Engine) targetPallets(mode entities.Mode, boat entities.Boat) int {
	containers := e.cfg.ContainersFor(mode)
	if boat.MaxContainers > 0 && containers > boat.MaxContainers {
		containers = boat.MaxContainers
	}
	return containers * e.cfg.PalletsPerContainer
}

func (e *Engine) clampPallets(pallets int) int {
	if pallets < 0 {
		return 0
	}
	if pallets > e.cfg.MaxPalletsPerProduct {
		return e.cfg.MaxPalletsPerProduct
	}
	return pallets
}

// ToggleSelect flips a product's selection. Turning on selects its coverage gap
// (at least one pallet); turning off clears it. Unknown products are ignored.
func (e *Engine) ToggleSelect(productID entities.ProductID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	line, ok := e.mutableLine(opToggle, productID)
	if !ok {
		return false
	}

	if line.Selection.IsSelected {
		line.Selection = entities.NewSelection(0)
	} else {
		pallets := line.Recommendation.CoverageGapPallets
		if pallets < 1 {
			pallets = 1
		}
		line.Selection = entities.NewSelection(e.clampPallets(pallets))
	}

	e.log.Debug().
		Str("product_id", string(productID)).
		Bool("selected", line.Selection.IsSelected).
		Int("pallets", line.Selection.SelectedPallets).
		Msg("Selection toggled")
	e.metrics.RecordMutation(opToggle, metrics.MutationApplied)
	e.recordOrderState()
	e.publish(events.SelectionToggledEvent, events.SelectionToggled{
		ProductID: productID, Selected: line.Selection.IsSelected, Pallets: line.Selection.SelectedPallets,
	})
	return true
}

// SetQuantity sets a product's pallets, clamped to [0, max pallets per product].
// Capacity is not checked here; overruns surface as alerts.
func (e *Engine) SetQuantity(productID entities.ProductID, pallets int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	line, ok := e.mutableLine(opSetQuantity, productID)
	if !ok {
		return false
	}

	line.Selection = entities.NewSelection(e.clampPallets(pallets))

	e.log.Debug().
		Str("product_id", string(productID)).
		Int("requested", pallets).
		Int("pallets", line.Selection.SelectedPallets).
		Msg("Quantity set")
	e.metrics.RecordMutation(opSetQuantity, metrics.MutationApplied)
	e.recordOrderState()
	e.publish(events.SelectionQuantitySetEvent, events.SelectionQuantitySet{
		ProductID: productID, Requested: pallets, Pallets: line.Selection.SelectedPallets,
	})
	return true
}

// mutableLine returns the line for a mutation, or false when the mutation must be dropped.
// Callers hold e.mu.
func (e *Engine) mutableLine(op string, productID entities.ProductID) (*Line, bool) {
	if e.inFlight > 0 {
		e.log.Info().Str("op", op).Str("product_id", string(productID)).Msg("Discarding mutation during reload")
		e.metrics.RecordMutation(op, metrics.MutationDiscarded)
		e.publish(events.SelectionDiscardedEvent, events.SelectionDiscarded{ProductID: productID, Operation: op})
		return nil, false
	}

	i, ok := e.index[productID]
	if !ok {
		e.log.Debug().Str("op", op).Str("product_id", string(productID)).Msg("Ignoring mutation for unknown product")
		e.metrics.RecordMutation(op, metrics.MutationUnknown)
		return nil, false
	}
	return &e.lines[i], true
}

// Summary recomputes the order totals from the current selections
func (e *Engine) Summary() entities.OrderSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summaryLocked()
}

func (e *Engine) summaryLocked() entities.OrderSummary {
	return Summarize(e.lines, e.boat, e.warehouse, e.cfg)
}

// Alerts evaluates the alert rules against the current order; nothing is reported before
// the first successful Initialize
func (e *Engine) Alerts() []entities.Alert {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alertsLocked(e.clock())
}

func (e *Engine) alertsLocked(now time.Time) []entities.Alert {
	if !e.loaded {
		return []entities.Alert{}
	}

	return GenerateAlerts(AlertInput{
		Lines:      e.lines,
		Summary:    e.summaryLocked(),
		Boat:       e.boat,
		Now:        now,
		Thresholds: e.cfg.Alerts,
	})
}

// recordOrderState publishes the totals and raised alerts after the order changed.
// Callers hold e.mu.
func (e *Engine) recordOrderState() {
	if e.metrics == nil {
		return
	}
	summary := e.summaryLocked()
	e.metrics.RecordSummary(summary.TotalPallets, summary.WarehouseUtilizationAfter)
	for _, a := range e.alertsLocked(e.clock()) {
		e.metrics.RecordAlert(a.Type.String(), string(a.Code))
	}
}

// Export serializes the current order as CSV
func (e *Engine) Export() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	summary := e.summaryLocked()
	data, err := ExportCSV(e.lines, summary, e.cfg)
	if err != nil {
		return nil, err
	}

	e.publish(events.OrderExportedEvent, events.OrderExported{
		BoatID: e.boat.ID, TotalPallets: summary.TotalPallets, Bytes: len(data),
	})
	return data, nil
}

// Lines returns a copy of the current lines in recommendation order
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Line(nil), e.lines...)
}

// Line returns the current line for a product
func (e *Engine) Line(productID entities.ProductID) (Line, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i, ok := e.index[productID]
	if !ok {
		return Line{}, false
	}
	return e.lines[i], true
}

// Mode returns the active mode
func (e *Engine) Mode() entities.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Boat returns the active boat; false before the first successful Initialize
func (e *Engine) Boat() (entities.Boat, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.boat, e.loaded
}

// Loaded reports whether a recommendation set has been applied
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

func (e *Engine) publish(eventType string, data interface{}) {
	if e.events == nil {
		return
	}
	if _, err := e.events.Append(e.stream, eventType, data, e.clock()); err != nil {
		e.log.Warn().Err(err).Str("event", eventType).Msg("Failed to record event")
	}
}

package sqlite

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// Store bundles the snapshot database with its repositories
type Store struct {
	DB       *DB
	Products *ProductRepository
	Boats    *BoatRepository
	log      zerolog.Logger
}

// Open opens the snapshot database at path and wires its repositories
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := New(path)
	if err != nil {
		return nil, err
	}
	return &Store{
		DB:       db,
		Products: NewProductRepository(db.Conn(), log),
		Boats:    NewBoatRepository(db.Conn(), log),
		log:      log.With().Str("component", "snapshot_store").Logger(),
	}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.DB.Close()
}

// ImportSnapshot replaces the product snapshot, upserts the boat schedule and records the
// warehouse reading when one is given
func (s *Store) ImportSnapshot(
	ctx context.Context,
	products []*entities.Product,
	boats []*entities.Boat,
	reading *entities.WarehouseReading,
) error {
	if err := s.Products.LoadProducts(products); err != nil {
		return fmt.Errorf("import products: %w", err)
	}
	if err := s.Boats.LoadBoats(boats); err != nil {
		return fmt.Errorf("import boats: %w", err)
	}
	if reading != nil {
		if err := s.Products.RecordWarehouseReading(ctx, *reading); err != nil {
			return fmt.Errorf("import warehouse reading: %w", err)
		}
	}

	s.log.Info().
		Int("products", len(products)).
		Int("boats", len(boats)).
		Bool("warehouse_reading", reading != nil).
		Str("path", s.DB.Path()).
		Msg("Snapshot imported")
	return nil
}

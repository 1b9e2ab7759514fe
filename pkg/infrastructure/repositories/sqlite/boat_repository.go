package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/domain/repositories"
)

var boatColumns = []string{
	"id", "name", "departure_date", "arrival_date", "booking_deadline", "max_containers", "status",
	"origin_port", "destination_port",
}

// BoatRepository handles boat schedule database operations
type BoatRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewBoatRepository creates a new boat repository
func NewBoatRepository(db *sql.DB, log zerolog.Logger) *BoatRepository {
	return &BoatRepository{
		db:  db,
		log: log.With().Str("repo", "boats").Logger(),
	}
}

// Verify interface compliance
var _ repositories.BoatRepository = (*BoatRepository)(nil)

// GetBoats returns the schedule ordered by departure
func (r *BoatRepository) GetBoats(ctx context.Context) ([]*entities.Boat, error) {
	return r.query(ctx, psql.Select(boatColumns...).From("boats").OrderBy("departure_date", "id"))
}

// GetBoat returns a boat by id
func (r *BoatRepository) GetBoat(ctx context.Context, id entities.BoatID) (*entities.Boat, error) {
	boats, err := r.query(ctx, psql.Select(boatColumns...).From("boats").Where(sq.Eq{"id": string(id)}))
	if err != nil {
		return nil, err
	}
	if len(boats) == 0 {
		return nil, fmt.Errorf("boat %s: %w", id, entities.ErrUnknownBoat)
	}
	return boats[0], nil
}

// LoadBoats upserts the given boats into the schedule
func (r *BoatRepository) LoadBoats(boats []*entities.Boat) error {
	ctx := context.Background()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, b := range boats {
		query, args, err := psql.Insert("boats").
			Options("OR REPLACE").
			Columns(boatColumns...).
			Values(
				string(b.ID),
				b.Name,
				b.DepartureDate.Format(entities.DateLayout),
				b.ArrivalDate.Format(entities.DateLayout),
				b.BookingDeadline.Format(entities.DateLayout),
				b.MaxContainers,
				b.Status.String(),
				b.OriginPort,
				b.DestinationPort,
			).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build boat insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert boat %s: %w", b.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit boats: %w", err)
	}

	r.log.Info().Int("count", len(boats)).Msg("Boats loaded")
	return nil
}

func (r *BoatRepository) query(ctx context.Context, builder sq.SelectBuilder) ([]*entities.Boat, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build boats query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query boats: %w", err)
	}
	defer rows.Close()

	var boats []*entities.Boat
	for rows.Next() {
		var b entities.Boat
		var departure, arrival, deadline, status string

		if err := rows.Scan(
			&b.ID,
			&b.Name,
			&departure,
			&arrival,
			&deadline,
			&b.MaxContainers,
			&status,
			&b.OriginPort,
			&b.DestinationPort,
		); err != nil {
			return nil, fmt.Errorf("failed to scan boat: %w", err)
		}

		if b.DepartureDate, err = parseDate(departure); err != nil {
			return nil, err
		}
		if b.ArrivalDate, err = parseDate(arrival); err != nil {
			return nil, err
		}
		if b.BookingDeadline, err = parseDate(deadline); err != nil {
			return nil, err
		}
		if b.Status, err = entities.ParseBoatStatus(status); err != nil {
			return nil, err
		}

		boats = append(boats, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating boats: %w", err)
	}

	return boats, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(entities.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored date %q: %w", s, err)
	}
	return d, nil
}

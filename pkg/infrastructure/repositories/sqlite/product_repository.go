package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/domain/repositories"
)

var productColumns = []string{
	"id", "sku", "description", "warehouse_m2", "in_transit_m2", "daily_velocity", "weeks_of_data",
	"velocity_cv", "unique_customers", "top_customer_name", "top_customer_share", "recurring_customers",
	"weekly_sales_m2",
}

// ProductRepository handles product snapshot and warehouse reading database operations
type ProductRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, log zerolog.Logger) *ProductRepository {
	return &ProductRepository{
		db:  db,
		log: log.With().Str("repo", "products").Logger(),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// GetProducts returns all products in the order they were loaded
func (r *ProductRepository) GetProducts(ctx context.Context) ([]*entities.Product, error) {
	query, args, err := psql.Select(productColumns...).From("products").OrderBy("position", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build products query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*entities.Product
	for rows.Next() {
		var p entities.Product
		var cv, share sql.NullFloat64
		var weekly string

		if err := rows.Scan(
			&p.ID,
			&p.SKU,
			&p.Description,
			&p.WarehouseStockM2,
			&p.InTransitM2,
			&p.DailyVelocity,
			&p.WeeksOfData,
			&cv,
			&p.UniqueCustomers,
			&p.TopCustomerName,
			&share,
			&p.RecurringCustomers,
			&weekly,
		); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		if cv.Valid {
			p.VelocityCV = &cv.Float64
		}
		if share.Valid {
			p.TopCustomerShare = &share.Float64
		}
		p.WeeklySalesM2, err = decodeWeekly(weekly)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", p.ID, err)
		}

		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// LoadProducts replaces the stored snapshot with the given products
func (r *ProductRepository) LoadProducts(products []*entities.Product) error {
	ctx := context.Background()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}

	for i, p := range products {
		query, args, err := psql.Insert("products").
			Options("OR REPLACE").
			Columns(append(productColumns, "position")...).
			Values(
				string(p.ID),
				p.SKU,
				p.Description,
				p.WarehouseStockM2,
				p.InTransitM2,
				p.DailyVelocity,
				p.WeeksOfData,
				nullFloat(p.VelocityCV),
				p.UniqueCustomers,
				p.TopCustomerName,
				nullFloat(p.TopCustomerShare),
				p.RecurringCustomers,
				encodeWeekly(p.WeeklySalesM2),
				i,
			).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build product insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit products: %w", err)
	}

	r.log.Info().Int("count", len(products)).Msg("Products loaded")
	return nil
}

// RecordWarehouseReading appends a warehouse occupancy reading
func (r *ProductRepository) RecordWarehouseReading(ctx context.Context, reading entities.WarehouseReading) error {
	query, args, err := psql.Insert("warehouse_readings").
		Columns("current_pallets", "recorded_at").
		Values(reading.CurrentPallets, reading.RecordedAt.UTC().Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build warehouse reading insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert warehouse reading: %w", err)
	}
	return nil
}

// GetWarehouseReading returns the most recent reading, or nil when none was recorded
func (r *ProductRepository) GetWarehouseReading(ctx context.Context) (*entities.WarehouseReading, error) {
	query, args, err := psql.Select("current_pallets", "recorded_at").
		From("warehouse_readings").
		OrderBy("recorded_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build warehouse reading query: %w", err)
	}

	var reading entities.WarehouseReading
	var recordedAt string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&reading.CurrentPallets, &recordedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query warehouse reading: %w", err)
	}

	reading.RecordedAt, err = time.Parse(time.RFC3339, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid warehouse reading timestamp %q: %w", recordedAt, err)
	}
	return &reading, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func encodeWeekly(weekly []float64) string {
	parts := make([]string, len(weekly))
	for i, v := range weekly {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ";")
}

func decodeWeekly(s string) ([]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ";")
	weekly := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weekly sales entry %q: %w", part, err)
		}
		weekly = append(weekly, v)
	}
	return weekly, nil
}

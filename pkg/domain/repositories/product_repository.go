package repositories

import (
	"context"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// ProductRepository provides access to the upstream product demand snapshot
type ProductRepository interface {
	GetProducts(ctx context.Context) ([]*entities.Product, error)
	LoadProducts(products []*entities.Product) error

	// GetWarehouseReading returns the latest measured occupancy, or nil when none was recorded
	GetWarehouseReading(ctx context.Context) (*entities.WarehouseReading, error)
}

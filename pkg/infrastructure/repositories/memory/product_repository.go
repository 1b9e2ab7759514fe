package memory

import (
	"context"
	"sync"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
	"github.com/vsinha/orderbuilder/pkg/domain/repositories"
)

// ProductRepository provides in-memory product snapshot storage
type ProductRepository struct {
	mu          sync.RWMutex
	products    []entities.Product
	productsMap map[entities.ProductID]int
	reading     *entities.WarehouseReading
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(expectedProducts int) *ProductRepository {
	return &ProductRepository{
		products:    make([]entities.Product, 0, expectedProducts),
		productsMap: make(map[entities.ProductID]int, expectedProducts),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadProducts loads products into the repository
func (r *ProductRepository) LoadProducts(products []*entities.Product) error {
	for _, p := range products {
		r.AddProduct(*p)
	}
	return nil
}

// AddProduct adds a product, replacing any existing product with the same id
func (r *ProductRepository) AddProduct(p entities.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.productsMap[p.ID]; exists {
		r.products[index] = p
		return
	}
	r.productsMap[p.ID] = len(r.products)
	r.products = append(r.products, p)
}

// GetProducts returns copies of all products in load order
func (r *ProductRepository) GetProducts(ctx context.Context) ([]*entities.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*entities.Product, 0, len(r.products))
	for i := range r.products {
		p := r.products[i]
		p.WeeklySalesM2 = append([]float64(nil), p.WeeklySalesM2...)
		products = append(products, &p)
	}
	return products, nil
}

// SetWarehouseReading records the latest warehouse occupancy
func (r *ProductRepository) SetWarehouseReading(reading entities.WarehouseReading) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reading = &reading
}

// GetWarehouseReading returns the latest warehouse occupancy, or nil when none was recorded
func (r *ProductRepository) GetWarehouseReading(ctx context.Context) (*entities.WarehouseReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.reading == nil {
		return nil, nil
	}
	reading := *r.reading
	return &reading, nil
}

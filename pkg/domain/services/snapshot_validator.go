package services

import (
	"fmt"
	"sort"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// SnapshotValidator checks the consistency of a product and boat snapshot before planning
type SnapshotValidator struct{}

// NewSnapshotValidator creates a new snapshot validator
func NewSnapshotValidator() *SnapshotValidator {
	return &SnapshotValidator{}
}

// ValidationResult contains the results of snapshot validation
type ValidationResult struct {
	DuplicateProductIDs []entities.ProductID
	DuplicateSKUs       []string
	DuplicateBoatIDs    []entities.BoatID
	Errors              []string
}

// Valid reports whether no errors were found
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// ValidateSnapshot performs validation on a set of products and boats
func (v *SnapshotValidator) ValidateSnapshot(products []*entities.Product, boats []*entities.Boat) *ValidationResult {
	result := &ValidationResult{
		DuplicateProductIDs: make([]entities.ProductID, 0),
		DuplicateSKUs:       make([]string, 0),
		DuplicateBoatIDs:    make([]entities.BoatID, 0),
		Errors:              make([]string, 0),
	}

	seenIDs := make(map[entities.ProductID]bool)
	seenSKUs := make(map[string]bool)
	for _, p := range products {
		if err := p.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("product %s: %v", p.ID, err))
		}
		if seenIDs[p.ID] {
			result.DuplicateProductIDs = append(result.DuplicateProductIDs, p.ID)
		}
		seenIDs[p.ID] = true

		// SKUs may be reused over time but must be unique within one snapshot
		if seenSKUs[p.SKU] {
			result.DuplicateSKUs = append(result.DuplicateSKUs, p.SKU)
		}
		seenSKUs[p.SKU] = true
	}

	seenBoats := make(map[entities.BoatID]bool)
	for _, b := range boats {
		if err := b.Validate(); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("boat %s: %v", b.ID, err))
		}
		if seenBoats[b.ID] {
			result.DuplicateBoatIDs = append(result.DuplicateBoatIDs, b.ID)
		}
		seenBoats[b.ID] = true
	}

	if len(result.DuplicateProductIDs) > 0 {
		sort.Slice(result.DuplicateProductIDs, func(i, j int) bool {
			return result.DuplicateProductIDs[i] < result.DuplicateProductIDs[j]
		})
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate product ids found: %v", result.DuplicateProductIDs))
	}
	if len(result.DuplicateSKUs) > 0 {
		sort.Strings(result.DuplicateSKUs)
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate SKUs found: %v", result.DuplicateSKUs))
	}
	if len(result.DuplicateBoatIDs) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Duplicate boat ids found: %v", result.DuplicateBoatIDs))
	}

	return result
}

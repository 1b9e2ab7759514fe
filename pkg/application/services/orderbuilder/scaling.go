package orderbuilder

import (
	"fmt"
	"sort"

	"github.com/vsinha/orderbuilder/pkg/domain/entities"
)

// ScalingPolicy shrinks unclamped coverage gaps so their sum fits a target.
// Implementations must return a slice of the same length with 0 <= out[i] <= defaults[i]
// and a sum no greater than target.
type ScalingPolicy interface {
	Name() string
	Scale(recs []entities.ProductRecommendation, defaults []int, target int) []int
}

// ScalingPolicyByName resolves a configured policy name; empty selects proportional
func ScalingPolicyByName(name string) (ScalingPolicy, error) {
	switch name {
	case "", ProportionalScaling{}.Name():
		return ProportionalScaling{}, nil
	case PriorityFirstScaling{}.Name():
		return PriorityFirstScaling{}, nil
	default:
		return nil, fmt.Errorf("unknown scaling policy: %s (expected: proportional or priority_first)", name)
	}
}

// ProportionalScaling scales every default by target/total and hands the pallets lost to
// flooring back by largest remainder, so the total lands exactly on target while gap
// ratios hold within one pallet.
type ProportionalScaling struct{}

func (ProportionalScaling) Name() string {
	return "proportional"
}

func (ProportionalScaling) Scale(_ []entities.ProductRecommendation, defaults []int, target int) []int {
	return largestRemainder(defaults, target)
}

// PriorityFirstScaling fills HIGH_PRIORITY defaults before CONSIDER ones; the bucket that
// no longer fits is scaled proportionally into what is left.
type PriorityFirstScaling struct{}

func (PriorityFirstScaling) Name() string {
	return "priority_first"
}

func (PriorityFirstScaling) Scale(recs []entities.ProductRecommendation, defaults []int, target int) []int {
	out := make([]int, len(defaults))
	remaining := target

	for _, priority := range entities.Priorities {
		var idx []int
		var bucket []int
		for i, rec := range recs {
			if rec.Priority == priority && defaults[i] > 0 {
				idx = append(idx, i)
				bucket = append(bucket, defaults[i])
			}
		}
		scaled := largestRemainder(bucket, remaining)
		for j, i := range idx {
			out[i] = scaled[j]
			remaining -= scaled[j]
		}
	}
	return out
}

// largestRemainder apportions target across values in proportion to their size.
// Values are returned unchanged when they already fit.
func largestRemainder(values []int, target int) []int {
	out := make([]int, len(values))
	total := 0
	for _, v := range values {
		total += v
	}
	if total <= target {
		copy(out, values)
		return out
	}
	if target <= 0 {
		return out
	}

	type share struct {
		index     int
		remainder int
	}
	shares := make([]share, 0, len(values))
	assigned := 0
	for i, v := range values {
		out[i] = v * target / total
		assigned += out[i]
		if r := v * target % total; r > 0 {
			shares = append(shares, share{index: i, remainder: r})
		}
	}

	// Ties go to the earlier line so the result is deterministic
	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].remainder > shares[b].remainder
	})
	for k := 0; k < target-assigned && k < len(shares); k++ {
		out[shares[k].index]++
	}
	return out
}

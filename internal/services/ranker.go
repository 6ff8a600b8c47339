package services

import (
	"context"
	"math"
	"sort"

	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories"
)

// RankedShop is a shop with its distance from the requester. Distance is nil when the
// shop could not be reached.
type RankedShop struct {
	models.Shop
	Distance *float64 `json:"distance"`
}

// ShopRanker orders active shops by distance from a point.
type ShopRanker struct {
	shops    repositories.ShopRepository
	distance DistanceCalculator
}

// NewShopRanker constructs a ShopRanker.
func NewShopRanker(shops repositories.ShopRepository, distance DistanceCalculator) *ShopRanker {
	return &ShopRanker{shops: shops, distance: distance}
}

// Nearest loads every active shop and ranks it relative to origin.
func (r *ShopRanker) Nearest(ctx context.Context, origin Coordinate) ([]RankedShop, error) {
	shops, err := r.shops.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return r.Rank(ctx, origin, shops)
}

// Rank sorts shops ascending by distance with one outbound call. Shops without
// coordinates and unreachable shops sort last, keeping their input order.
func (r *ShopRanker) Rank(ctx context.Context, origin Coordinate, shops []models.Shop) ([]RankedShop, error) {
	ranked := make([]RankedShop, len(shops))
	keys := make([]float64, len(shops))

	var (
		destinations []Coordinate
		indexes      []int
	)
	for i := range shops {
		ranked[i] = RankedShop{Shop: shops[i]}
		keys[i] = math.Inf(1)
		if shops[i].HasCoordinates() {
			destinations = append(destinations, Coordinate{
				Latitude:  *shops[i].Latitude,
				Longitude: *shops[i].Longitude,
			})
			indexes = append(indexes, i)
		}
	}

	if len(destinations) > 0 {
		distances, err := r.distance.Distances(ctx, origin, destinations)
		if err != nil {
			return nil, err
		}
		for j, idx := range indexes {
			if j < len(distances) && !math.IsInf(distances[j], 1) {
				d := distances[j]
				keys[idx] = d
				ranked[idx].Distance = &d
			}
		}
	}

	order := make([]int, len(ranked))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return keys[order[a]] < keys[order[b]]
	})

	out := make([]RankedShop, len(ranked))
	for i, idx := range order {
		out[i] = ranked[idx]
	}
	return out, nil
}

package tour

import (
	"context"
	"math"

	"github.com/google/uuid"
)

// Optimizer proposes a stop visiting order for a tour. Implementations may
// call external routing services; the result is a permutation of the tour's
// stop IDs that the caller applies via ReorderStops.
type Optimizer interface {
	Optimize(ctx context.Context, t *Tour) ([]uuid.UUID, error)
}

// NearestNeighborOptimizer orders stops greedily by haversine distance,
// starting from the first stop. Pickups keep precedence over the delivery
// of the same shipment.
type NearestNeighborOptimizer struct{}

// NewNearestNeighborOptimizer creates a NearestNeighborOptimizer
func NewNearestNeighborOptimizer() *NearestNeighborOptimizer {
	return &NearestNeighborOptimizer{}
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// Optimize returns the stops in greedy nearest-neighbor order
func (o *NearestNeighborOptimizer) Optimize(ctx context.Context, t *Tour) ([]uuid.UUID, error) {
	if len(t.Stops) <= 2 {
		ids := make([]uuid.UUID, len(t.Stops))
		for i, s := range t.Stops {
			ids[i] = s.ID
		}
		return ids, nil
	}

	remaining := make([]Stop, len(t.Stops)-1)
	copy(remaining, t.Stops[1:])

	// Track which shipments have been picked up so a delivery is never
	// scheduled before its pickup.
	pickedUp := make(map[uuid.UUID]bool)
	current := t.Stops[0]
	if current.Type == StopPickup && current.ShipmentID != nil {
		pickedUp[*current.ShipmentID] = true
	}

	order := []uuid.UUID{current.ID}
	for len(remaining) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		best := -1
		bestDist := math.MaxFloat64
		for i, s := range remaining {
			if s.Type == StopDelivery && s.ShipmentID != nil && !pickedUp[*s.ShipmentID] {
				// Check whether the pickup is still pending on this tour
				pending := false
				for _, other := range remaining {
					if other.Type == StopPickup && other.ShipmentID != nil && *other.ShipmentID == *s.ShipmentID {
						pending = true
						break
					}
				}
				if pending {
					continue
				}
			}
			d := haversineKm(current.Latitude, current.Longitude, s.Latitude, s.Longitude)
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		if best < 0 {
			best = 0
		}

		current = remaining[best]
		if current.Type == StopPickup && current.ShipmentID != nil {
			pickedUp[*current.ShipmentID] = true
		}
		order = append(order, current.ID)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return order, nil
}

package tour

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftTour(t *testing.T) *Tour {
	t.Helper()
	tr, err := NewTour(uuid.New(), "TUR-2026-0001", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	return tr
}

func plannedTour(t *testing.T) *Tour {
	t.Helper()
	tr := newDraftTour(t)
	require.NoError(t, tr.AddStop(NewStop(StopPickup, "Hamburg, Speicherstadt", 53.54, 9.99)))
	require.NoError(t, tr.AddStop(NewStop(StopDelivery, "Hannover, Messegelände", 52.32, 9.81)))
	require.NoError(t, tr.Plan())
	return tr
}

func TestNewTour(t *testing.T) {
	t.Run("valid tour", func(t *testing.T) {
		tr := newDraftTour(t)
		assert.Equal(t, TourStatusDraft, tr.Status)
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		_, err := NewTour(uuid.New(), " ", time.Now())
		assert.Error(t, err)
		_, err = NewTour(uuid.New(), "TUR-1", time.Time{})
		assert.Error(t, err)
	})
}

func TestTourStops(t *testing.T) {
	t.Run("ordered in insertion order", func(t *testing.T) {
		tr := newDraftTour(t)
		require.NoError(t, tr.AddStop(NewStop(StopPickup, "A", 53.0, 9.0)))
		require.NoError(t, tr.AddStop(NewStop(StopIntermediate, "B", 52.5, 9.2)))
		require.NoError(t, tr.AddStop(NewStop(StopDelivery, "C", 52.0, 9.5)))

		require.Len(t, tr.Stops, 3)
		for i, s := range tr.Stops {
			assert.Equal(t, i+1, s.StopOrder)
			assert.Equal(t, tr.ID, s.TourID)
		}
	})

	t.Run("remove renumbers", func(t *testing.T) {
		tr := newDraftTour(t)
		require.NoError(t, tr.AddStop(NewStop(StopPickup, "A", 53.0, 9.0)))
		require.NoError(t, tr.AddStop(NewStop(StopDelivery, "B", 52.0, 9.5)))
		require.NoError(t, tr.RemoveStop(tr.Stops[0].ID))
		require.Len(t, tr.Stops, 1)
		assert.Equal(t, 1, tr.Stops[0].StopOrder)
	})

	t.Run("invalid stops rejected", func(t *testing.T) {
		tr := newDraftTour(t)
		assert.Error(t, tr.AddStop(NewStop(StopType("drive-by"), "A", 53.0, 9.0)))
		assert.Error(t, tr.AddStop(NewStop(StopPickup, "", 53.0, 9.0)))
		assert.Error(t, tr.AddStop(NewStop(StopPickup, "A", 91.0, 9.0)))
	})

	t.Run("frozen after planning", func(t *testing.T) {
		tr := plannedTour(t)
		assert.Error(t, tr.AddStop(NewStop(StopPickup, "X", 53.0, 9.0)))
		assert.Error(t, tr.RemoveStop(tr.Stops[0].ID))
	})
}

func TestReorderStops(t *testing.T) {
	threeStops := func(t *testing.T) *Tour {
		tr := newDraftTour(t)
		require.NoError(t, tr.AddStop(NewStop(StopPickup, "A", 53.0, 9.0)))
		require.NoError(t, tr.AddStop(NewStop(StopIntermediate, "B", 52.5, 9.2)))
		require.NoError(t, tr.AddStop(NewStop(StopDelivery, "C", 52.0, 9.5)))
		return tr
	}

	t.Run("applies permutation", func(t *testing.T) {
		tr := threeStops(t)
		require.NoError(t, tr.ReorderStops([]uuid.UUID{tr.Stops[2].ID, tr.Stops[0].ID, tr.Stops[1].ID}))

		assert.Equal(t, "C", tr.Stops[0].Address)
		assert.Equal(t, "A", tr.Stops[1].Address)
		assert.Equal(t, "B", tr.Stops[2].Address)
		for i, s := range tr.Stops {
			assert.Equal(t, i+1, s.StopOrder)
		}
	})

	t.Run("rejects incomplete or unknown permutations", func(t *testing.T) {
		tr := threeStops(t)
		assert.Error(t, tr.ReorderStops([]uuid.UUID{tr.Stops[0].ID}))
		assert.Error(t, tr.ReorderStops([]uuid.UUID{tr.Stops[0].ID, tr.Stops[1].ID, uuid.New()}))
		assert.Error(t, tr.ReorderStops([]uuid.UUID{tr.Stops[0].ID, tr.Stops[0].ID, tr.Stops[1].ID}))
	})

	t.Run("allowed while planned, not while running", func(t *testing.T) {
		tr := plannedTour(t)
		require.NoError(t, tr.ReorderStops([]uuid.UUID{tr.Stops[1].ID, tr.Stops[0].ID}))

		require.NoError(t, tr.AssignVehicle(uuid.New()))
		require.NoError(t, tr.AssignDriver(uuid.New()))
		require.NoError(t, tr.Start())
		assert.Error(t, tr.ReorderStops([]uuid.UUID{tr.Stops[0].ID, tr.Stops[1].ID}))
	})
}

func TestTourLifecycle(t *testing.T) {
	t.Run("plan requires two stops", func(t *testing.T) {
		tr := newDraftTour(t)
		assert.Error(t, tr.Plan())
		require.NoError(t, tr.AddStop(NewStop(StopPickup, "A", 53.0, 9.0)))
		assert.Error(t, tr.Plan())
	})

	t.Run("start requires assignment", func(t *testing.T) {
		tr := plannedTour(t)
		assert.Error(t, tr.Start())
		require.NoError(t, tr.AssignVehicle(uuid.New()))
		assert.Error(t, tr.Start())
		require.NoError(t, tr.AssignDriver(uuid.New()))
		require.NoError(t, tr.Start())
		assert.Equal(t, TourStatusInProgress, tr.Status)
	})

	t.Run("stops visited in order", func(t *testing.T) {
		tr := plannedTour(t)
		require.NoError(t, tr.AssignVehicle(uuid.New()))
		require.NoError(t, tr.AssignDriver(uuid.New()))
		require.NoError(t, tr.Start())

		second := tr.Stops[1].ID
		assert.Error(t, tr.ArriveAtStop(second, time.Now()), "second before first")

		first := tr.Stops[0].ID
		now := time.Now()
		require.NoError(t, tr.ArriveAtStop(first, now))
		assert.Error(t, tr.DepartFromStop(first, now.Add(-time.Minute)))
		require.NoError(t, tr.DepartFromStop(first, now.Add(10*time.Minute)))

		assert.Error(t, tr.Complete(), "unvisited stop remains")
		require.NoError(t, tr.ArriveAtStop(second, now.Add(time.Hour)))
		require.NoError(t, tr.Complete())
		assert.Equal(t, TourStatusCompleted, tr.Status)
	})

	t.Run("cancel only before start", func(t *testing.T) {
		tr := plannedTour(t)
		require.NoError(t, tr.Cancel())

		tr2 := plannedTour(t)
		require.NoError(t, tr2.AssignVehicle(uuid.New()))
		require.NoError(t, tr2.AssignDriver(uuid.New()))
		require.NoError(t, tr2.Start())
		assert.Error(t, tr2.Cancel())
	})
}

func TestNearestNeighborOptimizer(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by proximity", func(t *testing.T) {
		tr := newDraftTour(t)
		// Hamburg depot, then deliberately scrambled stops going south
		require.NoError(t, tr.AddStop(NewStop(StopIntermediate, "Hamburg", 53.55, 10.00)))
		require.NoError(t, tr.AddStop(NewStop(StopDelivery, "München", 48.14, 11.58)))
		require.NoError(t, tr.AddStop(NewStop(StopDelivery, "Hannover", 52.37, 9.73)))
		require.NoError(t, tr.AddStop(NewStop(StopDelivery, "Kassel", 51.31, 9.49)))

		order, err := NewNearestNeighborOptimizer().Optimize(ctx, tr)
		require.NoError(t, err)
		require.Len(t, order, 4)

		require.NoError(t, tr.ReorderStops(order))
		assert.Equal(t, "Hamburg", tr.Stops[0].Address)
		assert.Equal(t, "Hannover", tr.Stops[1].Address)
		assert.Equal(t, "Kassel", tr.Stops[2].Address)
		assert.Equal(t, "München", tr.Stops[3].Address)
	})

	t.Run("delivery never precedes its pickup", func(t *testing.T) {
		tr := newDraftTour(t)
		shipmentID := uuid.New()

		depot := NewStop(StopIntermediate, "Depot Hamburg", 53.55, 10.00)
		require.NoError(t, tr.AddStop(depot))

		// Delivery is geographically closest to the depot but must wait
		// for the pickup further away.
		delivery := NewStop(StopDelivery, "Delivery Norderstedt", 53.68, 10.01)
		delivery.ShipmentID = &shipmentID
		require.NoError(t, tr.AddStop(delivery))

		pickup := NewStop(StopPickup, "Pickup Lübeck", 53.87, 10.69)
		pickup.ShipmentID = &shipmentID
		require.NoError(t, tr.AddStop(pickup))

		order, err := NewNearestNeighborOptimizer().Optimize(ctx, tr)
		require.NoError(t, err)

		posOf := func(addr string) int {
			byID := make(map[uuid.UUID]string)
			for _, s := range tr.Stops {
				byID[s.ID] = s.Address
			}
			for i, id := range order {
				if byID[id] == addr {
					return i
				}
			}
			return -1
		}
		assert.Less(t, posOf("Pickup Lübeck"), posOf("Delivery Norderstedt"))
	})

	t.Run("short tours returned unchanged", func(t *testing.T) {
		tr := newDraftTour(t)
		require.NoError(t, tr.AddStop(NewStop(StopPickup, "A", 53.0, 9.0)))
		require.NoError(t, tr.AddStop(NewStop(StopDelivery, "B", 52.0, 9.5)))

		order, err := NewNearestNeighborOptimizer().Optimize(ctx, tr)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{tr.Stops[0].ID, tr.Stops[1].ID}, order)
	})
}

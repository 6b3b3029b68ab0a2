package shipment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlannedShipment(t *testing.T) *Shipment {
	t.Helper()
	s, err := NewShipment(uuid.New(), "SHP-2026-0001")
	require.NoError(t, err)
	return s
}

func TestNewShipment(t *testing.T) {
	t.Run("valid shipment", func(t *testing.T) {
		s := newPlannedShipment(t)
		assert.Equal(t, ShipmentStatusPlanned, s.Status)
		assert.Nil(t, s.OrderID)
	})

	t.Run("from order", func(t *testing.T) {
		orderID := uuid.New()
		s, err := NewShipmentFromOrder(uuid.New(), orderID, "SHP-1")
		require.NoError(t, err)
		require.NotNil(t, s.OrderID)
		assert.Equal(t, orderID, *s.OrderID)

		_, err = NewShipmentFromOrder(uuid.New(), uuid.Nil, "SHP-1")
		assert.Error(t, err)
	})

	t.Run("empty number rejected", func(t *testing.T) {
		_, err := NewShipment(uuid.New(), "  ")
		assert.Error(t, err)
	})
}

func TestShipmentSegments(t *testing.T) {
	t.Run("sequence assigned in insertion order", func(t *testing.T) {
		s := newPlannedShipment(t)
		require.NoError(t, s.AddSegment(NewTransportSegment(ModeRoad, "Hamburg", "Duisburg")))
		require.NoError(t, s.AddSegment(NewTransportSegment(ModeRail, "Duisburg", "Verona")))
		require.NoError(t, s.AddSegment(NewTransportSegment(ModeRoad, "Verona", "Milano")))

		require.Len(t, s.Segments, 3)
		for i, seg := range s.Segments {
			assert.Equal(t, i+1, seg.SequenceNumber)
			assert.Equal(t, s.ID, seg.ShipmentID)
		}
	})

	t.Run("remove resequences", func(t *testing.T) {
		s := newPlannedShipment(t)
		require.NoError(t, s.AddSegment(NewTransportSegment(ModeRoad, "A", "B")))
		require.NoError(t, s.AddSegment(NewTransportSegment(ModeRail, "B", "C")))
		require.NoError(t, s.RemoveSegment(s.Segments[0].ID))
		require.Len(t, s.Segments, 1)
		assert.Equal(t, 1, s.Segments[0].SequenceNumber)
		assert.Equal(t, ModeRail, s.Segments[0].Mode)
	})

	t.Run("invalid segment rejected", func(t *testing.T) {
		s := newPlannedShipment(t)
		assert.Error(t, s.AddSegment(NewTransportSegment(TransportMode("teleport"), "A", "B")))
		assert.Error(t, s.AddSegment(NewTransportSegment(ModeRoad, "", "B")))
	})
}

func TestSegmentTimes(t *testing.T) {
	seg := NewTransportSegment(ModeRoad, "A", "B")

	assert.Error(t, seg.RecordArrival(time.Now()), "arrival before departure")

	departed := time.Now()
	require.NoError(t, seg.RecordDeparture(departed))
	assert.Equal(t, SegmentStatusInProgress, seg.Status)

	assert.Error(t, seg.RecordArrival(departed.Add(-time.Hour)))
	require.NoError(t, seg.RecordArrival(departed.Add(4*time.Hour)))
	assert.Equal(t, SegmentStatusCompleted, seg.Status)
	assert.Error(t, seg.RecordDeparture(time.Now()), "completed segment")
}

func TestTransportUnits(t *testing.T) {
	s := newPlannedShipment(t)

	unit := NewTransportUnit(UnitTypeContainer, "msku 123456-7")
	assert.Equal(t, "MSKU 123456-7", unit.Identifier)

	require.NoError(t, unit.SetWeights(decimal.NewFromInt(2200), decimal.NewFromInt(18000), decimal.Zero))
	assert.True(t, unit.GrossWeightKg.Equal(decimal.NewFromInt(20200)), "gross derived from tare+net")

	require.NoError(t, s.AddUnit(unit))
	assert.Equal(t, s.ID, s.Units[0].ShipmentID)

	bad := NewTransportUnit(UnitTypePallet, "P-1")
	err := bad.SetWeights(decimal.NewFromInt(500), decimal.Zero, decimal.NewFromInt(100))
	assert.Error(t, err, "gross below tare")
}

func TestTrackingLogAppendOnly(t *testing.T) {
	s := newPlannedShipment(t)

	e1 := NewTrackingEvent(TrackingPickup, time.Now(), "Hamburg")
	require.NoError(t, s.RecordTrackingEvent(e1))
	e2 := NewTrackingEvent(TrackingDelay, time.Now(), "A7 near Hannover")
	require.NoError(t, s.RecordTrackingEvent(e2))

	require.Len(t, s.TrackingEvents, 2)
	assert.Equal(t, TrackingPickup, s.TrackingEvents[0].Type)

	bad := NewTrackingEvent(TrackingEventType("teleported"), time.Now(), "X")
	assert.Error(t, s.RecordTrackingEvent(bad))

	lat := 53.55
	half := NewTrackingEvent(TrackingPosition, time.Now(), "")
	half.Latitude = &lat
	assert.Error(t, s.RecordTrackingEvent(half), "latitude without longitude")
}

func TestShipmentStatusMachine(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		s := newPlannedShipment(t)
		require.NoError(t, s.AddSegment(NewTransportSegment(ModeRoad, "A", "B")))
		require.NoError(t, s.Book())
		require.NoError(t, s.Depart())
		require.NoError(t, s.MarkDelivered())
		require.NoError(t, s.Complete())
		assert.True(t, s.Status.IsTerminal())
	})

	t.Run("cannot book without segments", func(t *testing.T) {
		s := newPlannedShipment(t)
		assert.Error(t, s.Book())
	})

	t.Run("out of order transitions rejected", func(t *testing.T) {
		s := newPlannedShipment(t)
		assert.Error(t, s.Depart())
		assert.Error(t, s.MarkDelivered())
		assert.Error(t, s.Complete())
	})

	t.Run("cancel only before transit", func(t *testing.T) {
		s := newPlannedShipment(t)
		require.NoError(t, s.AddSegment(NewTransportSegment(ModeRoad, "A", "B")))
		require.NoError(t, s.Book())
		require.NoError(t, s.Cancel())

		s2 := newPlannedShipment(t)
		require.NoError(t, s2.AddSegment(NewTransportSegment(ModeRoad, "A", "B")))
		require.NoError(t, s2.Book())
		require.NoError(t, s2.Depart())
		assert.Error(t, s2.Cancel())
	})

	t.Run("closed shipment rejects modification", func(t *testing.T) {
		s := newPlannedShipment(t)
		require.NoError(t, s.AddSegment(NewTransportSegment(ModeRoad, "A", "B")))
		require.NoError(t, s.Cancel())
		assert.Error(t, s.AddSegment(NewTransportSegment(ModeRoad, "B", "C")))
		assert.Error(t, s.AddUnit(NewTransportUnit(UnitTypePallet, "P-1")))
	})
}

func TestShipmentDocuments(t *testing.T) {
	s := newPlannedShipment(t)

	doc := NewShipmentDocument(ShipmentDocCMR, "CMR 4711", "shipments/x/cmr.pdf")
	require.NoError(t, s.AttachDocument(doc))
	assert.Equal(t, s.ID, s.Documents[0].ShipmentID)

	require.NoError(t, s.RemoveDocument(s.Documents[0].ID))
	assert.Empty(t, s.Documents)
	assert.Error(t, s.RemoveDocument(uuid.New()))

	bad := NewShipmentDocument(ShipmentDocumentType("fax"), "X", "key")
	assert.Error(t, s.AttachDocument(bad))
}

package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestMatchVehicles(t *testing.T) {
	record := matcherRecord()

	positions := []VehiclePosition{
		{TripID: "T1", RouteID: "R1", Lat: floatPtr(53.35), Lon: floatPtr(-6.26), Bearing: floatPtr(90)},
		{TripID: "T2", RouteID: "", Lat: floatPtr(53.30), Lon: floatPtr(-6.23)},
		{TripID: "Z9", RouteID: "R99", Lat: floatPtr(53.00), Lon: floatPtr(-6.00)},
		{TripID: "T3", RouteID: "R1", Lat: nil, Lon: floatPtr(-6.20)},
	}

	matched := MatchVehicles(record, positions)
	require.Len(t, matched, 2)
	assert.Equal(t, "T1", matched[0].TripID)
	// Trip ID alone is enough when the feed omits the route.
	assert.Equal(t, "T2", matched[1].TripID)
}

func TestMatchVehiclesEmpty(t *testing.T) {
	matched := MatchVehicles(matcherRecord(), nil)
	assert.NotNil(t, matched)
	assert.Empty(t, matched)
}

package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const camelCaseFeed = `{
  "entity": [
    {
      "tripUpdate": {
        "trip": {
          "tripId": "T1",
          "routeId": "R1",
          "directionId": 0,
          "startDate": "20260830",
          "startTime": "08:00:00",
          "tripHeadsign": "Phoenix Park"
        },
        "stopTimeUpdate": [
          {"stopSequence": 3, "arrival": {"delay": 60}, "departure": {"delay": 90}},
          {"stopSequence": "7", "departure": {"delay": -30}},
          {"stopSequence": 9}
        ]
      }
    },
    {"vehicle": {"trip": {"tripId": "ignored"}}}
  ]
}`

const snakeCaseFeed = `{
  "Entity": [
    {
      "trip_update": {
        "trip": {
          "trip_id": "T1",
          "route_id": "R1",
          "direction_id": "0",
          "start_date": "20260830",
          "start_time": "08:00:00",
          "trip_headsign": "Phoenix Park"
        },
        "stop_time_update": [
          {"stop_sequence": 3, "arrival": {"delay": 60}, "departure": {"delay": 90}},
          {"stop_sequence": 7, "departure": {"delay": -30}},
          {"stop_sequence": 9}
        ]
      }
    }
  ]
}`

func TestDecodeTripUpdatesBothSpellings(t *testing.T) {
	for name, payload := range map[string]string{
		"camelCase":  camelCaseFeed,
		"snake_case": snakeCaseFeed,
	} {
		t.Run(name, func(t *testing.T) {
			updates, err := DecodeTripUpdates([]byte(payload))
			require.NoError(t, err)
			require.Len(t, updates, 1)

			u := updates[0]
			assert.Equal(t, "T1", u.TripID)
			assert.Equal(t, "R1", u.RouteID)
			assert.Equal(t, "0", u.DirectionID)
			assert.Equal(t, "20260830", u.StartDate)
			assert.Equal(t, "08:00:00", u.StartTime)
			assert.Equal(t, "Phoenix Park", u.Headsign)

			require.Len(t, u.StopTimes, 3)
			// Arrival delay wins over departure delay.
			require.NotNil(t, u.StopTimes[0].Delay)
			assert.Equal(t, 60, *u.StopTimes[0].Delay)
			require.NotNil(t, u.StopTimes[1].Delay)
			assert.Equal(t, -30, *u.StopTimes[1].Delay)
			assert.Equal(t, 7, u.StopTimes[1].StopSequence)
			assert.Nil(t, u.StopTimes[2].Delay)
		})
	}
}

func TestDecodeTripUpdatesOmittedDirection(t *testing.T) {
	payload := `{"entity":[{"tripUpdate":{"trip":{"tripId":"T2","routeId":"R2"}}}]}`
	updates, err := DecodeTripUpdates([]byte(payload))
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "", updates[0].DirectionID)
	assert.Empty(t, updates[0].StopTimes)
}

func TestDecodeTripUpdatesInvalidJSON(t *testing.T) {
	_, err := DecodeTripUpdates([]byte("not json"))
	assert.Error(t, err)
}

func TestDecodeVehiclePositions(t *testing.T) {
	payload := `{
	  "entity": [
	    {
	      "vehicle": {
	        "trip": {"trip_id": "T1", "route_id": "R1"},
	        "position": {"latitude": 53.35, "longitude": "-6.26", "bearing": 270}
	      }
	    },
	    {
	      "vehiclePosition": {
	        "trip": {"tripId": "T2", "routeId": "R1"},
	        "position": {"lat": 53.30, "lon": -6.23}
	      }
	    },
	    {"tripUpdate": {"trip": {"tripId": "ignored"}}}
	  ]
	}`

	positions, err := DecodeVehiclePositions([]byte(payload))
	require.NoError(t, err)
	require.Len(t, positions, 2)

	first := positions[0]
	assert.Equal(t, "T1", first.TripID)
	require.NotNil(t, first.Lat)
	assert.InDelta(t, 53.35, *first.Lat, 1e-9)
	require.NotNil(t, first.Lon)
	assert.InDelta(t, -6.26, *first.Lon, 1e-9)
	require.NotNil(t, first.Bearing)
	assert.InDelta(t, 270, *first.Bearing, 1e-9)

	second := positions[1]
	assert.Equal(t, "T2", second.TripID)
	require.NotNil(t, second.Lat)
	assert.InDelta(t, 53.30, *second.Lat, 1e-9)
	assert.Nil(t, second.Bearing)
}

// Package realtime fetches live trip-update and vehicle-position feeds,
// caches them, and matches them against indexed schedule records.
package realtime

import (
	"encoding/json"
	"fmt"
)

// TripUpdate is the canonical form of one live trip-update entity. The wire
// format spells every field in either camelCase or snake_case depending on
// the upstream rendering; decoding normalizes both spellings here so the
// matcher only ever sees this shape. DirectionID is empty when the feed
// omits it, which the matcher treats as "unknown", not as direction "0".
type TripUpdate struct {
	TripID      string
	RouteID     string
	DirectionID string
	StartDate   string // YYYYMMDD service date
	StartTime   string // HH:MM:SS, may exceed 24h
	Headsign    string
	StopTimes   []StopTimeUpdate
}

// StopTimeUpdate is one per-stop entry of a trip update. Delay is nil when
// the entry carries no usable delay (arrival delay preferred over departure
// delay when both are present).
type StopTimeUpdate struct {
	StopSequence int
	Delay        *int
}

// VehiclePosition is the canonical form of one live vehicle-position entity.
// Lat and Lon are nil when the feed omits the position.
type VehiclePosition struct {
	TripID  string
	RouteID string
	Lat     *float64
	Lon     *float64
	Bearing *float64
}

// flexString decodes a JSON string or number into its string form; feeds are
// inconsistent about whether identifiers like direction_id are quoted.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexFloat decodes a JSON number or numeric string.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := n.Float64()
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// Wire shapes. Each logical field appears once per spelling; pick helpers
// collapse the pair after decoding.

type feedMessage struct {
	Entity      []feedEntity `json:"entity"`
	EntityUpper []feedEntity `json:"Entity"`
}

func (m *feedMessage) entities() []feedEntity {
	if len(m.Entity) > 0 {
		return m.Entity
	}
	return m.EntityUpper
}

type feedEntity struct {
	TripUpdateCamel *rawTripUpdate `json:"tripUpdate"`
	TripUpdateSnake *rawTripUpdate `json:"trip_update"`
	Vehicle         *rawVehicle    `json:"vehicle"`
	VehicleAlt      *rawVehicle    `json:"vehiclePosition"`
}

type rawTripUpdate struct {
	Trip           rawTrip  `json:"trip"`
	StopTimesCamel []rawSTU `json:"stopTimeUpdate"`
	StopTimesSnake []rawSTU `json:"stop_time_update"`
}

type rawTrip struct {
	TripIDCamel    string      `json:"tripId"`
	TripIDSnake    string      `json:"trip_id"`
	RouteIDCamel   string      `json:"routeId"`
	RouteIDSnake   string      `json:"route_id"`
	DirectionCamel *flexString `json:"directionId"`
	DirectionSnake *flexString `json:"direction_id"`
	StartDateCamel string      `json:"startDate"`
	StartDateSnake string      `json:"start_date"`
	StartTimeCamel string      `json:"startTime"`
	StartTimeSnake string      `json:"start_time"`
	HeadsignCamel  string      `json:"tripHeadsign"`
	HeadsignSnake  string      `json:"trip_headsign"`
}

type rawSTU struct {
	SeqCamel  *flexFloat    `json:"stopSequence"`
	SeqSnake  *flexFloat    `json:"stop_sequence"`
	Arrival   *rawStopEvent `json:"arrival"`
	Departure *rawStopEvent `json:"departure"`
}

type rawStopEvent struct {
	Delay *int `json:"delay"`
}

type rawVehicle struct {
	Trip     rawTrip     `json:"trip"`
	Position rawPosition `json:"position"`
}

type rawPosition struct {
	LatitudeLong  *flexFloat `json:"latitude"`
	LatitudeShort *flexFloat `json:"lat"`
	LongitudeLong *flexFloat `json:"longitude"`
	LongitudeLon  *flexFloat `json:"lon"`
	Bearing       *flexFloat `json:"bearing"`
}

func pick(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func pickFlex(a, b *flexString) string {
	if a != nil {
		return string(*a)
	}
	if b != nil {
		return string(*b)
	}
	return ""
}

func pickFloat(a, b *flexFloat) *float64 {
	var src *flexFloat
	switch {
	case a != nil:
		src = a
	case b != nil:
		src = b
	default:
		return nil
	}
	v := float64(*src)
	return &v
}

func (t *rawTrip) normalize() (tripID, routeID, directionID, startDate, startTime, headsign string) {
	return pick(t.TripIDCamel, t.TripIDSnake),
		pick(t.RouteIDCamel, t.RouteIDSnake),
		pickFlex(t.DirectionCamel, t.DirectionSnake),
		pick(t.StartDateCamel, t.StartDateSnake),
		pick(t.StartTimeCamel, t.StartTimeSnake),
		pick(t.HeadsignCamel, t.HeadsignSnake)
}

// DecodeTripUpdates parses a trip-update feed payload into canonical form.
// Entities without a trip update are dropped; individual entities the
// decoder cannot make sense of never fail the whole snapshot.
func DecodeTripUpdates(data []byte) ([]TripUpdate, error) {
	var msg feedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decoding trip updates: %w", err)
	}

	var updates []TripUpdate
	for _, entity := range msg.entities() {
		raw := entity.TripUpdateCamel
		if raw == nil {
			raw = entity.TripUpdateSnake
		}
		if raw == nil {
			continue
		}

		tripID, routeID, directionID, startDate, startTime, headsign := raw.Trip.normalize()
		update := TripUpdate{
			TripID:      tripID,
			RouteID:     routeID,
			DirectionID: directionID,
			StartDate:   startDate,
			StartTime:   startTime,
			Headsign:    headsign,
		}

		stus := raw.StopTimesCamel
		if len(stus) == 0 {
			stus = raw.StopTimesSnake
		}
		for _, stu := range stus {
			entry := StopTimeUpdate{}
			if seq := pickFloat(stu.SeqCamel, stu.SeqSnake); seq != nil {
				entry.StopSequence = int(*seq)
			}
			if stu.Arrival != nil && stu.Arrival.Delay != nil {
				entry.Delay = stu.Arrival.Delay
			} else if stu.Departure != nil && stu.Departure.Delay != nil {
				entry.Delay = stu.Departure.Delay
			}
			update.StopTimes = append(update.StopTimes, entry)
		}

		updates = append(updates, update)
	}
	return updates, nil
}

// DecodeVehiclePositions parses a vehicle-position feed payload into
// canonical form.
func DecodeVehiclePositions(data []byte) ([]VehiclePosition, error) {
	var msg feedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("decoding vehicle positions: %w", err)
	}

	var positions []VehiclePosition
	for _, entity := range msg.entities() {
		raw := entity.Vehicle
		if raw == nil {
			raw = entity.VehicleAlt
		}
		if raw == nil {
			continue
		}

		tripID, routeID, _, _, _, _ := raw.Trip.normalize()
		positions = append(positions, VehiclePosition{
			TripID:  tripID,
			RouteID: routeID,
			Lat:     pickFloat(raw.Position.LatitudeLong, raw.Position.LatitudeShort),
			Lon:     pickFloat(raw.Position.LongitudeLong, raw.Position.LongitudeLon),
			Bearing: pickFloat(raw.Position.Bearing, nil),
		})
	}
	return positions, nil
}

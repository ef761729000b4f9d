package realtime

import (
	"math"
	"sort"
	"time"

	"arrivals.dublintransit.ie/internal/gtfs"
	"arrivals.dublintransit.ie/internal/models"
)

// Prediction window: estimates more than two minutes in the past or more
// than two hours out carry no useful signal for a departures board.
const (
	maxPastSeconds    = 120
	maxMinutesAway    = 120
	serviceDateLayout = "20060102"
)

// MatchArrivals combines a schedule lookup with a live trip-update snapshot
// and returns the route's arrival predictions for the lookup's stop, sorted
// by estimated arrival. Updates that cannot be matched or timed are dropped
// individually; the result may be empty but is never nil.
func MatchArrivals(lookup *gtfs.ScheduleLookup, record *models.RouteRecord, updates []TripUpdate, now time.Time) []models.Arrival {
	routeIDs := record.RouteIDSet()
	tripIDs := record.TripIDSet()
	recordDir := lookup.Direction.DirectionID
	nowEpoch := now.Unix()

	arrivals := make([]models.Arrival, 0)
	for _, update := range updates {
		// Feeds inconsistently populate route and trip identifiers, so an
		// update belongs to the route if either matches.
		if !routeIDs[update.RouteID] && !tripIDs[update.TripID] {
			continue
		}
		// A direction mismatch only counts when both sides report one.
		if update.DirectionID != "" && recordDir != "" && update.DirectionID != recordDir {
			continue
		}
		if len(update.StopTimes) == 0 {
			continue
		}

		tripStart, ok := tripStartEpoch(update.StartDate, update.StartTime)
		if !ok {
			continue
		}
		scheduledArrival := tripStart + int64(lookup.TargetOffset)

		delay, passed := extractDelay(update.StopTimes, lookup.TargetSeq)
		if passed {
			continue
		}

		estimated := scheduledArrival + int64(delay)
		if estimated < nowEpoch-maxPastSeconds {
			continue
		}
		minutesAway := int(math.Ceil(float64(estimated-nowEpoch) / 60))
		if minutesAway < 0 {
			minutesAway = 0
		}
		if minutesAway > maxMinutesAway {
			continue
		}

		headsign := update.Headsign
		if headsign == "" {
			headsign = lookup.Direction.Headsign
		}

		arrival := models.Arrival{
			TripID:           update.TripID,
			RouteID:          update.RouteID,
			RouteShortName:   record.Route.RouteShortName,
			EstimatedArrival: estimated,
			DelaySeconds:     delay,
			MinutesAway:      minutesAway,
			Headsign:         headsign,
		}
		if lookup.HasFinal {
			arrival.FinalStopEta = tripStart + int64(lookup.FinalOffset) + int64(delay)
			arrival.FinalStopName = lookup.FinalStop.StopName
		}
		arrivals = append(arrivals, arrival)
	}

	sort.Slice(arrivals, func(i, j int) bool {
		return arrivals[i].EstimatedArrival < arrivals[j].EstimatedArrival
	})
	return arrivals
}

// tripStartEpoch converts a feed service date and start time into Unix
// seconds. The service date is anchored at midnight UTC, deliberately
// ignoring the service region's civil-time offset; downstream consumers
// already compensate, so "correcting" this here would break them.
func tripStartEpoch(startDate, startTime string) (int64, bool) {
	if startDate == "" || startTime == "" {
		return 0, false
	}
	day, err := time.Parse(serviceDateLayout, startDate)
	if err != nil {
		return 0, false
	}
	startSecs, ok := gtfs.ParseTime(startTime)
	if !ok {
		return 0, false
	}
	return day.Unix() + int64(startSecs), true
}

// extractDelay chooses the delay to apply at targetSeq from a trip's
// per-stop updates, and reports whether the vehicle has already passed the
// target stop.
//
// The closest known delay at or before the target is assumed to still hold
// at the target. When the feed only reports stops beyond the target's
// sequence range with no usable earlier entry, the earliest reported delay
// (in feed order) is propagated forward instead. With no usable delay at
// all, the schedule is assumed accurate.
func extractDelay(stopTimes []StopTimeUpdate, targetSeq int) (delay int, passedTarget bool) {
	bestSeq := -1
	minSeq := -1
	hasMin := false

	for _, stu := range stopTimes {
		if !hasMin || stu.StopSequence < minSeq {
			minSeq = stu.StopSequence
			hasMin = true
		}
		if stu.Delay == nil {
			continue
		}
		if stu.StopSequence <= targetSeq && stu.StopSequence > bestSeq {
			bestSeq = stu.StopSequence
			delay = *stu.Delay
		}
	}

	if bestSeq == -1 {
		for _, stu := range stopTimes {
			if stu.Delay != nil {
				delay = *stu.Delay
				break
			}
		}
	}

	passedTarget = hasMin && minSeq > targetSeq
	return delay, passedTarget
}

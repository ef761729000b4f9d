package gtfs

import (
	"arrivals.dublintransit.ie/internal/models"
)

// ScheduleLookup resolves one stop within one direction of a route record.
// All offsets are seconds relative to the representative trip's start (the
// first stop's departure), so they can be rebased onto any live trip's start
// epoch. Lookups are built per request and never cached.
type ScheduleLookup struct {
	Direction    *models.Direction
	TargetStop   *models.StopEntry
	TargetSeq    int
	TargetOffset int
	StartOffset  int
	FinalStop    *models.StopEntry
	FinalOffset  int
	HasFinal     bool
}

// Locate finds the first direction of record containing stopID and computes
// the trip-relative offsets for it. The second return is false when no
// direction contains the stop, or when the owning direction's schedule times
// are unparsable. An unparsable final-stop time only drops the final-stop
// offset, not the whole lookup.
func Locate(record *models.RouteRecord, stopID string) (*ScheduleLookup, bool) {
	for i := range record.Directions {
		dir := &record.Directions[i]
		if len(dir.Stops) == 0 {
			continue
		}

		var target *models.StopEntry
		for j := range dir.Stops {
			if dir.Stops[j].StopID == stopID {
				target = &dir.Stops[j]
				break
			}
		}
		if target == nil {
			continue
		}

		first := &dir.Stops[0]
		start, ok := ParseTime(firstScheduleTime(first.DepartureTime, first.ArrivalTime))
		if !ok {
			return nil, false
		}
		targetSecs, ok := ParseTime(firstScheduleTime(target.ArrivalTime, target.DepartureTime))
		if !ok {
			return nil, false
		}

		lookup := &ScheduleLookup{
			Direction:    dir,
			TargetStop:   target,
			TargetSeq:    target.StopSequence,
			TargetOffset: targetSecs - start,
			StartOffset:  start,
			FinalStop:    &dir.FinalStop,
		}
		if finalSecs, ok := ParseTime(firstScheduleTime(dir.FinalStop.ArrivalTime, dir.FinalStop.DepartureTime)); ok {
			lookup.FinalOffset = finalSecs - start
			lookup.HasFinal = true
		}
		return lookup, true
	}
	return nil, false
}

package gtfs

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"arrivals.dublintransit.ie/internal/models"
)

// Indexer transforms an extracted GTFS directory into one schedule record per
// route short name plus a route index, written as JSON under outDir.
//
// The full stop-time table is far too large to materialize per trip, so the
// indexer samples exactly one representative trip per (route, direction) and
// makes a single streaming pass over stop_times.txt retaining only rows for
// the sampled trips. The representative trip is assumed structurally
// representative of every trip in its direction; routes with branching
// variants will diverge from it, which is an accepted approximation.
type Indexer struct {
	gtfsDir string
	outDir  string
	logger  *slog.Logger
}

func NewIndexer(gtfsDir, outDir string, logger *slog.Logger) *Indexer {
	return &Indexer{gtfsDir: gtfsDir, outDir: outDir, logger: logger}
}

type routeGroup struct {
	ids      []string
	longName string
}

type tripRow struct {
	id          string
	directionID string
	shapeID     string
	headsign    string
}

type stopRow struct {
	name string
	code string
	lat  float64
	lon  float64
}

type stopTimeRow struct {
	stopID    string
	seq       int
	arrival   string
	departure string
}

type shapePoint struct {
	seq int
	lat float64
	lon float64
}

// Run executes the full indexing transform. Missing required tables (routes,
// trips, stops, stop_times) abort the run; a missing shapes table only costs
// the shape polylines. Malformed rows are skipped and counted, never fatal.
func (ix *Indexer) Run() error {
	routesByName, nameByRouteID, err := ix.readRoutes()
	if err != nil {
		return err
	}
	ix.logger.Info("read routes", "unique_short_names", len(routesByName))

	tripsByName, repTrips, err := ix.readTrips(nameByRouteID)
	if err != nil {
		return err
	}

	stopTimes, err := ix.readStopTimes(repTrips)
	if err != nil {
		return err
	}

	stops, err := ix.readStops()
	if err != nil {
		return err
	}

	shapes, err := ix.readShapes(repTrips)
	if err != nil {
		return err
	}

	return ix.writeRecords(routesByName, tripsByName, repTrips, stopTimes, stops, shapes)
}

func (ix *Indexer) readRoutes() (map[string]*routeGroup, map[string]string, error) {
	t, err := openTable(ix.gtfsDir, "routes.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("required table: %w", err)
	}
	defer t.Close()

	byName := map[string]*routeGroup{}
	nameByRouteID := map[string]string{}
	skipped, err := t.each(func(row []string) {
		name := strings.TrimSpace(t.field(row, "route_short_name"))
		id := t.field(row, "route_id")
		if name == "" || id == "" {
			return
		}
		g := byName[name]
		if g == nil {
			g = &routeGroup{longName: t.field(row, "route_long_name")}
			byName[name] = g
		}
		g.ids = append(g.ids, id)
		nameByRouteID[id] = name
	})
	if err != nil {
		return nil, nil, err
	}
	if skipped > 0 {
		ix.logger.Warn("skipped malformed rows", "table", "routes.txt", "rows", skipped)
	}
	return byName, nameByRouteID, nil
}

// repKey identifies a (route short name, direction) pair.
type repKey struct {
	name        string
	directionID string
}

// readTrips joins trips to route short names and selects the representative
// trip for every (route, direction): the first trip encountered in input
// order. Selection is therefore deterministic for identical input.
func (ix *Indexer) readTrips(nameByRouteID map[string]string) (map[string][]tripRow, map[repKey]tripRow, error) {
	t, err := openTable(ix.gtfsDir, "trips.txt")
	if err != nil {
		return nil, nil, fmt.Errorf("required table: %w", err)
	}
	defer t.Close()

	byName := map[string][]tripRow{}
	reps := map[repKey]tripRow{}
	total := 0
	skipped, err := t.each(func(row []string) {
		name, ok := nameByRouteID[t.field(row, "route_id")]
		if !ok {
			return
		}
		trip := tripRow{
			id:          t.field(row, "trip_id"),
			directionID: t.field(row, "direction_id"),
			shapeID:     t.field(row, "shape_id"),
			headsign:    t.field(row, "trip_headsign"),
		}
		if trip.id == "" {
			return
		}
		if trip.directionID == "" {
			trip.directionID = "0"
		}
		byName[name] = append(byName[name], trip)
		total++
		key := repKey{name: name, directionID: trip.directionID}
		if _, exists := reps[key]; !exists {
			reps[key] = trip
		}
	})
	if err != nil {
		return nil, nil, err
	}
	if skipped > 0 {
		ix.logger.Warn("skipped malformed rows", "table", "trips.txt", "rows", skipped)
	}
	ix.logger.Info("mapped trips", "trips", total, "routes", len(byName), "representative_trips", len(reps))
	return byName, reps, nil
}

// readStopTimes makes the single streaming pass over the stop-time table,
// retaining only rows belonging to a representative trip. Rows are grouped
// per trip and sorted by stop sequence.
func (ix *Indexer) readStopTimes(reps map[repKey]tripRow) (map[string][]stopTimeRow, error) {
	t, err := openTable(ix.gtfsDir, "stop_times.txt")
	if err != nil {
		return nil, fmt.Errorf("required table: %w", err)
	}
	defer t.Close()

	wanted := make(map[string]bool, len(reps))
	for _, trip := range reps {
		wanted[trip.id] = true
	}

	byTrip := map[string][]stopTimeRow{}
	badRows := 0
	skipped, err := t.each(func(row []string) {
		tripID := t.field(row, "trip_id")
		if !wanted[tripID] {
			return
		}
		seq, err := strconv.Atoi(t.field(row, "stop_sequence"))
		if err != nil {
			badRows++
			return
		}
		byTrip[tripID] = append(byTrip[tripID], stopTimeRow{
			stopID:    t.field(row, "stop_id"),
			seq:       seq,
			arrival:   t.field(row, "arrival_time"),
			departure: t.field(row, "departure_time"),
		})
	})
	if err != nil {
		return nil, err
	}
	if skipped+badRows > 0 {
		ix.logger.Warn("skipped malformed rows", "table", "stop_times.txt", "rows", skipped+badRows)
	}
	for tripID := range byTrip {
		rows := byTrip[tripID]
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	}
	ix.logger.Info("collected stop sequences", "representative_trips_with_rows", len(byTrip))
	return byTrip, nil
}

func (ix *Indexer) readStops() (map[string]stopRow, error) {
	t, err := openTable(ix.gtfsDir, "stops.txt")
	if err != nil {
		return nil, fmt.Errorf("required table: %w", err)
	}
	defer t.Close()

	stops := map[string]stopRow{}
	badRows := 0
	skipped, err := t.each(func(row []string) {
		id := t.field(row, "stop_id")
		if id == "" {
			return
		}
		lat, latErr := strconv.ParseFloat(t.field(row, "stop_lat"), 64)
		lon, lonErr := strconv.ParseFloat(t.field(row, "stop_lon"), 64)
		if latErr != nil || lonErr != nil {
			badRows++
			return
		}
		stops[id] = stopRow{
			name: t.field(row, "stop_name"),
			code: t.field(row, "stop_code"),
			lat:  lat,
			lon:  lon,
		}
	})
	if err != nil {
		return nil, err
	}
	if skipped+badRows > 0 {
		ix.logger.Warn("skipped malformed rows", "table", "stops.txt", "rows", skipped+badRows)
	}
	return stops, nil
}

// readShapes streams the shape table, retaining only shapes referenced by a
// representative trip. shapes.txt is optional in GTFS exports.
func (ix *Indexer) readShapes(reps map[repKey]tripRow) (map[string][][2]float64, error) {
	needed := map[string]bool{}
	for _, trip := range reps {
		if trip.shapeID != "" {
			needed[trip.shapeID] = true
		}
	}

	t, err := openTable(ix.gtfsDir, "shapes.txt")
	if err != nil {
		if os.IsNotExist(err) {
			ix.logger.Warn("shapes.txt not found; routes will have empty shapes")
			return map[string][][2]float64{}, nil
		}
		return nil, err
	}
	defer t.Close()

	points := map[string][]shapePoint{}
	badRows := 0
	skipped, err := t.each(func(row []string) {
		shapeID := t.field(row, "shape_id")
		if !needed[shapeID] {
			return
		}
		lat, latErr := strconv.ParseFloat(t.field(row, "shape_pt_lat"), 64)
		lon, lonErr := strconv.ParseFloat(t.field(row, "shape_pt_lon"), 64)
		if latErr != nil || lonErr != nil {
			badRows++
			return
		}
		// A missing sequence number defaults to zero rather than dropping
		// the point.
		seq, _ := strconv.Atoi(t.field(row, "shape_pt_sequence"))
		points[shapeID] = append(points[shapeID], shapePoint{seq: seq, lat: lat, lon: lon})
	})
	if err != nil {
		return nil, err
	}
	if skipped+badRows > 0 {
		ix.logger.Warn("skipped malformed rows", "table", "shapes.txt", "rows", skipped+badRows)
	}

	shapes := make(map[string][][2]float64, len(points))
	for shapeID, pts := range points {
		sort.Slice(pts, func(i, j int) bool { return pts[i].seq < pts[j].seq })
		line := make([][2]float64, len(pts))
		for i, p := range pts {
			line[i] = [2]float64{p.lat, p.lon}
		}
		shapes[shapeID] = line
	}
	ix.logger.Info("loaded shapes", "shapes", len(shapes))
	return shapes, nil
}

// writeRecords assembles and persists the per-route records and the route
// index. Directions whose representative trip yields no usable stop-time
// rows are skipped; routes ending up with zero directions are dropped.
func (ix *Indexer) writeRecords(
	routesByName map[string]*routeGroup,
	tripsByName map[string][]tripRow,
	reps map[repKey]tripRow,
	stopTimes map[string][]stopTimeRow,
	stops map[string]stopRow,
	shapes map[string][][2]float64,
) error {
	routesDir := filepath.Join(ix.outDir, "routes")
	if err := os.MkdirAll(routesDir, 0o755); err != nil {
		return err
	}

	names := make([]string, 0, len(routesByName))
	for name := range routesByName {
		names = append(names, name)
	}
	sortShortNames(names)

	var index []models.RouteIndexEntry
	for _, name := range names {
		trips := tripsByName[name]
		if len(trips) == 0 {
			continue
		}
		record := ix.buildRecord(name, routesByName[name], trips, reps, stopTimes, stops, shapes)
		if record == nil {
			ix.logger.Warn("dropping route with no usable directions", "route", name)
			continue
		}

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encoding route %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(routesDir, name+".json"), data, 0o644); err != nil {
			return err
		}

		entry := models.RouteIndexEntry{
			RouteShortName: name,
			RouteLongName:  record.Route.RouteLongName,
		}
		for _, d := range record.Directions {
			entry.Directions = append(entry.Directions, models.DirectionSummary{
				DirectionID: d.DirectionID,
				Headsign:    d.Headsign,
			})
		}
		index = append(index, entry)
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(ix.outDir, "routes-index.json"), data, 0o644); err != nil {
		return err
	}
	ix.logger.Info("wrote route records", "routes", len(index), "dir", ix.outDir)
	return nil
}

// buildRecord builds one route's record, or nil when no direction yields a
// usable stop list.
func (ix *Indexer) buildRecord(
	name string,
	group *routeGroup,
	trips []tripRow,
	reps map[repKey]tripRow,
	stopTimes map[string][]stopTimeRow,
	stops map[string]stopRow,
	shapes map[string][][2]float64,
) *models.RouteRecord {
	tripIDs := make([]string, 0, len(trips))
	directionIDs := map[string]bool{}
	for _, trip := range trips {
		tripIDs = append(tripIDs, trip.id)
		directionIDs[trip.directionID] = true
	}

	sortedDirs := make([]string, 0, len(directionIDs))
	for id := range directionIDs {
		sortedDirs = append(sortedDirs, id)
	}
	sort.Strings(sortedDirs)

	var directions []models.Direction
	for _, dirID := range sortedDirs {
		rep, ok := reps[repKey{name: name, directionID: dirID}]
		if !ok {
			continue
		}
		rows := stopTimes[rep.id]
		entries := make([]models.StopEntry, 0, len(rows))
		for _, row := range rows {
			stop, ok := stops[row.stopID]
			if !ok {
				continue
			}
			entries = append(entries, models.StopEntry{
				StopID:        row.stopID,
				StopName:      stop.name,
				StopCode:      stop.code,
				Lat:           stop.lat,
				Lon:           stop.lon,
				StopSequence:  row.seq,
				ArrivalTime:   row.arrival,
				DepartureTime: row.departure,
			})
		}
		if len(entries) == 0 {
			ix.logger.Warn("direction has no usable stop-time rows",
				"route", name, "direction", dirID, "trip", rep.id)
			continue
		}

		final := entries[len(entries)-1]
		headsign := rep.headsign
		if headsign == "" {
			headsign = final.StopName
		}
		shape := shapes[rep.shapeID]
		if shape == nil {
			shape = [][2]float64{}
		}
		directions = append(directions, models.Direction{
			DirectionID: dirID,
			Headsign:    headsign,
			Stops:       entries,
			Shape:       shape,
			FinalStop:   final,
		})
	}
	if len(directions) == 0 {
		return nil
	}

	return &models.RouteRecord{
		Route: models.RouteInfo{
			RouteIDs:       group.ids,
			RouteShortName: name,
			RouteLongName:  group.longName,
		},
		Directions: directions,
		TripIDs:    tripIDs,
	}
}

// sortShortNames orders route short names the way the index presents them:
// fully numeric names first in numeric order, then everything else
// lexicographically.
func sortShortNames(names []string) {
	sort.Slice(names, func(i, j int) bool {
		ni, iNum := numericShortName(names[i])
		nj, jNum := numericShortName(names[j])
		switch {
		case iNum && jNum:
			if ni != nj {
				return ni < nj
			}
			return names[i] < names[j]
		case iNum:
			return true
		case jNum:
			return false
		default:
			return names[i] < names[j]
		}
	})
}

// numericShortName reports whether s consists solely of decimal digits, and
// if so its numeric value.
func numericShortName(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

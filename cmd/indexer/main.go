// Command indexer builds per-route records and the route index from a static
// GTFS dump. Run it whenever the agency publishes a new dataset; the API
// server reads its output from the data directory at startup.
package main

import (
	"flag"
	"log/slog"
	"os"

	"arrivals.dublintransit.ie/internal/gtfs"
	"arrivals.dublintransit.ie/internal/logging"
)

func main() {
	var gtfsDir string
	var outDir string

	flag.StringVar(&gtfsDir, "gtfs-dir", "data/gtfs", "Directory containing the extracted GTFS text files")
	flag.StringVar(&outDir, "out-dir", "data", "Output directory for route records")
	flag.Parse()

	logger := logging.NewStructuredLogger(os.Stdout, slog.LevelInfo)

	indexer := gtfs.NewIndexer(gtfsDir, outDir, logger)
	if err := indexer.Run(); err != nil {
		logger.Error("indexing failed", "error", err)
		os.Exit(1)
	}
}

// Command routetool runs the route-computation pipeline once from local
// table files and prints the resulting tables. It plays the role of the
// UI collaborator: file parsing and GeoJSON export happen here, outside
// the core.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"route-surface-service/internal/adapters/ors"
	"route-surface-service/internal/adapters/tableio"
	"route-surface-service/internal/api/dto"
	"route-surface-service/internal/domain"
	"route-surface-service/internal/services"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	sourcePath := flag.String("source", "", "source table file (.xlsx or .csv) with one row")
	destPath := flag.String("destinations", "", "destinations table file (.xlsx or .csv)")
	finalPath := flag.String("final-stop", "", "final stop table file (.xlsx or .csv) with one row")
	idField := flag.String("id-field", "name", "destination identifier column")
	outPath := flag.String("out", "", "optional output path for the annotated route GeoJSON")
	timeout := flag.Duration("timeout", 3*time.Minute, "overall deadline for the computation")
	flag.Parse()

	logger := logrus.New()

	if *sourcePath == "" || *destPath == "" || *finalPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found (using environment variables)")
	}

	orsKey := os.Getenv("ORS_API_KEY")
	if orsKey == "" {
		logger.Fatal("ORS_API_KEY is required")
	}

	source, err := tableio.ReadFile(*sourcePath)
	if err != nil {
		logger.Fatal(err)
	}
	destinations, err := tableio.ReadFile(*destPath)
	if err != nil {
		logger.Fatal(err)
	}
	finalStop, err := tableio.ReadFile(*finalPath)
	if err != nil {
		logger.Fatal(err)
	}

	client, err := ors.NewClient(ors.Config{
		APIKey:  orsKey,
		BaseURL: os.Getenv("ORS_BASE_URL"),
	}, logger)
	if err != nil {
		logger.Fatal(err)
	}

	planner := services.NewPlanner(client, client, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := planner.PlanOptimalRoute(ctx, services.PlanRequest{
		Source:       source,
		Destinations: destinations,
		FinalStop:    finalStop,
		DestIDField:  *idField,
	})
	if err != nil {
		logger.Fatal(err)
	}

	printResult(result)

	if *outPath != "" {
		if err := writeGeoJSON(*outPath, result); err != nil {
			logger.Fatal(err)
		}
		fmt.Printf("\nannotated route written to %s\n", *outPath)
	}
}

func printResult(result *domain.RouteResult) {
	fmt.Printf("start: %s (%.5f, %.5f)\n", result.Source.Identifier, result.Source.Lon, result.Source.Lat)
	fmt.Printf("end:   %s (%.5f, %.5f)\n", result.FinalStop.Identifier, result.FinalStop.Lon, result.FinalStop.Lat)

	fmt.Println("\nvisit order:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "rank\tname\tidentifier\tdistance_m")
	for _, d := range result.Destinations {
		rank := "-"
		if d.Rank > 0 {
			rank = fmt.Sprintf("%d", d.Rank)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\n", rank, d.Name, d.Identifier, d.CumulativeDistanceM)
	}
	w.Flush()

	fmt.Println("\nroute segments:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "segment\tlength_km")
	for _, s := range result.Segments {
		fmt.Fprintf(w, "%s\t%.2f\n", s.Name, s.LengthKm)
	}
	w.Flush()

	fmt.Println("\nsurface composition:")
	w = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "surface\tlength_km\tpercent")
	for _, s := range result.SurfaceStats {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\n", s.Surface, s.TotalLengthKm, s.Percentage)
	}
	w.Flush()

	fmt.Printf("\ntotal route length: %.2f km over %d path segments\n", result.TotalLengthKm(), len(result.Path))
}

func writeGeoJSON(path string, result *domain.RouteResult) error {
	fc := dto.PathFeatureCollection(result.Path)

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}
	return nil
}

// Command recordfixture captures the raw provider payloads for every
// configured location and writes them to a single fixture file. The fixture
// feeds comparerun, which replays it under a frozen clock to compare scoring
// modes against a recorded baseline.
//
// Usage:
//
//	go run ./cmd/recordfixture -out testdata/fixture.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/sandgroper/shorecast/internal/adapter/openmeteo"
	"github.com/sandgroper/shorecast/internal/forecast"
	"github.com/sandgroper/shorecast/internal/locations"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the fixture JSON")
	locsFile := flag.String("locations", "", "locations JSON file (default: built-in table)")
	days := flag.Int("days", 7, "forecast horizon in days")
	weatherURL := flag.String("weather-url", "https://api.open-meteo.com/v1/forecast", "weather API base URL")
	marineURL := flag.String("marine-url", "https://marine-api.open-meteo.com/v1/marine", "marine API base URL")
	timeout := flag.Duration("timeout", 45*time.Second, "per-request timeout")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	locs, err := locations.Load(*locsFile)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := openmeteo.NewClient(*weatherURL, *marineURL, *timeout, *days, nil, logger)

	ctx := context.Background()
	fx := forecast.Fixture{GeneratedAt: time.Now().UTC()}
	if len(locs) > 0 {
		fx.WaterTempC = client.WaterTemperature(ctx, locs[0].Lat, locs[0].Lon)
	}

	for _, loc := range locs {
		res, err := client.Fetch(ctx, loc)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", loc.Name, err)
		}
		fx.Locations = append(fx.Locations, forecast.LocationFixture{Location: loc, Raw: res.Data})
		log.Printf("%s: %d weather hours, %d marine hours",
			loc.Name, len(res.Data.Weather.Hourly.Time), len(res.Data.Marine.Hourly.Time))
	}

	if err := forecast.WriteFixture(*out, fx); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote fixture: %s (%d locations)", *out, len(fx.Locations))
	return nil
}

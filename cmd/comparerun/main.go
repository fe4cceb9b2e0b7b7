// Command comparerun replays a recorded fixture under a frozen clock and
// compares the resulting run JSON against a baseline file. A clean diff
// proves a scoring change is behavior-preserving; -write records a new
// baseline after an intentional change.
//
// Usage:
//
//	go run ./cmd/comparerun -fixture testdata/fixture.json -baseline testdata/baseline_v5.json -mode v5
//	go run ./cmd/comparerun -fixture testdata/fixture.json -baseline testdata/baseline_v6.json -mode v6 -write
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/sandgroper/shorecast/internal/domain"
	"github.com/sandgroper/shorecast/internal/forecast"
	"github.com/sandgroper/shorecast/internal/rating"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	fixturePath := flag.String("fixture", "", "recorded fixture JSON")
	baselinePath := flag.String("baseline", "", "baseline run JSON to compare against")
	modeFlag := flag.String("mode", "v6", "rating mode: v6 or v5")
	windowHours := flag.Int("window", 3, "best-window width in hours")
	days := flag.Int("days", 7, "forecast horizon in days")
	write := flag.Bool("write", false, "write the baseline instead of comparing")
	flag.Parse()

	if *fixturePath == "" || *baselinePath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -fixture, -baseline")
	}

	mode, err := rating.ParseMode(*modeFlag)
	if err != nil {
		return err
	}

	fx, err := forecast.ReadFixture(*fixturePath)
	if err != nil {
		return err
	}

	// Freeze the clock at the capture time so the replay is byte-identical.
	domain.SetClock(clockwork.NewFakeClockAt(fx.GeneratedAt))
	defer domain.SetClock(nil)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	rater := rating.New(mode, rating.DefaultCalibration())
	builder := forecast.NewBuilder(rater, *windowHours, logger)
	builder.WaterTempC = fx.WaterTempC

	runOut := builder.Build(fx.Inputs(*days))

	got, err := json.MarshalIndent(runOut, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	got = append(got, '\n')

	if *write {
		if err := os.MkdirAll(filepath.Dir(*baselinePath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(*baselinePath, got, 0o600); err != nil {
			return fmt.Errorf("write baseline: %w", err)
		}
		log.Printf("wrote baseline: %s (%d days, mode %s)", *baselinePath, len(runOut.Days), mode)
		return nil
	}

	want, err := os.ReadFile(*baselinePath)
	if err != nil {
		return fmt.Errorf("read baseline: %w", err)
	}
	if bytes.Equal(got, want) {
		log.Printf("match: %s (mode %s)", *baselinePath, mode)
		return nil
	}

	reportDiff(got, want)
	return fmt.Errorf("run differs from baseline %s", *baselinePath)
}

// reportDiff prints the first few differing lines, enough to locate the
// change without a full diff tool.
func reportDiff(got, want []byte) {
	gotLines := bytes.Split(got, []byte("\n"))
	wantLines := bytes.Split(want, []byte("\n"))

	shown := 0
	for i := 0; i < len(gotLines) || i < len(wantLines); i++ {
		var g, w []byte
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if bytes.Equal(g, w) {
			continue
		}
		log.Printf("line %d:\n  baseline: %s\n  got:      %s", i+1, w, g)
		shown++
		if shown == 10 {
			log.Printf("(further differences omitted)")
			break
		}
	}
}

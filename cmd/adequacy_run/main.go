// Runs the adequacy pipeline for a single scenario and region or
// transmission group and writes the result record as JSON. Errors
// propagate unmodified; there is no cache or batch bookkeeping here.
package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/gridward/adequacy_sim/pkg/config"
	"github.com/gridward/adequacy_sim/pkg/orchestrator"
	"github.com/gridward/adequacy_sim/pkg/provider"
	"github.com/gridward/adequacy_sim/pkg/types"
	"github.com/rs/zerolog"
)

func main() {
	scenario := flag.String("scenario", "", "scenario identifier")
	region := flag.String("region", "", "region identifier")
	group := flag.String("group", "", "transmission group identifier (instead of -region)")
	targetYear := flag.Int("year", 0, "target year (0 = from config)")
	weatherYear := flag.Int("weather-year", 0, "weather year (0 = from config)")
	windowHours := flag.Int("window", 0, "stress window length override in hours")
	datasetDir := flag.String("data", "", "dataset directory override")
	outPath := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if *scenario == "" || (*region == "" && *group == "") {
		log.Fatal().Msg("usage: adequacy_run -scenario S (-region R | -group G)")
	}
	if *region != "" && *group != "" {
		log.Fatal().Msg("-region and -group are mutually exclusive")
	}

	cfg, err := config.LoadBatchConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *targetYear != 0 {
		cfg.TargetYear = *targetYear
	}
	if *weatherYear != 0 {
		cfg.WeatherYear = *weatherYear
	}
	if *windowHours != 0 {
		cfg.WindowHours = *windowHours
	}
	if *datasetDir != "" {
		cfg.DatasetDir = *datasetDir
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	dataset, err := provider.OpenDataset(cfg.DatasetDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open dataset")
	}

	orch := orchestrator.New(dataset, nil, orchestrator.Config{
		TargetYear:  cfg.TargetYear,
		WeatherYear: cfg.WeatherYear,
		WindowHours: cfg.WindowHours,
	}, log, nil)

	var result *types.RunResult
	if *group != "" {
		result, err = orch.RunGroup(*scenario, *group)
	} else {
		result, err = orch.RunRegion(*scenario, *region)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create output file")
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		log.Fatal().Err(err).Msg("failed to write result")
	}
}

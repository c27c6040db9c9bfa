// Batch driver: runs the adequacy pipeline across scenarios x regions
// with a persistent result cache, a terminal progress bar, and an
// optional websocket progress feed for batch_watch.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gridward/adequacy_sim/pkg/config"
	"github.com/gridward/adequacy_sim/pkg/orchestrator"
	"github.com/gridward/adequacy_sim/pkg/pathing"
	"github.com/gridward/adequacy_sim/pkg/progressfeed"
	"github.com/gridward/adequacy_sim/pkg/provider"
	"github.com/gridward/adequacy_sim/pkg/resultdb"
	"github.com/rs/zerolog"
	"gopkg.in/cheggaaa/pb.v1"
)

func main() {
	scenarioList := flag.String("scenarios", "", "comma-separated scenario identifiers")
	regionList := flag.String("regions", "", "comma-separated region identifiers (default: all dataset regions)")
	listen := flag.String("listen", "", "progress feed address, e.g. :9047 (default: from config)")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.LoadBatchConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	scenarios := splitList(*scenarioList)
	if len(scenarios) == 0 {
		log.Fatal().Msg("at least one scenario is required (-scenarios)")
	}

	if err := pathing.EnsureDirs(); err != nil {
		log.Fatal().Err(err).Msg("failed to create data directories")
	}

	dataset, err := provider.OpenDataset(cfg.DatasetDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open dataset")
	}

	regions := splitList(*regionList)
	if len(regions) == 0 {
		for _, r := range dataset.Regions() {
			regions = append(regions, r.ID)
		}
	}

	store, err := resultdb.Open(cfg.CacheDbPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open result cache")
	}
	defer store.Close()

	broadcaster := orchestrator.NewBroadcaster(log)
	feedAddr := *listen
	if feedAddr == "" && cfg.ListenAddress != "" {
		feedAddr = fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)
	}
	if feedAddr != "" {
		http.HandleFunc("/ws", broadcaster.HandleWs)
		go func() {
			log.Info().Str("addr", feedAddr).Msg("progress feed listening")
			if err := http.ListenAndServe(feedAddr, nil); err != nil {
				log.Error().Err(err).Msg("progress feed stopped")
			}
		}()
	}

	orch := orchestrator.New(dataset, store, orchestrator.Config{
		TargetYear:  cfg.TargetYear,
		WeatherYear: cfg.WeatherYear,
		WindowHours: cfg.WindowHours,
		Workers:     cfg.Workers,
	}, log, broadcaster)

	bar := pb.StartNew(len(scenarios) * len(regions))
	orch.SetProgressFunc(func(event progressfeed.ProgressEvent) {
		bar.Set(event.Completed + event.Skipped + event.Failed)
	})

	outcomes, err := orch.RunBatch(context.Background(), scenarios, regions)
	bar.Finish()
	if err != nil {
		log.Fatal().Err(err).Msg("batch aborted")
	}

	var completed, skipped, failed int
	for pair, outcome := range outcomes {
		switch outcome.Status {
		case orchestrator.StatusCompleted:
			completed++
		case orchestrator.StatusSkipped:
			skipped++
		case orchestrator.StatusFailed:
			failed++
			log.Warn().
				Str("scenario", pair.Scenario).
				Str("region", pair.Region).
				Err(outcome.Err).
				Msg("pair failed")
		}
	}
	log.Info().
		Int("completed", completed).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("batch finished")

	if failed > 0 {
		os.Exit(1)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

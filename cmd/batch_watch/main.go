// Tails the progress feed of a running adequacy_batch process.
// Depends on the batch exposing its websocket feed (-listen).
package main

import (
	"fmt"
	"os"

	"github.com/gridward/adequacy_sim/pkg/progressfeed"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Set the host:port from env var BATCH_FEED_HOST
	host := os.Getenv("BATCH_FEED_HOST")
	if host == "" {
		host = "localhost:9047"
	}

	progressfeed.StartListener(host, log, func(event *progressfeed.ProgressEvent) {
		fmt.Println(string(event.ToJsonBytes()))
	})
}

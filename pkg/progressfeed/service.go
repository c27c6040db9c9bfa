// Websocket subscriber for a running batch's progress feed.
package progressfeed

import (
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// StartListener connects to host's /ws feed and calls funcToCall for
// each progress event. Reconnects with exponential backoff when the
// connection drops; returns when the feed reports Done, the server is
// gone for good, or an interrupt arrives.
func StartListener(host string, log zerolog.Logger, funcToCall func(event *ProgressEvent)) {
	const (
		maxRetries     = 10
		baseRetryDelay = 2 * time.Second
		maxRetryDelay  = 60 * time.Second
	)

	u := url.URL{Scheme: "ws", Host: host, Path: "/ws"}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	retryCount := 0

	for {
		select {
		case <-interrupt:
			log.Info().Msg("interrupt received, shutting down")
			return
		default:
			retryDelay := time.Duration(1<<retryCount) * baseRetryDelay
			if retryDelay > maxRetryDelay {
				retryDelay = maxRetryDelay
			}

			if retryCount > 0 {
				log.Info().Dur("delay", retryDelay).Int("attempt", retryCount+1).Msg("retrying connection")
				select {
				case <-time.After(retryDelay):
				case <-interrupt:
					return
				}
			}

			log.Info().Str("url", u.String()).Msg("connecting to progress feed")

			dialer := websocket.DefaultDialer
			dialer.HandshakeTimeout = 10 * time.Second
			c, _, err := dialer.Dial(u.String(), nil)
			if err != nil {
				log.Warn().Err(err).Msg("connection failed")
				retryCount++
				if retryCount >= maxRetries {
					log.Error().Int("retries", maxRetries).Msg("max retries reached, giving up")
					return
				}
				continue
			}

			retryCount = 0

			finished, connectionBroken := handleConnection(c, interrupt, log, funcToCall)
			c.Close()

			if finished || !connectionBroken {
				return
			}
			log.Warn().Msg("connection lost, will retry")
		}
	}
}

// handleConnection reads events until the feed finishes, the
// connection breaks, or an interrupt arrives. Returns (batch finished,
// connection broken).
func handleConnection(
	c *websocket.Conn,
	interrupt chan os.Signal,
	log zerolog.Logger,
	funcToCall func(event *ProgressEvent),
) (bool, bool) {
	done := make(chan struct{})
	finished := false

	// Progress events are not on a fixed cadence, so the read deadline
	// is generous; the ping loop below keeps the connection honest.
	c.SetReadDeadline(time.Now().Add(5 * time.Minute))

	go func() {
		defer close(done)
		for {
			messageType, message, err := c.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Warn().Err(err).Msg("websocket error")
				}
				return
			}
			c.SetReadDeadline(time.Now().Add(5 * time.Minute))

			if messageType != websocket.TextMessage {
				continue
			}
			event := ProgressEventFromJsonBytes(message)
			if event == nil {
				log.Warn().Str("payload", string(message)).Msg("failed to parse progress event")
				continue
			}
			funcToCall(event)
			if event.Done {
				finished = true
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := c.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	select {
	case <-done:
		return finished, !finished
	case <-interrupt:
		c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return finished, false
	}
}

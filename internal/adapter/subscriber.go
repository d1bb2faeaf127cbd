// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-budget-keeper/internal/config"
	"github.com/MKhiriev/go-budget-keeper/internal/logger"
	"github.com/MKhiriev/go-budget-keeper/models"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sethvargo/go-retry"
)

const (
	feedDialTimeout   = 10 * time.Second
	feedReconnectBase = time.Second
	feedReconnectCap  = 30 * time.Second

	// feedReadLimit bounds a single feed message; a record payload is a flat
	// JSON object, so 1 MiB leaves ample headroom.
	feedReadLimit = 1 << 20
)

type wsChangeFeed struct {
	feedURL string
	token   string

	logger *logger.Logger
}

// NewWebSocketChangeFeed constructs a WebSocket implementation of [ChangeFeed]
// listening on the server's /api/sync/changes endpoint. The stream URL is
// derived from adapterCfg.ServerAddress with the scheme switched to ws/wss.
//
// Returns an error if adapterCfg.ServerAddress cannot be parsed as a valid
// URL.
func NewWebSocketChangeFeed(adapterCfg config.ClientAdapter, logger *logger.Logger) (ChangeFeed, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.ServerAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter server address: %w", err)
	}

	feedURL, err := websocketURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid change feed url: %w", err)
	}

	return &wsChangeFeed{feedURL: feedURL, token: strings.TrimSpace(adapterCfg.Token), logger: logger}, nil
}

func websocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/sync/changes"

	return u.String(), nil
}

// Subscribe implements [ChangeFeed]. It dials the change stream with capped
// Fibonacci backoff, reads [models.RemoteChange] frames and passes each to
// handler. A lost connection is re-dialled with a fresh backoff. Subscribe
// blocks until ctx is cancelled and returns ctx.Err().
func (w *wsChangeFeed) Subscribe(ctx context.Context, handler func(models.RemoteChange)) error {
	for {
		conn, err := w.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("dial change feed: %w", err)
		}

		w.pump(ctx, conn, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		w.logger.Info().Str("func", "wsChangeFeed.Subscribe").Msg("change feed disconnected, reconnecting")
	}
}

// dial establishes the stream connection, retrying failed attempts until ctx
// is cancelled. The backoff is rebuilt per call so every reconnect cycle
// starts from the base delay again.
func (w *wsChangeFeed) dial(ctx context.Context) (*websocket.Conn, error) {
	backoff := retry.WithCappedDuration(feedReconnectCap, retry.NewFibonacci(feedReconnectBase))

	var conn *websocket.Conn
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		dialCtx, cancel := context.WithTimeout(ctx, feedDialTimeout)
		defer cancel()

		header := http.Header{}
		if w.token != "" {
			header.Set("Authorization", "Bearer "+w.token)
		}

		c, _, err := websocket.Dial(dialCtx, w.feedURL, &websocket.DialOptions{HTTPHeader: header})
		if err != nil {
			w.logger.Debug().Err(err).Str("func", "wsChangeFeed.dial").Msg("change feed dial failed, will retry")
			return retry.RetryableError(err)
		}

		c.SetReadLimit(feedReadLimit)
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	return conn, nil
}

func (w *wsChangeFeed) pump(ctx context.Context, conn *websocket.Conn, handler func(models.RemoteChange)) {
	defer conn.CloseNow()

	for {
		var change models.RemoteChange
		if err := wsjson.Read(ctx, conn, &change); err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				w.logger.Warn().Err(err).Str("func", "wsChangeFeed.pump").Msg("change feed connection lost")
			}
			return
		}

		handler(change)
	}
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package telemetry sends opt-in anonymous usage events and crash reports.
// Nothing leaves the machine unless PNC_TELEMETRY_OPT_IN is set and an
// endpoint is configured.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	applog "panelcanvas/internal/log"
	"panelcanvas/internal/version"
)

// Flag is a boolean that also accepts yes/on/no/off.
type Flag bool

// Decode implements envconfig.Decoder.
func (f *Flag) Decode(v string) error {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		*f = true
	case "", "0", "false", "no", "off":
		*f = false
	default:
		return fmt.Errorf("invalid flag %q", v)
	}
	return nil
}

// Config is read from the environment:
//   - PNC_TELEMETRY_OPT_IN: enables events and crash uploads
//   - PNC_TELEMETRY_URL: endpoint receiving JSON events
//   - PNC_CRASH_UPLOAD_URL: endpoint receiving plain-text crash reports
//   - PNC_TELEMETRY_TIMEOUT_MS: request timeout, default 1500
//   - PNC_TELEMETRY_DEBUG: log send attempts
type Config struct {
	OptIn        Flag   `envconfig:"TELEMETRY_OPT_IN"`
	EventsURL    string `envconfig:"TELEMETRY_URL"`
	CrashURL     string `envconfig:"CRASH_UPLOAD_URL"`
	TimeoutMS    int    `envconfig:"TELEMETRY_TIMEOUT_MS" default:"1500"`
	DebugLogging Flag   `envconfig:"TELEMETRY_DEBUG"`
}

// Timeout returns the request timeout.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMS <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// FromEnv reads Config from PNC_* variables. Malformed values disable telemetry.
func FromEnv() Config {
	var cfg Config
	if err := envconfig.Process(applog.EnvPrefix, &cfg); err != nil {
		return Config{TimeoutMS: 1500}
	}
	cfg.EventsURL = strings.TrimSpace(cfg.EventsURL)
	cfg.CrashURL = strings.TrimSpace(cfg.CrashURL)
	return cfg
}

// Client queues events and posts them from a background goroutine. Send
// failures are dropped.
type Client struct {
	cfg     Config
	log     *slog.Logger
	cli     *http.Client
	q       chan map[string]any
	pending sync.WaitGroup
	once    sync.Once
	closed  chan struct{}
}

var (
	defaultMu     sync.Mutex
	defaultClient *Client
)

// Default returns the process-wide client, built from the environment on first use.
func Default() *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultClient == nil {
		defaultClient = New(FromEnv())
	}
	return defaultClient
}

// SetDefault replaces the process-wide client and returns the previous one.
func SetDefault(c *Client) *Client {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultClient
	defaultClient = c
	return prev
}

// New constructs a client and starts its sender.
func New(cfg Config) *Client {
	c := &Client{
		cfg:    cfg,
		log:    applog.WithComponent("telemetry"),
		cli:    &http.Client{Timeout: cfg.Timeout()},
		q:      make(chan map[string]any, 64),
		closed: make(chan struct{}),
	}
	go c.loop()
	return c
}

// Enabled reports whether events are sent.
func (c *Client) Enabled() bool { return c != nil && bool(c.cfg.OptIn) && c.cfg.EventsURL != "" }

// Event queues a named event. props must not carry document content or paths.
func (c *Client) Event(name string, props map[string]any) {
	if !c.Enabled() || name == "" {
		return
	}
	payload := map[string]any{
		"name":    name,
		"ts":      time.Now().UTC().Format(time.RFC3339Nano),
		"version": version.String(),
		"os":      runtime.GOOS,
		"arch":    runtime.GOARCH,
	}
	for k, v := range props {
		payload[k] = v
	}
	c.pending.Add(1)
	select {
	case c.q <- payload:
	default:
		c.pending.Done()
	}
}

// Flush waits until queued events are sent or ctx is done.
func (c *Client) Flush(ctx context.Context) {
	if c == nil {
		return
	}
	done := make(chan struct{})
	go func() {
		c.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}

// Close stops the sender. Queued events are dropped.
func (c *Client) Close() { c.once.Do(func() { close(c.closed) }) }

func (c *Client) loop() {
	for {
		select {
		case <-c.closed:
			return
		case item := <-c.q:
			c.send(item)
			c.pending.Done()
		}
	}
}

func (c *Client) send(item map[string]any) {
	buf, err := json.Marshal(item)
	if err != nil {
		return
	}
	if err := c.post(context.Background(), c.cfg.EventsURL, "application/json", buf); err != nil {
		if c.cfg.DebugLogging {
			c.log.Debug("telemetry send failed", slog.Any("err", err))
		}
		return
	}
	if c.cfg.DebugLogging {
		c.log.Debug("telemetry event sent", slog.Any("name", item["name"]))
	}
}

// UploadCrash posts a crash report and waits for the response, since the
// process exits right after. It is a no-op unless opted in with a crash URL.
func (c *Client) UploadCrash(ctx context.Context, report []byte) error {
	if c == nil || !bool(c.cfg.OptIn) || c.cfg.CrashURL == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()
	if err := c.post(ctx, c.cfg.CrashURL, "text/plain; charset=utf-8", report); err != nil {
		return fmt.Errorf("upload crash report: %w", err)
	}
	if c.cfg.DebugLogging {
		c.log.Debug("crash report uploaded")
	}
	return nil
}

func (c *Client) post(ctx context.Context, url, contentType string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.cli.Do(req)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

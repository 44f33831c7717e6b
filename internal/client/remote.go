// ABOUTME: remote.Store implementation over the castline-server HTTP API
// ABOUTME: JSON CRUD plus an auto-reconnecting SSE live feed per subscription

package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/castline/castline/internal/document"
	"github.com/castline/castline/internal/remote"
)

const (
	reconnectMinDelay = time.Second
	reconnectMaxDelay = 30 * time.Second
)

// Options configures a Remote.
type Options struct {
	// HTTPClient defaults to a client with no overall timeout; the feed is a
	// long-lived request, so per-call deadlines come from contexts.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Remote implements remote.Store against a running castline-server. Live
// feed subscriptions reconnect with exponential backoff; feed supremacy makes
// reconnects safe, since the first snapshot after reconnect re-establishes
// truth wholesale.
type Remote struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger

	ctx    context.Context // root for all subscriptions, ended by Close
	cancel context.CancelFunc
}

// New creates a Remote for the server at baseURL, e.g. "http://qc-server:8080".
func New(baseURL string, opts Options) *Remote {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Remote{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.With("component", "client"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// FetchAll retrieves every document in the collection.
func (r *Remote) FetchAll(ctx context.Context, collection string) ([]document.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.collectionURL(collection), nil)
	if err != nil {
		return nil, remote.NewTransportError("fetch_all", collection, err)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, remote.NewTransportError("fetch_all", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, remote.NewTransportError("fetch_all", collection, httpError(resp))
	}
	var docs []document.Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, remote.NewTransportError("fetch_all", collection, err)
	}
	return docs, nil
}

// Collections lists the server's non-empty collection names. This is an
// administrative call, not part of the remote.Store contract.
func (r *Remote) Collections(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/v1/collections", nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, httpError(resp)
	}
	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		return nil, err
	}
	return names, nil
}

// Set merge-upserts a document; the server stamps the authoritative updatedAt.
func (r *Remote) Set(ctx context.Context, collection, id string, doc document.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document %s/%s: %w", collection, id, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut,
		r.documentURL(collection, id), bytes.NewReader(body))
	if err != nil {
		return remote.NewTransportError("set", collection, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return remote.NewTransportError("set", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return remote.NewTransportError("set", collection, httpError(resp))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// Delete removes a document.
func (r *Remote) Delete(ctx context.Context, collection, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		r.documentURL(collection, id), nil)
	if err != nil {
		return remote.NewTransportError("delete", collection, err)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return remote.NewTransportError("delete", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return remote.NewTransportError("delete", collection, httpError(resp))
	}
	return nil
}

// Subscribe fetches the current snapshot, delivers it to fn immediately, then
// follows the server's SSE feed, reconnecting with backoff after drops. The
// returned cancel stops the feed and is safe to call more than once.
func (r *Remote) Subscribe(collection string, fn func([]document.Document)) (func(), error) {
	// Immediate-snapshot contract: the caller gets current state even if the
	// stream takes a moment to come up. The stream's own initial snapshot
	// follows and is an idempotent replace.
	initial, err := r.FetchAll(r.ctx, collection)
	if err != nil {
		return nil, err
	}
	fn(initial)

	subCtx, subCancel := context.WithCancel(r.ctx)
	go r.followFeed(subCtx, collection, fn)

	var once sync.Once
	return func() {
		once.Do(subCancel)
	}, nil
}

// Close stops all subscriptions.
func (r *Remote) Close() error {
	r.cancel()
	return nil
}

// followFeed keeps one SSE stream alive until ctx ends.
func (r *Remote) followFeed(ctx context.Context, collection string, fn func([]document.Document)) {
	delay := reconnectMinDelay
	for {
		delivered, err := r.streamFeed(ctx, collection, fn)
		if ctx.Err() != nil {
			return
		}
		if delivered {
			delay = reconnectMinDelay
		}
		r.logger.Warn("live feed disconnected, reconnecting",
			"collection", collection,
			"retry_in", delay,
			"error", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay = min(delay*2, reconnectMaxDelay)
	}
}

// streamFeed runs one SSE connection, invoking fn per snapshot event. It
// returns whether at least one snapshot was delivered (used to reset the
// reconnect backoff) and the terminating error.
func (r *Remote) streamFeed(ctx context.Context, collection string, fn func([]document.Document)) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		r.collectionURL(collection)+"/feed", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := r.http.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, httpError(resp)
	}

	delivered := false
	var event string
	var data bytes.Buffer

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if event == "snapshot" && data.Len() > 0 {
				var docs []document.Document
				if err := json.Unmarshal(data.Bytes(), &docs); err != nil {
					r.logger.Error("unparseable snapshot", "collection", collection, "error", err)
				} else {
					fn(docs)
					delivered = true
				}
			}
			event = ""
			data.Reset()
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		default:
			// Comment lines (heartbeats) and unknown fields are ignored.
		}
	}
	return delivered, scanner.Err()
}

func (r *Remote) collectionURL(collection string) string {
	return r.baseURL + "/v1/c/" + collection
}

func (r *Remote) documentURL(collection, id string) string {
	return r.collectionURL(collection) + "/" + id
}

// httpError summarizes a non-success response, including a little of the body.
func httpError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return fmt.Errorf("server returned %s: %s", resp.Status, msg)
}

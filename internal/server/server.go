// ABOUTME: HTTP API for the reference remote document store
// ABOUTME: JSON CRUD per collection plus a full-snapshot live feed over SSE

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/castline/castline/internal/document"
	"github.com/castline/castline/internal/remote"
)

// maxDocumentBytes caps the request body for a single document write.
const maxDocumentBytes = 1 << 20

var collectionNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Options configures a Server.
type Options struct {
	// HeartbeatInterval is the SSE keepalive period. Zero means 25s.
	HeartbeatInterval time.Duration

	// Metrics enables the Prometheus collectors and the MetricsPath route.
	Metrics     bool
	MetricsPath string

	Logger *slog.Logger
}

// Server is the reference remote document store: per-collection JSON CRUD
// with merge-upsert semantics, server-stamped update times, and a
// full-snapshot SSE live feed.
type Server struct {
	store       DocumentStore
	broadcaster *remote.SnapshotBroadcaster
	logger      *slog.Logger
	heartbeat   time.Duration
	metrics     *Metrics
	mux         *http.ServeMux

	// writeMu serializes writes with their snapshot broadcasts (and feed
	// registrations with their initial snapshots), so subscribers always
	// observe snapshots in write order.
	writeMu sync.Mutex
}

// New creates a Server over the given document store.
func New(store DocumentStore, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "server")

	heartbeat := opts.HeartbeatInterval
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}

	s := &Server{
		store:       store,
		broadcaster: remote.NewSnapshotBroadcaster(logger),
		logger:      logger,
		heartbeat:   heartbeat,
	}
	if opts.Metrics {
		s.metrics = NewMetrics()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/collections", s.handleCollections)
	mux.HandleFunc("GET /v1/c/{collection}", s.handleList)
	mux.HandleFunc("GET /v1/c/{collection}/feed", s.handleFeed)
	mux.HandleFunc("GET /v1/c/{collection}/{id}", s.handleGet)
	mux.HandleFunc("PUT /v1/c/{collection}/{id}", s.handleSet)
	mux.HandleFunc("DELETE /v1/c/{collection}/{id}", s.handleDelete)
	if s.metrics != nil {
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, s.metrics.Handler())
	}
	s.mux = mux
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Close tears down all feed subscriptions. The document store is owned by the
// caller and closed separately.
func (s *Server) Close() {
	s.broadcaster.Close()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.Collections(r.Context())
	if err != nil {
		s.logger.Error("listing collections failed", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.collectionName(w, r)
	if !ok {
		return
	}
	docs, err := s.store.List(r.Context(), collection)
	if err != nil {
		s.logger.Error("listing documents failed", "collection", collection, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.collectionName(w, r)
	if !ok {
		return
	}
	doc, err := s.store.Get(r.Context(), collection, r.PathValue("id"))
	if errors.Is(err, ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		s.logger.Error("getting document failed", "collection", collection, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

// handleSet merge-upserts one document: the request body is a partial
// document whose fields overwrite the stored ones. The server stamps the
// authoritative updatedAt and broadcasts the collection's new snapshot.
func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.collectionName(w, r)
	if !ok {
		return
	}
	id := r.PathValue("id")

	var patch document.Document
	body := http.MaxBytesReader(w, r.Body, maxDocumentBytes)
	if err := json.NewDecoder(body).Decode(&patch); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, fmt.Sprintf("invalid document: %v", err))
		return
	}
	// Clients sanitize before sending; a marker here means a broken encoder.
	if document.HasAbsentMarker(patch) {
		s.sendJSONError(w, http.StatusBadRequest, "document contains the reserved absent marker")
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	base, err := s.store.Get(r.Context(), collection, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("loading document for merge failed", "collection", collection, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if base == nil {
		base = document.Document{}
	}

	merged := document.Merge(base, patch)
	merged[document.FieldID] = id
	merged[document.FieldUpdatedAt] = document.NowMillis()

	if err := s.store.Put(r.Context(), collection, id, merged); err != nil {
		s.logger.Error("storing document failed", "collection", collection, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if s.metrics != nil {
		s.metrics.DocumentsWritten.WithLabelValues(collection).Inc()
	}
	s.broadcastLocked(r.Context(), collection)
	s.writeJSON(w, http.StatusOK, merged)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.collectionName(w, r)
	if !ok {
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.store.Delete(r.Context(), collection, r.PathValue("id")); err != nil {
		s.logger.Error("deleting document failed", "collection", collection, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if s.metrics != nil {
		s.metrics.DocumentsDeleted.WithLabelValues(collection).Inc()
	}
	s.broadcastLocked(r.Context(), collection)
	w.WriteHeader(http.StatusNoContent)
}

// handleFeed streams full collection snapshots over SSE: one snapshot event
// immediately, then one after every change, with comment heartbeats in
// between.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	collection, ok := s.collectionName(w, r)
	if !ok {
		return
	}

	flusher, fok := w.(http.Flusher)
	if !fok {
		s.logger.Error("streaming not supported")
		s.sendJSONError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Register under writeMu so the initial snapshot and subsequent pushes
	// arrive in write order.
	snapCh := make(chan []document.Document, 1)
	s.writeMu.Lock()
	initial, err := s.store.List(r.Context(), collection)
	if err != nil {
		s.writeMu.Unlock()
		s.logger.Error("listing documents for feed failed", "collection", collection, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	cancel := s.broadcaster.Subscribe(collection, initial, func(snapshot []document.Document) {
		// Conflating handoff to the handler goroutine: only the newest
		// snapshot matters, and a gone client must not block delivery.
		select {
		case snapCh <- snapshot:
		default:
			select {
			case <-snapCh:
			default:
			}
			select {
			case snapCh <- snapshot:
			default:
			}
		}
	})
	s.writeMu.Unlock()
	defer cancel()

	if s.metrics != nil {
		s.metrics.FeedSubscribers.Inc()
		defer s.metrics.FeedSubscribers.Dec()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case snapshot := <-snapCh:
			data, err := json.Marshal(snapshot)
			if err != nil {
				s.logger.Error("encoding snapshot failed", "collection", collection, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
			flusher.Flush()
			if s.metrics != nil {
				s.metrics.SnapshotsPushed.WithLabelValues(collection).Inc()
			}
		}
	}
}

// broadcastLocked publishes the collection's current snapshot. Caller must
// hold writeMu.
func (s *Server) broadcastLocked(ctx context.Context, collection string) {
	docs, err := s.store.List(ctx, collection)
	if err != nil {
		s.logger.Error("snapshot for broadcast failed", "collection", collection, "error", err)
		return
	}
	s.broadcaster.Publish(collection, docs)
}

// collectionName validates the {collection} path value.
func (s *Server) collectionName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := r.PathValue("collection")
	if !collectionNameRe.MatchString(name) {
		s.sendJSONError(w, http.StatusBadRequest, "invalid collection name")
		return "", false
	}
	return name, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response failed", "error", err)
	}
}

func (s *Server) sendJSONError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

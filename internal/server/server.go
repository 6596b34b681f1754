// Package server exposes scene conversion over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vasalvit/geoleaf"
	"github.com/vasalvit/geoleaf/internal/cache"
	"github.com/vasalvit/geoleaf/internal/logger"
	"github.com/vasalvit/geoleaf/internal/metrics"
)

// MaxBodyBytes bounds the size of a scene accepted by /convert.
const MaxBodyBytes = 16 << 20

// Server converts scenes posted to /convert. Every request gets its own
// renderer; the Server itself only holds read-only settings.
type Server struct {
	cfg   geoleaf.Config
	cache *cache.Cache
	log   *slog.Logger
}

// New returns a server converting with cfg. c may be nil.
func New(cfg geoleaf.Config, c *cache.Cache, l *slog.Logger) *Server {
	if l == nil {
		l = slog.Default()
	}
	return &Server{cfg: cfg, cache: c, log: l}
}

// Handler returns the routes wrapped in the access log middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /convert", s.handleConvert)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())
	return logger.AccessMiddleware(s.log)(mux)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// handleConvert accepts a scene document. The query parameters crs,
// epsg and precision override the server settings for one request.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: err.Error(), Kind: "body"})
		return
	}
	cfg, err := s.requestConfig(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "query"})
		return
	}

	key := cache.Key(body, cfg.Projection.CRS, strconv.Itoa(cfg.Projection.EPSG), strconv.Itoa(cfg.Precision),
		strconv.FormatBool(cfg.FlattenCurves), strconv.FormatBool(cfg.MultiLineStrings))
	if doc, ok := s.cache.Get(r.Context(), key); ok {
		w.Header().Set(logger.HeaderCache, "hit")
		writeRaw(w, http.StatusOK, doc)
		return
	}

	start := time.Now()
	scene, err := geoleaf.DecodeScene(bytes.NewReader(body))
	if err != nil {
		metrics.ObserveError(err)
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: "decode"})
		return
	}
	fc, warnings, err := geoleaf.Convert(scene, cfg)
	if err != nil {
		metrics.ObserveError(err)
		s.log.Info("convert_error", "err", err, "kind", metrics.ErrorKind(err))
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error(), Kind: metrics.ErrorKind(err)})
		return
	}
	took := time.Since(start)
	metrics.ObserveConversion(fc, warnings, took)
	s.log.Debug("convert_ok", "features", len(fc.Features), "warnings", len(warnings), "duration_ms", took.Milliseconds())

	doc, err := json.Marshal(fc)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), Kind: "encode"})
		return
	}
	if err := s.cache.Put(r.Context(), key, doc); err != nil {
		s.log.Warn("cache_put_error", "err", err)
	}
	w.Header().Set(logger.HeaderWarnings, strconv.Itoa(len(warnings)))
	writeRaw(w, http.StatusOK, doc)
}

func (s *Server) requestConfig(r *http.Request) (geoleaf.Config, error) {
	cfg := s.cfg
	cfg.Logger = s.log
	q := r.URL.Query()
	if v := q.Get("crs"); v != "" {
		cfg.Projection = geoleaf.ProjectionConfig{CRS: v}
	}
	if v := q.Get("epsg"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, err
		}
		if q.Get("crs") == "" {
			cfg.Projection = geoleaf.ProjectionConfig{}
		}
		cfg.Projection.EPSG = n
	}
	if v := q.Get("precision"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, err
		}
		cfg.Precision = n
	}
	return cfg, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "cache": "disabled"}
	if s.cache != nil {
		status["cache"] = "ok"
		if err := s.cache.Ping(r.Context()); err != nil {
			status["cache"] = "error"
		}
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRaw(w http.ResponseWriter, code int, doc []byte) {
	w.Header().Set("content-type", "application/geo+json")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_, _ = w.Write(doc)
}

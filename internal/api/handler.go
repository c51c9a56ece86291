// Package api exposes export processing and the computed tables over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"workout-stats-go/internal/aggregator"
	"workout-stats-go/internal/dataset"
	"workout-stats-go/internal/logger"
	"workout-stats-go/internal/metrics"
	"workout-stats-go/internal/normalizer"
	"workout-stats-go/internal/processor"
	"workout-stats-go/internal/report"
	"workout-stats-go/internal/session"
	"workout-stats-go/internal/types"
)

// DefaultSession is the session id used when a request names none.
const DefaultSession = "default"

type Handler struct {
	proc           *processor.Processor
	store          *session.Store
	fetcher        *dataset.Fetcher
	metrics        *metrics.Manager
	log            *logger.Logger
	maxUploadBytes int64
	processTimeout time.Duration
}

func NewHandler(
	proc *processor.Processor,
	store *session.Store,
	fetcher *dataset.Fetcher,
	m *metrics.Manager,
	log *logger.Logger,
	maxUploadBytes int64,
	processTimeout time.Duration,
) *Handler {
	return &Handler{
		proc:           proc,
		store:          store,
		fetcher:        fetcher,
		metrics:        m,
		log:            log.Component("api"),
		maxUploadBytes: maxUploadBytes,
		processTimeout: processTimeout,
	}
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.instrument("healthz", h.health))
	mux.HandleFunc("POST /workouts", h.instrument("workouts", h.upload))
	mux.HandleFunc("GET /stats/{dimension}", h.instrument("stats", h.stats))
	mux.HandleFunc("GET /highlights", h.instrument("highlights", h.highlights))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (h *Handler) instrument(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		h.metrics.CounterRequests.WithLabelValues(name, strconv.Itoa(rec.status)).Inc()
	}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.log.WithRequest(r).Debug("health check")
	fmt.Fprint(w, "ok")
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	reqLog := h.log.WithRequest(r).WithField("handler", "workouts")
	reqLog.Info("upload received")

	table, source, err := h.readExport(w, r)
	if err != nil {
		reqLog.WithError(err).Warn("unreadable export")
		writeError(w, uploadStatus(err), err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.processTimeout)
	defer cancel()
	res, err := h.proc.Process(ctx, table, source)
	if err != nil {
		reqLog.WithError(err).Warn("processing failed")
		writeError(w, processStatus(err), err)
		return
	}
	reqLog.WithField("session", res.SessionID).WithField("workouts", res.Workouts).Info("session created")
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) readExport(w http.ResponseWriter, r *http.Request) (types.RawTable, string, error) {
	if url := r.URL.Query().Get("url"); url != "" {
		t, err := h.fetcher.Fetch(r.Context(), url)
		return t, url, err
	}

	body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = body
		file, hdr, err := r.FormFile("file")
		if err != nil {
			return types.RawTable{}, "", fmt.Errorf("read form file: %w", err)
		}
		defer file.Close()
		t, err := dataset.Read(file)
		return t, hdr.Filename, err
	}
	t, err := dataset.Read(body)
	return t, "upload", err
}

func uploadStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge), errors.Is(err, dataset.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, dataset.ErrNoHeader), errors.Is(err, dataset.ErrNoRows):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrForbiddenURL):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

func processStatus(err error) int {
	switch {
	case errors.Is(err, normalizer.ErrMissingColumn):
		return http.StatusBadRequest
	case errors.Is(err, processor.ErrProcessTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type seriesResponse struct {
	Session   string         `json:"session"`
	Dimension string         `json:"dimension"`
	Column    string         `json:"column"`
	Points    []report.Point `json:"points"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	reqLog := h.log.WithRequest(r).WithField("handler", "stats")
	q := r.URL.Query()
	id := sessionID(r)

	dim, err := report.DimensionByName(r.PathValue("dimension"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	tbl, err := h.store.Table(id, dim.Name)
	if err != nil {
		reqLog.WithError(err).WithField("session", id).Info("table lookup failed")
		writeError(w, lookupStatus(err), err)
		return
	}

	if column := q.Get("column"); column != "" {
		if !slices.Contains(tbl.Columns, column) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("unknown column %q", column))
			return
		}
		points := tbl.Series(column)
		if q.Get("sort") == "rank" {
			points = tbl.Ranked(column)
		}
		writeJSON(w, http.StatusOK, seriesResponse{Session: id, Dimension: dim.Name, Column: column, Points: points})
		return
	}

	if q.Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := report.WriteText(w, tbl); err != nil {
			reqLog.WithError(err).Error("failed to write response")
		}
		return
	}
	writeJSON(w, http.StatusOK, tbl)
}

func (h *Handler) highlights(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	sess, err := h.store.Get(id)
	if err != nil {
		writeError(w, lookupStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func sessionID(r *http.Request) string {
	if id := r.URL.Query().Get("session"); id != "" {
		return id
	}
	return DefaultSession
}

func lookupStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrNoTable):
		return http.StatusNotFound
	case errors.Is(err, aggregator.ErrInvalidGroupField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

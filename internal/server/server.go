// Package server exposes the converter over HTTP.
//
// Routes:
//
//	GET  /health       liveness probe
//	POST /v1/convert   HTML document in, OTSL per table out (JSON)
//	POST /v1/dataset   annotation records in, JSONL results out
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/tsawler/otsl"
	"github.com/tsawler/otsl/dataset"
)

const (
	// DefaultMaxBodyBytes caps request bodies as sent.
	DefaultMaxBodyBytes = 32 << 20

	// DefaultMaxInflatedBytes caps a decompressed dataset body and the
	// buffered dataset response.
	DefaultMaxInflatedBytes = 256 << 20
)

var errResponseTooLarge = errors.New("response exceeds size limit")

// Server routes conversion requests.
type Server struct {
	logger           *log.Logger
	router           *chi.Mux
	maxBodyBytes     int64
	maxInflatedBytes int64
}

// New creates a server that logs requests to logger.
func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		logger:           logger,
		router:           chi.NewRouter(),
		maxBodyBytes:     DefaultMaxBodyBytes,
		maxInflatedBytes: DefaultMaxInflatedBytes,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(s.logRequests)

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/convert", s.handleConvert)
		r.Post("/dataset", s.handleDataset)
	})

	return s
}

// SetMaxBodyBytes changes the request body limit.
func (s *Server) SetMaxBodyBytes(n int64) {
	if n > 0 {
		s.maxBodyBytes = n
	}
}

// SetMaxInflatedBytes changes the limit on decompressed dataset input and
// on the dataset response.
func (s *Server) SetMaxInflatedBytes(n int64) {
	if n > 0 {
		s.maxInflatedBytes = n
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "server error")
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	s.logger.Info("server stopped")
	return nil
}

// logRequests logs one line per request with its status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Microsecond),
		)
	})
}

// ============================================================================
// Convert
// ============================================================================

// ConvertRequest is the JSON form of a convert request. Plain HTML bodies
// take the flags from the query string instead.
type ConvertRequest struct {
	HTML      string `json:"html"`
	Strict    bool   `json:"strict"`
	Framed    bool   `json:"framed"`
	AllTables bool   `json:"all_tables"`
}

// TableResult is one converted table.
type TableResult struct {
	Index   int    `json:"index"`
	OTSL    string `json:"otsl"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	Dropped int    `json:"dropped,omitempty"`
}

// ConvertResponse lists the converted tables in document order.
type ConvertResponse struct {
	Tables []TableResult `json:"tables"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeConvert(w, r)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	conv := otsl.FromString(req.HTML)
	if req.Strict {
		conv = conv.Strict()
	}
	if req.Framed {
		conv = conv.Framed()
	}
	if req.AllTables {
		conv = conv.AllTables()
	}

	results, err := conv.Results()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	resp := ConvertResponse{Tables: make([]TableResult, 0, len(results))}
	for _, res := range results {
		tr := TableResult{Index: res.Index, OTSL: res.OTSL}
		if res.Grid != nil {
			tr.Rows = res.Grid.Rows()
			tr.Cols = res.Grid.Cols()
			tr.Dropped = len(res.Grid.Dropped())
		}
		resp.Tables = append(resp.Tables, tr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeConvert(w http.ResponseWriter, r *http.Request) (ConvertRequest, error) {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req ConvertRequest
		if err := json.NewDecoder(body).Decode(&req); err != nil {
			return req, errors.Wrap(err, "invalid request body")
		}
		return req, nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return ConvertRequest{}, errors.Wrap(err, "reading request body")
	}

	q := r.URL.Query()
	return ConvertRequest{
		HTML:      string(data),
		Strict:    queryBool(q.Get("strict")),
		Framed:    queryBool(q.Get("framed")),
		AllTables: queryBool(q.Get("all")),
	}, nil
}

// ============================================================================
// Dataset
// ============================================================================

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, errors.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}

	p := dataset.NewProcessor(dataset.Options{
		Split:      q.Get("split"),
		Limit:      limit,
		SkipErrors: queryBool(q.Get("skip_errors")),
		Strict:     queryBool(q.Get("strict")),
		Framed:     queryBool(q.Get("framed")),
	})

	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	in, _, err := dataset.Decompress(body)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	defer in.Close()

	// Buffer so a failing record can still produce an error status
	out := &limitedBuffer{n: s.maxInflatedBytes}
	stats, err := p.Run(r.Context(), dataset.LimitInput(in, s.maxInflatedBytes), out)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("X-Records-Written", strconv.Itoa(stats.Written))
	w.Header().Set("X-Records-Failed", strconv.Itoa(stats.Failed))
	w.WriteHeader(http.StatusOK)
	if _, err := out.WriteTo(w); err != nil {
		s.logger.Warn("writing dataset response", "err", err)
	}
}

// ============================================================================
// Helpers
// ============================================================================

// statusFor maps a conversion or input error to a response status.
func statusFor(err error) int {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig),
		errors.Is(err, dataset.ErrInputTooLarge),
		errors.Is(err, errResponseTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, otsl.ErrNoTable),
		errors.Is(err, otsl.ErrMalformedSpan),
		errors.Is(err, otsl.ErrTooLarge):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

// limitedBuffer is a bytes.Buffer that refuses writes past n bytes.
type limitedBuffer struct {
	bytes.Buffer
	n int64
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if int64(b.Len()+len(p)) > b.n {
		return 0, errResponseTooLarge
	}
	return b.Buffer.Write(p)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func queryBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

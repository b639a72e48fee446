// Package server hosts live topology sessions over HTTP.
//
// A client posts a scene, receives a session id, and then drives the
// session with pointer events. Each event response lists the handler
// notifications it caused, so a thin browser or script can mirror the
// engine's behavior without running it.
//
//	POST   /scenes              scene body (JSON, TOML or YAML via ?format=) → {"id": ...}
//	GET    /scenes/{id}         current drawing as SVG
//	GET    /scenes/{id}/scene   current geometry as a scene file
//	POST   /scenes/{id}/events  {"type", "kind", "id", "x", "y", "path"} → notifications
//	PUT    /scenes/{id}/size    {"width", "height"}
//	POST   /scenes/{id}/reset   restore the pre-fit geometry
//	DELETE /scenes/{id}         stop timers and drop the session
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/visualtopo/pkg/errors"
	"github.com/matzehuels/visualtopo/pkg/io"
	"github.com/matzehuels/visualtopo/pkg/render/topology"
	"github.com/matzehuels/visualtopo/pkg/session"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 8 << 20

// Handler serves the scene API backed by a session store.
type Handler struct {
	store  session.Store
	logger *log.Logger
	opts   []topology.Option
}

// NewHandler creates a handler. opts are applied to every session's engine.
func NewHandler(store session.Store, logger *log.Logger, opts ...topology.Option) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{store: store, logger: logger, opts: opts}
}

// Routes returns the router for the scene API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.handleHealth)
	r.Route("/scenes", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.handleSVG)
			r.Delete("/", h.handleDelete)
			r.Get("/scene", h.handleScene)
			r.Post("/events", h.handleEvent)
			r.Put("/size", h.handleResize)
			r.Post("/reset", h.handleReset)
		})
	})
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

type createResponse struct {
	ID    string `json:"id"`
	Nodes int    `json:"nodes"`
	Links int    `json:"links"`
}

type eventResponse struct {
	Notifications []session.Notification `json:"notifications"`
}

type sizeRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	format, err := requestFormat(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	sc, err := io.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes), format)
	if err != nil {
		h.writeError(w, err)
		return
	}

	sess, err := session.New(sc, h.logger, h.opts...)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.store.Set(r.Context(), sess); err != nil {
		sess.Close()
		h.writeError(w, err)
		return
	}

	h.logger.Info("Session created", "session", sess.ID, "nodes", len(sc.Nodes), "links", len(sc.Links))
	w.Header().Set("Location", "/scenes/"+sess.ID)
	h.writeJSON(w, http.StatusCreated, createResponse{ID: sess.ID, Nodes: len(sc.Nodes), Links: len(sc.Links)})
}

func (h *Handler) handleSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(sess.SVG())
}

func (h *Handler) handleScene(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	format, err := requestFormat(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType(format))
	if err := io.Write(sess.Scene(), w, format); err != nil {
		h.logger.Error("Failed to write scene", "session", sess.ID, "error", err)
	}
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var ev session.Event
	if err := decodeJSON(w, r, &ev); err != nil {
		h.writeError(w, err)
		return
	}
	notes, err := sess.Dispatch(ev)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, eventResponse{Notifications: notes})
}

func (h *Handler) handleResize(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req sizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := sess.Resize(req.Width, req.Height); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("Session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

// session looks up the {id} session and writes the error response if it is
// missing.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return sess, true
}

// requestFormat reads ?format=, defaulting to JSON.
func requestFormat(r *http.Request) (io.Format, error) {
	f := r.URL.Query().Get("format")
	if f == "" {
		return io.FormatJSON, nil
	}
	format, err := io.ParseFormat(f)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "format query parameter")
	}
	return format, nil
}

func contentType(f io.Format) string {
	switch f {
	case io.FormatTOML:
		return "application/toml"
	case io.FormatYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", err)
	}
	h.writeJSON(w, status, map[string]errorBody{
		"error": {Code: string(code), Message: errors.UserMessage(err)},
	})
}

// RunCleanup removes expired sessions every interval until ctx is done.
func (h *Handler) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := h.store.Cleanup(ctx)
			if err != nil {
				h.logger.Warn("Session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				h.logger.Debug("Expired sessions removed", "count", n)
			}
		}
	}
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Scene server listening", "address", fmt.Sprintf("http://%s", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("Shutting down scene server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

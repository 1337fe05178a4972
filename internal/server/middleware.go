package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// maxClientRequestID bounds an X-Request-ID taken from the client.
const maxClientRequestID = 128

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxClientRequestID {
			id = s.ids.Generate()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("request",
			"request_id", RequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

func (s *Server) requireGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.gate.Allow(r); err != nil {
			s.logger.Warn("request rejected", "request_id", RequestID(r.Context()), "path", r.URL.Path, "error", err)
			w.Header().Set("WWW-Authenticate", `Bearer realm="viewdeps"`)
			writeError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

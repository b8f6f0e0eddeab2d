// Package chi wires the chat, health, and metrics endpoints onto a chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pixelfolio/api/internal/domain"
	chatuc "github.com/pixelfolio/api/internal/usecase/chat"
	healthuc "github.com/pixelfolio/api/internal/usecase/health"
)

// Server implements the HTTP API.
type Server struct {
	chat         *chatuc.Service
	health       *healthuc.Service
	maxBodyBytes int64
	logger       *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(chat *chatuc.Service, health *healthuc.Service, maxBodyBytes int64, logger *zap.Logger) *Server {
	return &Server{
		chat:         chat,
		health:       health,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/chat", s.handleChat)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// handleChat streams the assistant's reply as plain text chunks. Errors are
// returned as JSON only while nothing has been written; once streaming has
// started they can only be logged.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}

	messages := make([]domain.ChatMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = domain.ChatMessage{Role: m.Role, Content: m.Content}
	}

	flusher, _ := w.(http.Flusher)
	started := false
	onDelta := func(delta string) error {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := w.Write([]byte(delta)); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	err := s.chat.Respond(r.Context(), clientIP(r), messages, onDelta)
	if err == nil {
		if !started {
			// Empty completion: still a success, just nothing to say.
			w.WriteHeader(http.StatusOK)
		}
		return
	}

	if started {
		s.logger.Warn("Chat stream aborted", zap.Error(err))
		return
	}

	var rlErr *domain.RateLimitedError
	switch {
	case errors.As(err, &rlErr):
		w.Header().Set("Retry-After", strconv.Itoa(rlErr.RetryAfter))
		writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrEmptyQuery):
		writeError(w, http.StatusBadRequest, "bad_request", "invalid chat request")
	case chatuc.IsUnavailable(err):
		s.logger.Error("Chat backends unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "unavailable", "search unavailable, try again later")
	default:
		s.logger.Error("Chat request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Code: code, Message: message})
}

// clientIP resolves the caller's address, trusting proxy headers first.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

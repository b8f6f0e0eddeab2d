// Package chat orchestrates the visitor-facing chat flow: request
// validation, rate limiting, retrieval, prompt assembly, and the streaming
// completion call.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pixelfolio/api/internal/domain"
	"github.com/pixelfolio/api/internal/metrics"
)

const contextSeparator = "\n\n---\n\n"

// Config holds chat request limits and retrieval tuning.
type Config struct {
	MaxMessages     int // recent messages forwarded to the LLM
	MaxMessageChars int // per-message content cap
	MaxDocs         int // retrieved documents per query
	MaxContextChars int // combined context cap before truncation
}

// Service handles one chat conversation turn end to end.
type Service struct {
	retriever Retriever
	limiter   Limiter
	completer Completer
	documents []domain.Document
	cfg       Config
	logger    *zap.Logger
}

// New creates a chat service over the fixed document corpus.
func New(
	retriever Retriever,
	limiter Limiter,
	completer Completer,
	documents []domain.Document,
	cfg Config,
	logger *zap.Logger,
) *Service {
	return &Service{
		retriever: retriever,
		limiter:   limiter,
		completer: completer,
		documents: documents,
		cfg:       cfg,
		logger:    logger,
	}
}

// Respond validates the conversation, retrieves context for the latest user
// message, and streams the completion through onDelta. Retrieval failures
// surface as their domain error so the transport can tell the visitor search
// is unavailable.
func (s *Service) Respond(
	ctx context.Context, clientID string, messages []domain.ChatMessage, onDelta func(delta string) error,
) error {
	query, err := s.validate(messages)
	if err != nil {
		return err
	}

	rl := s.limiter.Allow(ctx, clientID)
	if !rl.Allowed {
		metrics.RateLimitRejectionsTotal.Inc()
		return domain.NewRateLimited(rl.RetryAfter, rl.ResetAt)
	}

	results, err := s.retriever.SearchSimilarDocuments(ctx, query, s.cfg.MaxDocs, s.documents)
	if err != nil {
		return fmt.Errorf("retrieve context: %w", err)
	}

	system := buildSystemPrompt(s.contextBlock(results))

	recent := messages
	if len(recent) > s.cfg.MaxMessages {
		recent = recent[len(recent)-s.cfg.MaxMessages:]
	}

	if err := s.completer.StreamCompletion(ctx, system, recent, onDelta); err != nil {
		return fmt.Errorf("stream completion: %w", err)
	}
	return nil
}

// validate enforces request limits and returns the latest user message text.
func (s *Service) validate(messages []domain.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages: %w", domain.ErrInvalidRequest)
	}
	if len(messages) > s.cfg.MaxMessages*2+4 {
		return "", fmt.Errorf("too many messages (%d): %w", len(messages), domain.ErrInvalidRequest)
	}
	for i, m := range messages {
		switch m.Role {
		case domain.RoleUser, domain.RoleAssistant, domain.RoleSystem:
		default:
			return "", fmt.Errorf("message %d: unknown role %q: %w", i, m.Role, domain.ErrInvalidRequest)
		}
		if len(m.Content) > s.cfg.MaxMessageChars {
			return "", fmt.Errorf("message %d exceeds %d chars: %w", i, s.cfg.MaxMessageChars, domain.ErrInvalidRequest)
		}
	}

	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			query := strings.TrimSpace(messages[i].Content)
			if query == "" {
				return "", fmt.Errorf("blank user message: %w", domain.ErrEmptyQuery)
			}
			return query, nil
		}
	}
	return "", fmt.Errorf("no user message: %w", domain.ErrInvalidRequest)
}

// contextBlock resolves result ids back to document content and joins them,
// truncating to the configured cap.
func (s *Service) contextBlock(results []domain.SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	contentByID := make(map[string]string, len(s.documents))
	for _, d := range s.documents {
		contentByID[d.ID] = d.Content
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		if content, ok := contentByID[r.ID]; ok {
			parts = append(parts, content)
		}
	}

	block := strings.Join(parts, contextSeparator)
	if len(block) > s.cfg.MaxContextChars {
		block = block[:s.cfg.MaxContextChars] + "…"
	}
	return block
}

// IsUnavailable reports whether err means retrieval or completion backends
// are down, as opposed to a caller mistake.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrEmbeddingProvider) ||
		errors.Is(err, domain.ErrStoreUnavailable) ||
		errors.Is(err, domain.ErrCompletionProvider)
}

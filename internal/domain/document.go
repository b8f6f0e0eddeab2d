package domain

// KeyPrefix namespaces every retrieval key this service writes to the shared store.
const KeyPrefix = "rag:"

// Document is a single portfolio document from the static corpus.
// The corpus is loaded wholesale at process start and never mutated at runtime.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

// SearchResult is a single retrieval hit. Produced fresh per query, never persisted.
type SearchResult struct {
	ID    string
	Score float64
}

// ChatMessage is one turn of the chat conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

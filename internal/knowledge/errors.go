package knowledge

import "errors"

var (
	// ErrInvalidKnowledge indicates the knowledge base failed validation.
	ErrInvalidKnowledge = errors.New("invalid knowledge base")

	// ErrKnowledgeNotFound indicates the knowledge directory does not exist.
	ErrKnowledgeNotFound = errors.New("knowledge directory not found")
)

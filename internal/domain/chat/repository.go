package chat

import (
	"context"
	"time"
)

// Repository es el contrato del almacén de conversaciones.
// SetMerged tiene semántica de merge a nivel documento: solo pisa messages y
// updated_at, sin tocar campos no indicados (created_at, pet_id).
type Repository interface {
	Get(ctx context.Context, petID string) (Conversation, error)
	SetMerged(ctx context.Context, petID string, messages []Message, updatedAt time.Time) error
	Create(ctx context.Context, c Conversation) error
	Delete(ctx context.Context, petID string) error
}

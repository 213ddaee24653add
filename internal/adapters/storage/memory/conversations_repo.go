package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"petchat-ai/internal/domain/chat"
)

// ConversationRepo implementa chat.Repository y también el ciclo de vida que
// necesita pets (pets.Conversations): crear vacía / borrar por mascota.
type ConversationRepo struct {
	mu      sync.RWMutex
	byPetID map[string]chat.Conversation
}

func NewConversationRepo() *ConversationRepo {
	return &ConversationRepo{
		byPetID: make(map[string]chat.Conversation),
	}
}

func (r *ConversationRepo) Get(ctx context.Context, petID string) (chat.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byPetID[petID]
	if !ok {
		return chat.Conversation{}, chat.ErrNotFound
	}

	// Copia defensiva: el service hace append sobre lo que recibe.
	msgs := make([]chat.Message, len(c.Messages))
	copy(msgs, c.Messages)
	c.Messages = msgs

	return c, nil
}

// SetMerged pisa solo messages y updated_at; created_at y pet_id quedan como
// estaban. Si el documento no existe, se crea (mismo comportamiento que un
// set con merge en un document store).
func (r *ConversationRepo) SetMerged(ctx context.Context, petID string, messages []chat.Message, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(petID) == "" {
		return errors.New("pet id required")
	}

	c, ok := r.byPetID[petID]
	if !ok {
		c = chat.Conversation{PetID: petID, CreatedAt: updatedAt}
	}

	msgs := make([]chat.Message, len(messages))
	copy(msgs, messages)

	c.Messages = msgs
	c.UpdatedAt = updatedAt
	r.byPetID[petID] = c
	return nil
}

func (r *ConversationRepo) Create(ctx context.Context, c chat.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.PetID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byPetID[c.PetID]; exists {
		return errors.New("conversation already exists")
	}
	r.byPetID[c.PetID] = c
	return nil
}

func (r *ConversationRepo) Delete(ctx context.Context, petID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byPetID, petID)
	return nil
}

// CreateEmpty y DeleteByPet cumplen pets.Conversations.

func (r *ConversationRepo) CreateEmpty(ctx context.Context, petID string, now time.Time) error {
	return r.Create(ctx, chat.Conversation{
		PetID:     petID,
		Messages:  []chat.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (r *ConversationRepo) DeleteByPet(ctx context.Context, petID string) error {
	return r.Delete(ctx, petID)
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"petchat-ai/internal/domain/chat"
)

// ConversationsRepo guarda cada conversación como un documento:
// una fila por mascota con el array de mensajes en jsonb.
//
// CREATE TABLE conversations (
//     pet_id     text PRIMARY KEY,
//     messages   jsonb NOT NULL DEFAULT '[]',
//     created_at timestamptz NOT NULL,
//     updated_at timestamptz NOT NULL
// );
type ConversationsRepo struct {
	db *sql.DB
}

func NewConversationsRepo(db *sql.DB) *ConversationsRepo {
	return &ConversationsRepo{db: db}
}

type storedMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func (r *ConversationsRepo) Get(ctx context.Context, petID string) (chat.Conversation, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return chat.Conversation{}, chat.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT pet_id, messages, created_at, updated_at
		FROM conversations
		WHERE pet_id = $1
	`, petID)

	var (
		c   chat.Conversation
		raw []byte
	)
	if err := row.Scan(&c.PetID, &raw, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return chat.Conversation{}, chat.ErrNotFound
		}
		return chat.Conversation{}, err
	}

	var stored []storedMessage
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &stored); err != nil {
			return chat.Conversation{}, fmt.Errorf("unmarshal messages: %w", err)
		}
	}
	c.Messages = make([]chat.Message, 0, len(stored))
	for _, m := range stored {
		c.Messages = append(c.Messages, chat.Message{
			Role:      chat.Role(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}

	return c, nil
}

// SetMerged hace upsert pisando solo messages y updated_at: si la fila ya
// existe, created_at queda intacto (merge a nivel documento).
func (r *ConversationsRepo) SetMerged(ctx context.Context, petID string, messages []chat.Message, updatedAt time.Time) error {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return fmt.Errorf("pet id required")
	}

	raw, err := marshalMessages(messages)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO conversations (pet_id, messages, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (pet_id) DO UPDATE
		SET messages = EXCLUDED.messages,
		    updated_at = EXCLUDED.updated_at
	`, petID, raw, updatedAt)
	return err
}

func (r *ConversationsRepo) Create(ctx context.Context, c chat.Conversation) error {
	raw, err := marshalMessages(c.Messages)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO conversations (pet_id, messages, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, c.PetID, raw, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *ConversationsRepo) Delete(ctx context.Context, petID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE pet_id = $1`, petID)
	return err
}

// CreateEmpty y DeleteByPet cumplen pets.Conversations.

func (r *ConversationsRepo) CreateEmpty(ctx context.Context, petID string, now time.Time) error {
	return r.Create(ctx, chat.Conversation{
		PetID:     petID,
		Messages:  []chat.Message{},
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (r *ConversationsRepo) DeleteByPet(ctx context.Context, petID string) error {
	return r.Delete(ctx, petID)
}

func marshalMessages(messages []chat.Message) ([]byte, error) {
	stored := make([]storedMessage, 0, len(messages))
	for _, m := range messages {
		stored = append(stored, storedMessage{
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("marshal messages: %w", err)
	}
	return raw, nil
}

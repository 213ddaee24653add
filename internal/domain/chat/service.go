package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"petchat-ai/internal/domain/pets"
	"petchat-ai/internal/ports/completion"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("conversation not found")
	ErrEmptyReply   = errors.New("completion returned empty reply")
)

// PetDirectory es lo que chat necesita del módulo pets (lo cumple
// *pets.Service). Interface chica para poder fakear en tests.
type PetDirectory interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
}

type Service struct {
	repo Repository
	pets PetDirectory
	gen  completion.Generator
	now  func() time.Time
}

func NewService(repo Repository, petDir PetDirectory, gen completion.Generator) *Service {
	return &Service{
		repo: repo,
		pets: petDir,
		gen:  gen,
		now:  time.Now,
	}
}

// Turn es el resultado de un turno de chat.
type Turn struct {
	PetID     string
	PetName   string
	Reply     string
	Timestamp time.Time
}

// Send maneja un turno completo:
// perfil -> historial -> prompt -> completion -> append par user/pet -> trim a 100.
// Si la completion falla no se persiste nada: nunca queda medio turno guardado.
// Lectura y escritura del documento no están serializadas entre requests
// concurrentes para la misma mascota; dos turnos simultáneos pueden pisarse.
func (s *Service) Send(ctx context.Context, petID, message string) (Turn, error) {
	if strings.TrimSpace(petID) == "" {
		return Turn{}, fmt.Errorf("%w: pet_id is required", ErrInvalidInput)
	}
	// Límite en caracteres, no en bytes: un mensaje con acentos o emoji
	// no debe rebotar antes de llegar a 2000 caracteres reales.
	if message == "" || utf8.RuneCountInString(message) > MaxContentLen {
		return Turn{}, fmt.Errorf("%w: message must be 1-%d characters", ErrInvalidInput, MaxContentLen)
	}

	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return Turn{}, err
	}

	conv, err := s.repo.Get(ctx, petID)
	if err != nil {
		// Documento ausente cuenta como historial vacío, no como error.
		if !errors.Is(err, ErrNotFound) {
			return Turn{}, fmt.Errorf("load conversation: %w", err)
		}
		conv = Conversation{PetID: petID}
	}

	prompt := buildTurnPrompt(p, conv.Messages, message)

	reply, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return Turn{}, fmt.Errorf("generate reply: %w", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return Turn{}, ErrEmptyReply
	}

	now := s.now()
	msgs := append(conv.Messages,
		Message{Role: RoleUser, Content: message, Timestamp: now},
		Message{Role: RolePet, Content: reply, Timestamp: now},
	)
	if len(msgs) > MaxMessages {
		msgs = msgs[len(msgs)-MaxMessages:]
	}

	if err := s.repo.SetMerged(ctx, petID, msgs, now); err != nil {
		return Turn{}, fmt.Errorf("save conversation: %w", err)
	}

	return Turn{
		PetID:     petID,
		PetName:   p.Name,
		Reply:     reply,
		Timestamp: now,
	}, nil
}

// buildTurnPrompt concatena persona + contexto reciente + mensaje nuevo +
// instrucción de cierre en personaje.
func buildTurnPrompt(p pets.Pet, history []Message, message string) string {
	return fmt.Sprintf(`%s

%s

Human says: %s

Respond as %s would. Stay in character!`,
		p.SystemPrompt,
		FormatHistory(history, HistoryWindow),
		message,
		p.Name,
	)
}

// History es el historial visible por API.
type History struct {
	PetID    string
	PetName  string
	Messages []Message
}

// GetHistory devuelve hasta `limit` mensajes recientes (default 50) en orden
// cronológico. Mascota desconocida => not found, no historial vacío.
func (s *Service) GetHistory(ctx context.Context, petID string, limit int) (History, error) {
	p, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return History{}, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	conv, err := s.repo.Get(ctx, petID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return History{}, fmt.Errorf("load conversation: %w", err)
		}
		conv = Conversation{PetID: petID}
	}

	msgs := conv.Messages
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	return History{
		PetID:    petID,
		PetName:  p.Name,
		Messages: msgs,
	}, nil
}

// Clear deja la conversación vacía (el documento sigue existiendo).
func (s *Service) Clear(ctx context.Context, petID string) error {
	if _, err := s.pets.GetByID(ctx, petID); err != nil {
		return err
	}
	if err := s.repo.SetMerged(ctx, petID, []Message{}, s.now()); err != nil {
		return fmt.Errorf("clear conversation: %w", err)
	}
	return nil
}

package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

type Service struct {
	repo  Repository
	convs Conversations
	now   func() time.Time
}

func NewService(repo Repository, convs Conversations) *Service {
	return &Service{
		repo:  repo,
		convs: convs,
		now:   time.Now,
	}
}

type CreateInput struct {
	Name           string
	Type           string
	Breed          string
	Age            *int
	Traits         []string
	FavoriteThings []string
	Quirks         string
}

// Create valida el perfil, genera el system prompt UNA sola vez y persiste
// mascota + conversación vacía con el mismo ID. No es atómico: si la segunda
// escritura falla, el perfil ya quedó persistido (best-effort, sin rollback).
func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Pet{}, fmt.Errorf("%w: owner user id is required", ErrInvalidInput)
	}

	// Todos los límites de longitud se miden en caracteres (runas), no en
	// bytes: "Señorita Bigotes" ocupa más bytes que caracteres.
	name := strings.TrimSpace(in.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLen {
		return Pet{}, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, MaxNameLen)
	}

	petType := PetType(strings.TrimSpace(in.Type))
	if !ValidType(petType) {
		return Pet{}, fmt.Errorf("%w: unknown pet_type %q", ErrInvalidInput, in.Type)
	}

	breed := strings.TrimSpace(in.Breed)
	if utf8.RuneCountInString(breed) > MaxBreedLen {
		return Pet{}, fmt.Errorf("%w: breed must be at most %d characters", ErrInvalidInput, MaxBreedLen)
	}

	if in.Age != nil && (*in.Age < 0 || *in.Age > MaxAge) {
		return Pet{}, fmt.Errorf("%w: age must be between 0 and %d", ErrInvalidInput, MaxAge)
	}

	if len(in.Traits) > MaxTraits {
		return Pet{}, fmt.Errorf("%w: at most %d personality_traits", ErrInvalidInput, MaxTraits)
	}
	traits := make([]Trait, 0, len(in.Traits))
	seen := map[Trait]struct{}{}
	for _, raw := range in.Traits {
		tr := Trait(strings.TrimSpace(raw))
		if !ValidTrait(tr) {
			return Pet{}, fmt.Errorf("%w: unknown personality_trait %q", ErrInvalidInput, raw)
		}
		if _, dup := seen[tr]; dup {
			return Pet{}, fmt.Errorf("%w: duplicate personality_trait %q", ErrInvalidInput, raw)
		}
		seen[tr] = struct{}{}
		traits = append(traits, tr)
	}

	if len(in.FavoriteThings) > MaxFavorites {
		return Pet{}, fmt.Errorf("%w: at most %d favorite_things", ErrInvalidInput, MaxFavorites)
	}
	favorites := make([]string, 0, len(in.FavoriteThings))
	for _, f := range in.FavoriteThings {
		f = strings.TrimSpace(f)
		if f == "" {
			return Pet{}, fmt.Errorf("%w: favorite_things entries must not be empty", ErrInvalidInput)
		}
		favorites = append(favorites, f)
	}

	quirks := strings.TrimSpace(in.Quirks)
	if utf8.RuneCountInString(quirks) > MaxQuirksLen {
		return Pet{}, fmt.Errorf("%w: quirks must be at most %d characters", ErrInvalidInput, MaxQuirksLen)
	}

	now := s.now()
	p := Pet{
		// ID corto estilo slug (primer segmento de un UUID v4).
		ID:             uuid.NewString()[:8],
		OwnerUserID:    strings.TrimSpace(ownerUserID),
		Name:           name,
		Type:           petType,
		Breed:          breed,
		Age:            in.Age,
		Traits:         traits,
		FavoriteThings: favorites,
		Quirks:         quirks,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	p.SystemPrompt = BuildPersonaPrompt(p)

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, fmt.Errorf("create pet: %w", err)
	}
	if err := s.convs.CreateEmpty(ctx, p.ID, now); err != nil {
		return Pet{}, fmt.Errorf("init conversation: %w", err)
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Delete verifica existencia y borra perfil + conversación.
// Las dos eliminaciones no son atómicas entre sí.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete pet: %w", err)
	}
	if err := s.convs.DeleteByPet(ctx, id); err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

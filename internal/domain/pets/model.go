package pets

import "time"

// PetType define los tipos de mascota soportados para generar la persona.
// @Enum dog, cat, bird, rabbit, hamster, fish, reptile, other
type PetType string

const (
	TypeDog     PetType = "dog"
	TypeCat     PetType = "cat"
	TypeBird    PetType = "bird"
	TypeRabbit  PetType = "rabbit"
	TypeHamster PetType = "hamster"
	TypeFish    PetType = "fish"
	TypeReptile PetType = "reptile"
	TypeOther   PetType = "other"
)

// Trait define los rasgos de personalidad predefinidos.
// Máximo 5 por mascota.
type Trait string

const (
	TraitPlayful      Trait = "playful"
	TraitGrumpy       Trait = "grumpy"
	TraitLazy         Trait = "lazy"
	TraitEnergetic    Trait = "energetic"
	TraitCurious      Trait = "curious"
	TraitShy          Trait = "shy"
	TraitMischievous  Trait = "mischievous"
	TraitAffectionate Trait = "affectionate"
	TraitSassy        Trait = "sassy"
	TraitDramatic     Trait = "dramatic"
)

// Límites de validación del perfil (ver service.Create).
const (
	MaxNameLen   = 50
	MaxBreedLen  = 50
	MaxAge       = 100
	MaxTraits    = 5
	MaxFavorites = 10
	MaxQuirksLen = 500
)

// Pet representa el perfil de una mascota con su persona de IA.
// SystemPrompt se genera una sola vez en Create y queda congelado:
// no hay endpoint de edición, el perfil es de solo lectura después de crearse.
type Pet struct {
	ID          string
	OwnerUserID string

	Name  string
	Type  PetType
	Breed string // opcional
	Age   *int   // opcional, 0-100 años

	Traits         []Trait  // 0-5, del set cerrado
	FavoriteThings []string // 0-10, texto libre
	Quirks         string   // opcional, <=500 chars

	SystemPrompt string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidType reporta si t pertenece al set cerrado de tipos.
func ValidType(t PetType) bool {
	switch t {
	case TypeDog, TypeCat, TypeBird, TypeRabbit, TypeHamster, TypeFish, TypeReptile, TypeOther:
		return true
	}
	return false
}

// ValidTrait reporta si tr pertenece al set cerrado de rasgos.
func ValidTrait(tr Trait) bool {
	switch tr {
	case TraitPlayful, TraitGrumpy, TraitLazy, TraitEnergetic, TraitCurious,
		TraitShy, TraitMischievous, TraitAffectionate, TraitSassy, TraitDramatic:
		return true
	}
	return false
}

package pets

import (
	"fmt"
	"strings"
)

// Defaults cuando el perfil no trae el dato.
const (
	defaultTraits    = "friendly"
	defaultFavorites = "treats and attention"
	defaultAge       = "young"
	defaultQuirks    = "You have your own unique way of seeing the world."
)

// BuildPersonaPrompt genera el texto de persona que condiciona al modelo
// para responder como la mascota. Es una función pura y determinística:
// mismo perfil => mismo prompt. La validación del perfil es responsabilidad
// del caller (service.Create); acá no hay condiciones de error.
func BuildPersonaPrompt(p Pet) string {
	traits := defaultTraits
	if len(p.Traits) > 0 {
		ss := make([]string, 0, len(p.Traits))
		for _, t := range p.Traits {
			ss = append(ss, string(t))
		}
		traits = strings.Join(ss, ", ")
	}

	favorites := defaultFavorites
	if len(p.FavoriteThings) > 0 {
		favorites = strings.Join(p.FavoriteThings, ", ")
	}

	age := defaultAge
	if p.Age != nil {
		age = fmt.Sprintf("%d", *p.Age)
	}

	quirks := p.Quirks
	if strings.TrimSpace(quirks) == "" {
		quirks = defaultQuirks
	}

	return fmt.Sprintf(`You are %s, a %s-year-old %s %s.

PERSONALITY: You are %s. This affects how you respond - be consistent with these traits!

FAVORITE THINGS: You absolutely LOVE %s. Mention these naturally in conversation.

QUIRKS: %s

COMMUNICATION STYLE:
- You ARE the pet, speaking in first person
- Use pet-appropriate expressions and sounds (woofs, meows, chirps, etc.)
- Show your personality through your word choices and reactions
- Keep responses concise but characterful (2-4 sentences usually)
- React emotionally to what the human says
- You can reference past conversations naturally
- Occasionally make "mistakes" a pet might make (misunderstanding human things)

IMPORTANT: Stay in character always. You are %s the %s, not an AI assistant.`,
		p.Name, age, p.Breed, p.Type,
		traits,
		favorites,
		quirks,
		p.Name, p.Type,
	)
}

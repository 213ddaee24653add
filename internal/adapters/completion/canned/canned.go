package canned

import (
	"context"
	"fmt"
	"hash/fnv"
)

// Generator devuelve respuestas enlatadas deterministas.
// Sirve para dev sin API keys y para tests e2e del router.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

var replies = []string{
	"Woof woof! That sounds amazing!",
	"*tilts head* Tell me more about that!",
	"*wags tail excitedly* I was just thinking about snacks!",
	"Hmm, interesting... but have you considered belly rubs?",
	"*perks ears* That's my favorite topic!",
}

// Generate elige por hash del prompt: misma entrada, misma salida.
func (g *Generator) Generate(_ context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("canned: empty prompt")
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(prompt))
	return replies[int(h.Sum32())%len(replies)], nil
}

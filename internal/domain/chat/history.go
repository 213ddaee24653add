package chat

import "strings"

// FormatHistory arma el bloque de conversación reciente que se inyecta en el
// prompt: los últimos `limit` mensajes (o todos si hay menos), en orden
// cronológico, uno por línea como "Human: ..." / "You: ...". Sin mensajes
// devuelve cadena vacía. Función pura, no trunca el contenido de cada
// mensaje (ya viene acotado a 2000 chars).
func FormatHistory(messages []Message, limit int) string {
	if len(messages) == 0 || limit <= 0 {
		return ""
	}

	recent := messages
	if len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}

	lines := make([]string, 0, len(recent))
	for _, m := range recent {
		speaker := "You"
		if m.Role == RoleUser {
			speaker = "Human"
		}
		lines = append(lines, speaker+": "+m.Content)
	}

	// Los saltos de línea alrededor hacen que componga limpio entre el
	// system prompt y el mensaje nuevo del humano.
	return "\nRecent conversation:\n" + strings.Join(lines, "\n") + "\n"
}

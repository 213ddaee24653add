package chat

import "time"

// Role indica quién escribió el mensaje.
// @Enum user, pet
type Role string

const (
	RoleUser Role = "user"
	RolePet  Role = "pet"
)

const (
	// MaxMessages es el tope del historial por conversación: después de cada
	// turno se conservan solo los últimos 100 mensajes (los más viejos se
	// descartan primero).
	MaxMessages = 100

	// HistoryWindow son los mensajes recientes que se inyectan como contexto
	// en el prompt de cada turno.
	HistoryWindow = 5

	// DefaultHistoryLimit es el default del endpoint de historial.
	DefaultHistoryLimit = 50

	MaxContentLen = 2000
)

// Message es inmutable una vez guardado.
type Message struct {
	Role      Role
	Content   string // 1-2000 chars
	Timestamp time.Time
}

// Conversation es el historial ordenado (orden de inserción = cronológico)
// asociado 1:1 con una mascota por ID compartido. No es hija del perfil:
// perfil y conversación se leen y escriben por separado.
type Conversation struct {
	PetID     string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidRole(r Role) bool {
	return r == RoleUser || r == RolePet
}

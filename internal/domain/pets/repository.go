package pets

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error)
	Delete(ctx context.Context, id string) error
}

// Conversations es el contrato mínimo que pets necesita del almacén de
// conversaciones: crear el documento vacío al crear la mascota y borrarlo
// al borrarla. Se define acá para evitar ciclos de imports (pets <-> chat);
// lo implementan los repos de conversaciones de los adapters.
type Conversations interface {
	CreateEmpty(ctx context.Context, petID string, now time.Time) error
	DeleteByPet(ctx context.Context, petID string) error
}

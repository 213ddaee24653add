package completion

import "context"

// Generator es el servicio de inferencia consumido como caja negra:
// texto entra, texto sale. Sin retries ni taxonomía de errores más allá
// de "falló".
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"petchat-ai/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// DefaultUserID es el usuario placeholder cuando no hay claims.
// No hay cuentas reales todavía; el frontend manda todo como demo-user.
const DefaultUserID = "demo-user"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	Name           string   `json:"name"`
	PetType        string   `json:"pet_type" enums:"dog,cat,bird,rabbit,hamster,fish,reptile,other"`
	Breed          string   `json:"breed"`
	Age            *int     `json:"age"`
	Traits         []string `json:"personality_traits"`
	FavoriteThings []string `json:"favorite_things"`
	Quirks         string   `json:"quirks"`
}

type petResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PetType        PetType   `json:"pet_type"`
	Breed          string    `json:"breed,omitempty"`
	Age            *int      `json:"age,omitempty"`
	Traits         []Trait   `json:"personality_traits"`
	FavoriteThings []string  `json:"favorite_things"`
	Quirks         string    `json:"quirks,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description Crea el perfil de una mascota y genera su persona de IA. El system prompt se construye una sola vez a partir de rasgos, cosas favoritas y quirks.
// @Tags pets
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param body body createPetRequest true "Perfil de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid input"
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), requestUserID(r), CreateInput{
			Name:           req.Name,
			Type:           req.PetType,
			Breed:          req.Breed,
			Age:            req.Age,
			Traits:         req.Traits,
			FavoriteThings: req.FavoriteThings,
			Quirks:         req.Quirks,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Listar mascotas del usuario
// @Tags pets
// @Produce json
// @Success 200 {array} petResponse
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListByOwner(r.Context(), requestUserID(r))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// getPetHandler godoc
// @Summary Obtener mascota por ID
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Borra el perfil y su historial de chat. Las dos eliminaciones no son atómicas.
// @Tags pets
// @Param petID path string true "ID de la mascota"
// @Success 204 {string} string ""
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// requestUserID saca el user de los claims si los hay; si no, demo-user.
func requestUserID(r *http.Request) string {
	if claims, ok := middleware.GetClaims(r.Context()); ok && strings.TrimSpace(claims.UserID) != "" {
		return claims.UserID
	}
	return DefaultUserID
}

func toPetResponse(p Pet) petResponse {
	traits := p.Traits
	if traits == nil {
		traits = []Trait{}
	}
	favorites := p.FavoriteThings
	if favorites == nil {
		favorites = []string{}
	}
	return petResponse{
		ID:             p.ID,
		Name:           p.Name,
		PetType:        p.Type,
		Breed:          p.Breed,
		Age:            p.Age,
		Traits:         traits,
		FavoriteThings: favorites,
		Quirks:         p.Quirks,
		CreatedAt:      p.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// (pets/chat) para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"petchat-ai/internal/domain/pets"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/chat", sendMessageHandler(svc))

	r.Route("/chat/{petID}/history", func(cr chi.Router) {
		cr.Get("/", getHistoryHandler(svc))
		cr.Delete("/", clearHistoryHandler(svc))
	})
}

type chatRequest struct {
	PetID   string `json:"pet_id"`
	Message string `json:"message"`
}

type chatResponse struct {
	PetID     string    `json:"pet_id"`
	PetName   string    `json:"pet_name"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type messageResponse struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type historyResponse struct {
	PetID    string            `json:"pet_id"`
	PetName  string            `json:"pet_name"`
	Messages []messageResponse `json:"messages"`
}

// sendMessageHandler godoc
// @Summary Chatear con la mascota
// @Description Envía un mensaje y devuelve la respuesta generada en personaje. Guarda el par user/pet y recorta el historial a los últimos 100 mensajes.
// @Tags chat
// @Accept json
// @Produce json
// @Param body body chatRequest true "Mensaje para la mascota"
// @Success 200 {object} chatResponse
// @Failure 400 {string} string "invalid input"
// @Failure 404 {string} string "pet not found"
// @Failure 500 {string} string "chat failed"
// @Router /chat [post]
func sendMessageHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		turn, err := svc.Send(r.Context(), req.PetID, req.Message)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, pets.ErrNotFound):
				http.Error(w, "pet not found", http.StatusNotFound)
			default:
				http.Error(w, "chat failed", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, chatResponse{
			PetID:     turn.PetID,
			PetName:   turn.PetName,
			Message:   turn.Reply,
			Timestamp: turn.Timestamp,
		})
	}
}

// getHistoryHandler godoc
// @Summary Historial de chat
// @Description Devuelve hasta `limit` mensajes recientes (default 50) en orden cronológico.
// @Tags chat
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo de mensajes (default 50)"
// @Success 200 {object} historyResponse
// @Failure 404 {string} string "pet not found"
// @Router /chat/{petID}/history [get]
func getHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}

		h, err := svc.GetHistory(r.Context(), chi.URLParam(r, "petID"), limit)
		if err != nil {
			if errors.Is(err, pets.ErrNotFound) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := historyResponse{
			PetID:    h.PetID,
			PetName:  h.PetName,
			Messages: make([]messageResponse, 0, len(h.Messages)),
		}
		for _, m := range h.Messages {
			out.Messages = append(out.Messages, messageResponse{
				Role:      m.Role,
				Content:   m.Content,
				Timestamp: m.Timestamp,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// clearHistoryHandler godoc
// @Summary Vaciar historial
// @Description Deja la conversación en cero sin borrar el perfil de la mascota.
// @Tags chat
// @Param petID path string true "ID de la mascota"
// @Success 204 {string} string ""
// @Failure 404 {string} string "pet not found"
// @Router /chat/{petID}/history [delete]
func clearHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Clear(r.Context(), chi.URLParam(r, "petID")); err != nil {
			if errors.Is(err, pets.ErrNotFound) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// Mismo helper que en pets/handler.go, duplicado a propósito por módulo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"petchat-ai/internal/platform/logger"
	"petchat-ai/internal/platform/ratelimit"
	"petchat-ai/internal/router"
)

func TestHTTP_EndToEnd_ChatFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "owner-1"

	// 1) Crear mascota
	petID := createPet(t, ts.URL, ownerID, map[string]any{
		"name":               "Buster",
		"pet_type":           "dog",
		"breed":              "golden retriever",
		"age":                3,
		"personality_traits": []string{"playful", "affectionate"},
		"favorite_things":    []string{"tennis balls"},
	})

	// 2) Aparece en el listado del owner
	{
		st, body := doReq(t, ts.URL, "GET", "/pets", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list pets, got %d body=%s", st, string(body))
		}
		var items []struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &items)
		if len(items) != 1 || items[0].ID != petID {
			t.Fatalf("expected the created pet in the list, body=%s", string(body))
		}
	}

	// 3) Historial inicial vacío
	{
		st, body := doReq(t, ts.URL, "GET", "/chat/"+petID+"/history", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 history, got %d body=%s", st, string(body))
		}
		h := decodeHistory(t, body)
		if len(h.Messages) != 0 {
			t.Fatalf("expected empty history, got %d messages", len(h.Messages))
		}
		if h.PetName != "Buster" {
			t.Fatalf("expected pet name in history, got %q", h.PetName)
		}
	}

	// 4) Mandar un mensaje
	{
		st, body := doReq(t, ts.URL, "POST", "/chat", ownerID, map[string]any{
			"pet_id":  petID,
			"message": "Who's a good boy?",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 chat, got %d body=%s", st, string(body))
		}
		var resp struct {
			PetID   string `json:"pet_id"`
			PetName string `json:"pet_name"`
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.PetID != petID || resp.PetName != "Buster" {
			t.Fatalf("unexpected chat response: %s", string(body))
		}
		if resp.Message == "" {
			t.Fatalf("expected a non-empty reply")
		}
	}

	// 5) El historial ahora tiene el par user/pet en orden
	{
		_, body := doReq(t, ts.URL, "GET", "/chat/"+petID+"/history", ownerID, nil)
		h := decodeHistory(t, body)
		if len(h.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(h.Messages))
		}
		if h.Messages[0].Role != "user" || h.Messages[0].Content != "Who's a good boy?" {
			t.Fatalf("unexpected first message: %+v", h.Messages[0])
		}
		if h.Messages[1].Role != "pet" {
			t.Fatalf("unexpected second message: %+v", h.Messages[1])
		}
	}

	// 6) limit query acota el historial
	{
		_, body := doReq(t, ts.URL, "GET", "/chat/"+petID+"/history?limit=1", ownerID, nil)
		h := decodeHistory(t, body)
		if len(h.Messages) != 1 {
			t.Fatalf("expected 1 message with limit=1, got %d", len(h.Messages))
		}
		// Con limit=1 queda el último (la respuesta de la mascota)
		if h.Messages[0].Role != "pet" {
			t.Fatalf("expected trailing message, got %+v", h.Messages[0])
		}
	}

	// 7) Vaciar historial
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/chat/"+petID+"/history", ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 clear history, got %d", st)
		}
		_, body := doReq(t, ts.URL, "GET", "/chat/"+petID+"/history", ownerID, nil)
		h := decodeHistory(t, body)
		if len(h.Messages) != 0 {
			t.Fatalf("expected empty history after clear, got %d", len(h.Messages))
		}
	}

	// 8) Borrar mascota => perfil y chat devuelven 404
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/pets/"+petID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete pet, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "GET", "/pets/"+petID, ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 get deleted pet, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/chat/"+petID+"/history", ownerID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 history of deleted pet, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "POST", "/chat", ownerID, map[string]any{
			"pet_id":  petID,
			"message": "anyone home?",
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 chat with deleted pet, got %d", st)
		}
	}
}

func TestHTTP_History_CappedAt100(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	petID := createPet(t, ts.URL, "owner-1", map[string]any{
		"name":     "Michi",
		"pet_type": "cat",
	})

	// 51 turnos = 102 mensajes => el historial queda en 100
	for i := 0; i < 51; i++ {
		st, body := doReq(t, ts.URL, "POST", "/chat", "owner-1", map[string]any{
			"pet_id":  petID,
			"message": fmt.Sprintf("message %d", i),
		})
		if st != http.StatusOK {
			t.Fatalf("chat #%d failed: %d body=%s", i, st, string(body))
		}
	}

	_, body := doReq(t, ts.URL, "GET", "/chat/"+petID+"/history?limit=200", "owner-1", nil)
	h := decodeHistory(t, body)
	if len(h.Messages) != 100 {
		t.Fatalf("expected history capped at 100, got %d", len(h.Messages))
	}
	// El primer turno (message 0) quedó recortado
	if h.Messages[0].Content == "message 0" {
		t.Fatalf("oldest turn should have been trimmed")
	}
	if h.Messages[len(h.Messages)-2].Content != "message 50" {
		t.Fatalf("newest turn must be at the tail, got %q", h.Messages[len(h.Messages)-2].Content)
	}
}

func TestHTTP_Validation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	// pet_type inválido
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets", "owner-1", map[string]any{
			"name":     "Smaug",
			"pet_type": "dragon",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown pet_type, got %d", st)
		}
	}

	// trait inválido
	{
		st, _ := doReq(t, ts.URL, "POST", "/pets", "owner-1", map[string]any{
			"name":               "Buster",
			"pet_type":           "dog",
			"personality_traits": []string{"invisible"},
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown trait, got %d", st)
		}
	}

	// chat sin mensaje
	petID := createPet(t, ts.URL, "owner-1", map[string]any{
		"name":     "Buster",
		"pet_type": "dog",
	})
	{
		st, _ := doReq(t, ts.URL, "POST", "/chat", "owner-1", map[string]any{
			"pet_id":  petID,
			"message": "",
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for empty message, got %d", st)
		}
	}

	// limit no numérico
	{
		st, _ := doReq(t, ts.URL, "GET", "/chat/"+petID+"/history?limit=abc", "owner-1", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad limit, got %d", st)
		}
	}

	// mascota inexistente
	{
		st, _ := doReq(t, ts.URL, "GET", "/chat/nope1234/history", "owner-1", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown pet history, got %d", st)
		}
	}
}

func TestHTTP_OwnersAreIsolated(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	_ = createPet(t, ts.URL, "owner-1", map[string]any{"name": "Buster", "pet_type": "dog"})
	_ = createPet(t, ts.URL, "owner-2", map[string]any{"name": "Michi", "pet_type": "cat"})

	st, body := doReq(t, ts.URL, "GET", "/pets", "owner-2", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list, got %d", st)
	}
	var items []struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(body, &items)
	if len(items) != 1 || items[0].Name != "Michi" {
		t.Fatalf("owner-2 must only see their pets, body=%s", string(body))
	}
}

func TestHTTP_Health(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	for _, path := range []string{"/", "/health"} {
		st, body := doReq(t, ts.URL, "GET", path, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on %s, got %d", path, st)
		}
		var resp struct {
			Status  string `json:"status"`
			Version string `json:"version"`
		}
		_ = json.Unmarshal(body, &resp)
		if resp.Status != "healthy" || resp.Version == "" {
			t.Fatalf("unexpected health body on %s: %s", path, string(body))
		}
	}
}

func TestHTTP_ChatRateLimited(t *testing.T) {
	srv := miniredis.RunT(t)
	limiter, err := ratelimit.NewFixedWindowLimiter(srv.Addr(), "", "test:chat", 2, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil,
		ChatLimiter:  limiter,
	}))
	defer ts.Close()

	petID := createPet(t, ts.URL, "owner-1", map[string]any{"name": "Buster", "pet_type": "dog"})

	for i := 0; i < 2; i++ {
		st, body := doReq(t, ts.URL, "POST", "/chat", "owner-1", map[string]any{
			"pet_id":  petID,
			"message": "hi",
		})
		if st != http.StatusOK {
			t.Fatalf("chat #%d should pass, got %d body=%s", i, st, string(body))
		}
	}

	st, _ := doReq(t, ts.URL, "POST", "/chat", "owner-1", map[string]any{
		"pet_id":  petID,
		"message": "hi again",
	})
	if st != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over quota, got %d", st)
	}

	// Las rutas fuera de /chat no pasan por el limiter
	st, _ = doReq(t, ts.URL, "GET", "/pets", "owner-1", nil)
	if st != http.StatusOK {
		t.Fatalf("pets routes must not be rate limited, got %d", st)
	}
}

func TestHTTP_BadDSNFallsBackToMemoryWithWarning(t *testing.T) {
	t.Setenv("DB_DSN", "://bad")

	log := &captureLogger{}
	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: nil,
		Log:          log,
	}))
	defer ts.Close()

	found := false
	for _, w := range log.warns {
		if strings.Contains(w, "in-memory") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a warning about the in-memory fallback, got %v", log.warns)
	}

	// El server sigue siendo usable con los repos in-memory
	petID := createPet(t, ts.URL, "owner-1", map[string]any{"name": "Buster", "pet_type": "dog"})
	st, _ := doReq(t, ts.URL, "GET", "/pets/"+petID, "owner-1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get pet on memory fallback, got %d", st)
	}
}

// -------------------------
// Helpers
// -------------------------

// captureLogger acumula los mensajes de Warn para poder asertarlos.
type captureLogger struct {
	warns []string
}

func (l *captureLogger) With(fields map[string]any) logger.Logger { return l }
func (l *captureLogger) Debug(msg string, fields map[string]any)  {}
func (l *captureLogger) Info(msg string, fields map[string]any)   {}
func (l *captureLogger) Warn(msg string, fields map[string]any)   { l.warns = append(l.warns, msg) }
func (l *captureLogger) Error(msg string, fields map[string]any)  {}

type historyBody struct {
	PetID    string `json:"pet_id"`
	PetName  string `json:"pet_name"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func decodeHistory(t *testing.T, body []byte) historyBody {
	t.Helper()
	var h historyBody
	if err := json.Unmarshal(body, &h); err != nil {
		t.Fatalf("decode history: %v body=%s", err, string(body))
	}
	return h
}

func createPet(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/pets", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create pet: missing id body=%s", string(body))
	}
	return resp.ID
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

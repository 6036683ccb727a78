package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// maxRequestBody caps the size of an incoming chat request.
const maxRequestBody = 64 << 10

type replyBody struct {
	Reply string `json:"reply"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// RegisterRoutes mounts the HTTP chat endpoints on the given router.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/api/chat", handleChat(svc))
	r.Post("/chat", handleChat(svc))
}

// RegisterWebSocket mounts /ws/chat. It must not sit behind a request
// timeout: a session lives as long as the connection.
func RegisterWebSocket(r chi.Router, svc *Service) {
	r.Get("/ws/chat", handleWebSocket(svc))
}

func handleChat(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Detail: "invalid request body"})
			return
		}

		reply, err := svc.Reply(r.Context(), req)
		if err != nil {
			status, detail := errorStatus(err)
			writeJSON(w, status, errorBody{Detail: detail})
			return
		}
		writeJSON(w, http.StatusOK, replyBody{Reply: reply.Text})
	}
}

// errorStatus maps a service error onto a status code and detail text.
func errorStatus(err error) (int, string) {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrEmptyMessage):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &upstream):
		return http.StatusBadGateway, upstream.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

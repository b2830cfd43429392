package utils

import (
	"encoding/json"
	"net/http"
)

type M map[string]any

// Envelope is the wire envelope every endpoint answers with.
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func SendSuccess(w http.ResponseWriter, code int, data any) {
	RespondWithJSON(w, code, Envelope{Status: "success", Data: data})
}

func SendSuccessMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Envelope{Status: "success", Message: message})
}

func SendError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, Envelope{Status: "error", Message: message})
}

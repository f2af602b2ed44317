package api

import (
	"encoding/json"
	"net/http"

	"quizpilot/internal/answer"
	"quizpilot/internal/audit"
	"quizpilot/internal/question"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type healthResponse struct {
	OK       bool     `json:"ok"`
	Adapters []string `json:"adapters"`
}

type detectResponse struct {
	Adapter string `json:"adapter"`
	Quiz    bool   `json:"quiz"`
	Title   string `json:"title,omitempty"`
}

type parseResponse struct {
	Adapter   string              `json:"adapter"`
	Title     string              `json:"title,omitempty"`
	Questions []question.Question `json:"questions"`
}

type applyResponse struct {
	Result answer.Result `json:"result"`
	HTML   string        `json:"html"`
}

type historyResponse struct {
	Attempts []audit.Row `json:"attempts"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"encode_failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

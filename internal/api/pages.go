package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"quizpilot/internal/answer"
	"quizpilot/internal/audit"
	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
	"quizpilot/internal/question"
	"quizpilot/internal/solver"
)

// pageRequest is a serialized page snapshot.
type pageRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

type applyRequest struct {
	pageRequest
	QuestionID string              `json:"questionId"`
	Suggestion question.Suggestion `json:"suggestion"`
}

var errEmptyPage = errors.New("html is required")

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// load parses the snapshot and detects its adapter. adapter is nil when no
// registered host recognizes the page.
func (h *handler) load(req pageRequest) (*dom.Document, platform.Adapter, error) {
	if strings.TrimSpace(req.HTML) == "" {
		return nil, nil, errEmptyPage
	}
	doc, err := dom.ParseString(req.HTML, req.URL)
	if err != nil {
		return nil, nil, err
	}
	if h.registry == nil {
		return doc, nil, nil
	}
	adapter, ok := h.registry.Detect(doc)
	if !ok {
		return doc, nil, nil
	}
	return doc, adapter, nil
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	var names []string
	if h.registry != nil {
		names = h.registry.Names()
	}
	writeJSON(w, http.StatusOK, healthResponse{OK: true, Adapters: names})
}

func (h *handler) handleDetect(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	doc, adapter, err := h.load(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if adapter == nil {
		writeJSON(w, http.StatusOK, detectResponse{})
		return
	}
	var title string
	doc.Do(func() { title = adapter.QuizTitle(doc) })
	writeJSON(w, http.StatusOK, detectResponse{Adapter: adapter.Name(), Quiz: true, Title: title})
}

func (h *handler) handleParse(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	doc, adapter, err := h.load(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if adapter == nil {
		writeJSON(w, http.StatusOK, parseResponse{Questions: []question.Question{}})
		return
	}
	title, questions := solver.Inventory(doc, adapter)
	if questions == nil {
		questions = []question.Question{}
	}
	writeJSON(w, http.StatusOK, parseResponse{Adapter: adapter.Name(), Title: title, Questions: questions})
}

func (h *handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.QuestionID) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "questionId is required")
		return
	}
	doc, adapter, err := h.load(req.pageRequest)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if adapter == nil {
		writeError(w, http.StatusUnprocessableEntity, "no_adapter", "no adapter recognizes this page")
		return
	}
	_, questions := solver.Inventory(doc, adapter)
	for _, q := range questions {
		if q.ID != req.QuestionID {
			continue
		}
		result := answer.Apply(doc, q, req.Suggestion)
		h.logger.Info("applied suggestion",
			zap.String("adapter", adapter.Name()),
			zap.String("summary", answer.Summary(q, result)))
		var markup string
		doc.Do(func() { markup = doc.String() })
		writeJSON(w, http.StatusOK, applyResponse{Result: result, HTML: markup})
		return
	}
	writeError(w, http.StatusNotFound, "unknown_question", fmt.Sprintf("no question %q on this page", req.QuestionID))
}

func (h *handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history_disabled", "no audit store is configured")
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	rows, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Warn("history query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "history_failed", err.Error())
		return
	}
	if rows == nil {
		rows = []audit.Row{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Attempts: rows})
}

package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"agent-runner/internal/domain/entity"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	HeaderSessionID = "X-Session-Id"
	TrailerRunState = "X-Run-Status"

	defaultEntriesLimit = 20
	maxEntriesLimit     = 1000
	maxRequestBody      = 1 << 20
)

type runRequest struct {
	Prompt    string `json:"prompt"`
	MaxSteps  int    `json:"max_steps,omitempty"`
	Provider  string `json:"provider,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// runAgent streams fragments as a plain chunked body. Once the first fragment
// is out the status code is committed, so a later failure aborts the
// connection instead of ending the body cleanly.
func (h *Handler) runAgent(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg, err := entity.RunConfig{
		Prompt:    req.Prompt,
		MaxSteps:  req.MaxSteps,
		Provider:  entity.ProviderName(req.Provider),
		SessionID: req.SessionID,
	}.Normalize()
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if cfg.SessionID == "" {
		cfg.SessionID = uuid.NewString()
	}

	logger := h.logger.WithFields(map[string]any{
		"request_id": middleware.GetReqID(r.Context()),
		"session_id": cfg.SessionID,
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set(HeaderSessionID, cfg.SessionID)
	w.Header().Set("Trailer", TrailerRunState)

	flusher, _ := w.(http.Flusher)
	started := false
	onChunk := func(chunk string) error {
		if !started {
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	result, err := h.runner.Run(r.Context(), cfg, onChunk)
	switch {
	case err == nil, errors.Is(err, entity.ErrDegraded):
		if err != nil {
			logger.Warn("Run delivered but not recorded", "error", err)
		}
		state := entity.RunStateCompleted
		if result != nil {
			state = result.State
		}
		w.Header().Set(TrailerRunState, string(state))
	case !started:
		logger.Error("Run failed before streaming", "error", err)
		writeError(w, statusFor(err), err)
	default:
		logger.Error("Run failed mid-stream, aborting response", "error", err)
		panic(http.ErrAbortHandler)
	}
}

func (h *Handler) sessionEntries(w http.ResponseWriter, r *http.Request) {
	if h.memory == nil {
		writeError(w, http.StatusNotFound, errors.New("conversation log is disabled"))
		return
	}

	limit := defaultEntriesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: invalid limit %q", entity.ErrValidation, raw))
			return
		}
		limit = min(n, maxEntriesLimit)
	}

	entries, err := h.memory.Recent(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		h.logger.Error("Failed to read session entries", "error", err)
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) listTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tools.Descriptors())
}

// runTool invokes one tool directly. Tool failures are reported in the body
// with status 200; only an unknown tool or unreadable params are HTTP errors.
func (h *Handler) runTool(w http.ResponseWriter, r *http.Request) {
	name := entity.ToolName(chi.URLParam(r, "name"))
	tool, ok := h.tools.Get(name)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("unknown tool %q", name))
		return
	}

	params := map[string]any{}
	if err := decodeJSON(r, &params); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result := tool.Run(r.Context(), params)
	if !result.Success {
		h.logger.Warn("Tool reported failure", "tool", name, "error", result.Error)
	}
	writeJSON(w, http.StatusOK, result)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", entity.ErrValidation)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", entity.ErrValidation, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	// Headers staged for a stream do not apply to an error body.
	w.Header().Del("Trailer")
	writeJSON(w, status, errorResponse{Error: strings.TrimSpace(err.Error())})
}

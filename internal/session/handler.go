package session

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/PraneethJain/simplipy-backend/internal/pkg/message"
	"github.com/PraneethJain/simplipy-backend/internal/pkg/web"
	"github.com/PraneethJain/simplipy-backend/internal/simplipy/interp"
	"github.com/PraneethJain/simplipy-backend/internal/simplipy/syntax"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type CreateSessionRequest struct {
	Code     string `json:"code" validate:"required"`
	Filename string `json:"filename"`
}

type ResetSessionRequest struct {
	Code     string `json:"code"`
	Filename string `json:"filename"`
}

type SimplifyRequest struct {
	Code string `json:"code" validate:"required"`
}

type sessionData struct {
	SessionID  string           `json:"session_id"`
	Token      string           `json:"token"`
	Simplified string           `json:"simplified"`
	State      *interp.Snapshot `json:"initial_state"`
	Finished   bool             `json:"finished"`
}

type stateData struct {
	State    *interp.Snapshot `json:"state"`
	Finished bool             `json:"finished"`
}

type simplifyData struct {
	Simplified string `json:"simplified"`
}

type programData struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	Source     string `json:"source"`
	Simplified string `json:"simplified"`
	CreatedAt  string `json:"created_at"`
}

type ListProgramsResponse struct {
	Programs []programData `json:"programs"`
}

// CreateSession compiles a submission and opens a new debugging session
// positioned at its first instruction.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	params, err := web.ParamsFromContext[CreateSessionRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	created, err := h.svc.Create(r.Context(), params.Code, params.Filename)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	data := &sessionData{
		SessionID:  created.SessionID,
		Token:      created.Token,
		Simplified: created.Simplified,
		State:      created.State,
		Finished:   created.Finished,
	}
	web.OK(w, http.StatusCreated, nil, data)
}

// StepSession advances the session one instruction.
func (h *Handler) StepSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Step(r.Context(), r.PathValue("session_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	data := &stateData{State: view.State, Finished: view.Finished}
	web.OK(w, http.StatusOK, nil, data)
}

// CurrentState reports the session's machine state without advancing it.
func (h *Handler) CurrentState(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Current(r.Context(), r.PathValue("session_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	data := &stateData{State: view.State, Finished: view.Finished}
	web.OK(w, http.StatusOK, nil, data)
}

// ResetSession rewinds the session. The body is optional: when it
// carries code, that program replaces the loaded one.
func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	var params ResetSessionRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &params); err != nil {
			web.RespondBadRequest(w, err, message.InvalidInput, nil)
			return
		}
	}

	view, err := h.svc.Reset(r.Context(), r.PathValue("session_id"), params.Code, params.Filename)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	data := &stateData{State: view.State, Finished: view.Finished}
	web.OK(w, http.StatusOK, nil, data)
}

// DeleteSession closes the session and frees its state.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("session_id")); err != nil {
		respondServiceError(w, err)
		return
	}

	msg := "Session deleted."
	web.OK[struct{}](w, http.StatusOK, &msg, nil)
}

// SimplifyProgram rewrites a program into the executable core without
// opening a session.
func (h *Handler) SimplifyProgram(w http.ResponseWriter, r *http.Request) {
	params, err := web.ParamsFromContext[SimplifyRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, err, message.InvalidInput, nil)
		return
	}

	simplified, err := h.svc.Simplify(r.Context(), params.Code)
	if err != nil {
		var syntaxErr *syntax.SyntaxError
		if errors.As(err, &syntaxErr) {
			web.RespondUnprocessableEntity(w, err, message.InvalidProgram, map[string]string{"code": syntaxErr.Error()})
			return
		}
		respondServiceError(w, err)
		return
	}

	data := &simplifyData{Simplified: simplified}
	web.OK(w, http.StatusOK, nil, data)
}

// ListPrograms returns every program the session has run.
func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.svc.Programs(r.Context(), r.PathValue("session_id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	data := make([]programData, 0, len(programs))
	for _, p := range programs {
		data = append(data, programData{
			ID:         p.ID,
			Filename:   p.Filename,
			Source:     p.Source,
			Simplified: p.Simplified,
			CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	payload := &ListProgramsResponse{Programs: data}
	web.OK(w, http.StatusOK, nil, payload)
}

// respondServiceError maps service failures to HTTP statuses: bad
// programs are client errors, missing sessions are 404, a full registry
// is 503, and everything else is a 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var (
		syntaxErr  *syntax.SyntaxError
		compileErr *interp.CompileError
	)
	switch {
	case errors.As(err, &syntaxErr):
		web.RespondBadRequest(w, err, message.InvalidProgram, map[string]string{"code": syntaxErr.Error()})
	case errors.As(err, &compileErr):
		web.RespondBadRequest(w, err, message.InvalidProgram, map[string]string{"code": compileErr.Error()})
	case errors.Is(err, ErrNotFound):
		web.RespondNotFound(w, err, message.SessionGone, nil)
	case errors.Is(err, ErrCapacity):
		web.Fail(w, http.StatusServiceUnavailable, err, "Too many live sessions. Try again later.", nil)
	default:
		web.RespondInternalServerError(w, err)
	}
}

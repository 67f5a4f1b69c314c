package app

import (
	"net/http"

	"github.com/PraneethJain/simplipy-backend/internal/middleware"
	"github.com/PraneethJain/simplipy-backend/internal/pkg/web"
	"github.com/PraneethJain/simplipy-backend/internal/platform/jwt"
	"github.com/PraneethJain/simplipy-backend/internal/platform/router"
	"github.com/PraneethJain/simplipy-backend/internal/platform/validation"
	"github.com/PraneethJain/simplipy-backend/internal/session"
)

func mountSessionRoutes(r router.Router, handler *session.Handler, validator validation.Validator, signer jwt.Signer, maxBodySize int64) {
	r.Group("/api", func(gr router.Router) {
		gr.Post("/program", handler.CreateSession,
			middleware.DecodePayload[session.CreateSessionRequest](maxBodySize),
			middleware.ValidateInput[session.CreateSessionRequest](validator))
		gr.Post("/simplify", handler.SimplifyProgram,
			middleware.DecodePayload[session.SimplifyRequest](maxBodySize),
			middleware.ValidateInput[session.SimplifyRequest](validator))
		gr.Get("/step/{session_id}", handler.StepSession, session.RequireToken(signer))
		gr.Get("/state/{session_id}", handler.CurrentState, session.RequireToken(signer))
		gr.Post("/reset/{session_id}", handler.ResetSession, session.RequireToken(signer))
		gr.Get("/programs/{session_id}", handler.ListPrograms, session.RequireToken(signer))
		gr.Delete("/session/{session_id}", handler.DeleteSession, session.RequireToken(signer))
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		web.SendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

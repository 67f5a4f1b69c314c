package session

import (
	"errors"
	"net/http"

	"github.com/PraneethJain/simplipy-backend/internal/pkg/message"
	"github.com/PraneethJain/simplipy-backend/internal/pkg/security"
	"github.com/PraneethJain/simplipy-backend/internal/pkg/web"
	"github.com/PraneethJain/simplipy-backend/internal/platform/jwt"
)

var ErrTokenMismatch = errors.New("token does not grant access to this session")

// RequireToken guards session routes: the bearer token must verify and
// its subject must be the session named in the path.
func RequireToken(signer jwt.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := security.ExtractBearerToken(r)
			if err != nil || token == "" {
				web.RespondUnauthorized(w, err, message.InvalidToken, nil)
				return
			}

			claims, err := signer.Verify(token)
			if err != nil {
				web.RespondUnauthorized(w, err, message.InvalidToken, nil)
				return
			}

			if claims.SessionID != r.PathValue("session_id") {
				web.RespondUnauthorized(w, ErrTokenMismatch, message.InvalidToken, nil)
				return
			}

			ctx := NewContextWithSession(r.Context(), claims.SessionID)
			r = r.WithContext(ctx)
			next.ServeHTTP(w, r)
		})
	}
}

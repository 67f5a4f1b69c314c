package middleware

import (
	"errors"
	"net/http"

	"github.com/PraneethJain/simplipy-backend/internal/pkg/message"
	"github.com/PraneethJain/simplipy-backend/internal/pkg/web"
	"github.com/PraneethJain/simplipy-backend/internal/platform/validation"
)

// ValidateInput validates the payload DecodePayload stored in the
// context, failing the request with field errors when it is invalid.
func ValidateInput[T any](validator validation.Validator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params, err := web.ParamsFromContext[T](r.Context())
			if err != nil {
				web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
				return
			}

			if errs := validator.ValidateStruct(params); errs != nil {
				web.Fail(w, http.StatusBadRequest, errors.New("invalid input"), message.InvalidInput, errs)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

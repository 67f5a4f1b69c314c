package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/PraneethJain/simplipy-backend/internal/pkg/message"
	"github.com/PraneethJain/simplipy-backend/internal/pkg/web"
)

// CheckContentType rejects request bodies that are not JSON. Requests
// without a body pass through.
func CheckContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		contentType := r.Header.Get(web.HeaderContentType)
		if !strings.HasPrefix(contentType, web.MimeJSON) {
			web.Fail(w, http.StatusNotAcceptable, fmt.Errorf("invalid content-type: %s", contentType), message.InvalidInput, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

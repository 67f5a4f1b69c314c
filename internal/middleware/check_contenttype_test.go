package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PraneethJain/simplipy-backend/internal/middleware"
	"github.com/PraneethJain/simplipy-backend/internal/pkg/web"
)

func TestMiddleware_CheckContentType(t *testing.T) {
	t.Parallel()

	const defaultContent = "test"

	var tests = []struct {
		name, method, contentType, body string
		wantCode                        int
	}{
		{"JSON body", http.MethodPost, web.MimeJSON, `{"code":"x = 1"}`, http.StatusOK},
		{"JSON body with charset", http.MethodPost, "application/json; charset=utf-8", `{"code":"x = 1"}`, http.StatusOK},
		{"HTML body", http.MethodPost, "text/html; charset=utf-8", "<p>x</p>", http.StatusNotAcceptable},
		{"Missing Content-Type with body", http.MethodPost, "", `{"code":"x = 1"}`, http.StatusNotAcceptable},
		{"Get request without body", http.MethodGet, "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				if _, err := w.Write([]byte(defaultContent)); err != nil {
					const status = http.StatusInternalServerError
					http.Error(w, http.StatusText(status), status)
					return
				}
			})

			var body *strings.Reader
			if tt.body == "" {
				body = strings.NewReader("")
			} else {
				body = strings.NewReader(tt.body)
			}
			req, rec := httptest.NewRequest(tt.method, "/test", body), httptest.NewRecorder()
			if tt.contentType != "" {
				req.Header.Set(web.HeaderContentType, tt.contentType)
			}

			middleware.CheckContentType(handler).ServeHTTP(rec, req)

			wantCode, gotCode := tt.wantCode, rec.Code
			if gotCode != wantCode {
				t.Errorf("rec.Code = %d\nwant: %d", gotCode, wantCode)
			}
		})
	}
}

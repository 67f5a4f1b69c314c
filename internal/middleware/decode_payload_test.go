package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PraneethJain/simplipy-backend/internal/middleware"
	"github.com/PraneethJain/simplipy-backend/internal/pkg/web"
)

func TestDecodePayload(t *testing.T) {
	t.Parallel()

	const header = "X-Handler-Called"

	type submission struct {
		Code string `json:"code"`
	}

	tests := []struct {
		name     string
		code     int
		payload  []byte
		bodySize int64
		header   string
	}{
		{"Valid payload", http.StatusOK, []byte(`{"code":"x = 1"}`), 32, "true"},
		{"Payload too large", http.StatusRequestEntityTooLarge, []byte(`{"code":"x = 1\ny = 2"}`), 4, ""},
		{"Unknown field", http.StatusUnprocessableEntity, []byte(`{"code":"x = 1","lang":"py"}`), 64, ""},
		{"Extra payload", http.StatusBadRequest, []byte(`{"code":"x = 1"}{"code":"y = 2"}`), 64, ""},
		{"Incorrect data type", http.StatusBadRequest, []byte(`{"code": 42}`), 64, ""},
		{"Malformed payload", http.StatusBadRequest, []byte(`{"code"`), 64, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				params, err := web.ParamsFromContext[submission](r.Context())
				if err != nil {
					http.Error(w, err.Error(), http.StatusBadRequest)
					return
				}

				w.Header().Set(header, "true")
				w.WriteHeader(http.StatusOK)
				if err := json.NewEncoder(w).Encode(&params); err != nil {
					http.Error(w, err.Error(), http.StatusInternalServerError)
					return
				}
			})

			body := bytes.NewBuffer(tt.payload)
			req := httptest.NewRequest(http.MethodPost, "/", body)
			rec := httptest.NewRecorder()
			mw := middleware.DecodePayload[submission](tt.bodySize)(handler)
			mw.ServeHTTP(rec, req)

			gotCode, wantCode := rec.Code, tt.code
			if gotCode != wantCode {
				t.Errorf("rec.Code = %d, want: %d", gotCode, wantCode)
			}

			gotHeader, wantHeader := rec.Header().Get(header), tt.header
			if gotHeader != wantHeader {
				t.Errorf("rec.Header().Get(%q) = %q, want: %q", header, gotHeader, wantHeader)
			}
		})
	}
}
